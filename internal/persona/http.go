package persona

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/registrovecinal/api/internal/http/middleware"
	"github.com/registrovecinal/api/internal/repo"
	"github.com/registrovecinal/api/internal/util"
	"github.com/registrovecinal/api/internal/web"
)

// Handler expone las rutas de personas para ADMIN y DIRIGENTE.
type Handler struct {
	svc *Service
}

// NewHandler crea el handler de personas.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes monta el CRUD de personas.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List responde las personas visibles para el solicitante.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sol, ok := solicitante(r)
	if !ok {
		web.WriteError(w, http.StatusUnauthorized, "Token inválido. Inicie sesión nuevamente.")
		return
	}

	personas, err := h.svc.List(r.Context(), sol)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if personas == nil {
		personas = []Persona{}
	}
	web.WriteJSON(w, http.StatusOK, personas)
}

// Create registra una persona nueva.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sol, ok := solicitante(r)
	if !ok {
		web.WriteError(w, http.StatusUnauthorized, "Token inválido. Inicie sesión nuevamente.")
		return
	}

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		web.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	creada, err := h.svc.Create(r.Context(), sol, input)
	if err != nil {
		h.handleError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, creada)
}

// Update edita una persona existente.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	sol, ok := solicitante(r)
	if !ok {
		web.WriteError(w, http.StatusUnauthorized, "Token inválido. Inicie sesión nuevamente.")
		return
	}

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		web.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	actualizada, err := h.svc.Update(r.Context(), sol, id, input)
	if err != nil {
		h.handleError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, actualizada)
}

// Delete elimina una persona.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	sol, ok := solicitante(r)
	if !ok {
		web.WriteError(w, http.StatusUnauthorized, "Token inválido. Inicie sesión nuevamente.")
		return
	}

	if err := h.svc.Delete(r.Context(), sol, id); err != nil {
		h.handleError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"message": "Persona eliminada correctamente"})
}

func solicitante(r *http.Request) (Solicitante, bool) {
	ident, ok := middleware.GetIdentidad(r.Context())
	if !ok {
		return Solicitante{}, false
	}
	return Solicitante{
		ID:      ident.ID,
		Rol:     ident.Rol,
		VillaID: ident.VillaID,
		IP:      middleware.RealIP(r),
	}, true
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	var ve *util.ValidationError
	switch {
	case errors.As(err, &ve):
		web.WriteValidationError(w, ve)
	case errors.Is(err, ErrDirigenteSinVilla):
		web.WriteError(w, http.StatusBadRequest, "No se ha definido una villa asociada al dirigente. Contacte al administrador.")
	case errors.Is(err, ErrCupoLleno):
		web.WriteError(w, http.StatusBadRequest, "Se alcanzó el cupo máximo de personas para esta villa. No se pueden agregar más registros.")
	case errors.Is(err, ErrVillaNoEncontrada):
		web.WriteError(w, http.StatusBadRequest, "La villa especificada no existe")
	case errors.Is(err, ErrNoAutorizado):
		web.WriteError(w, http.StatusForbidden, "No tiene permisos sobre personas de otras villas.")
	case errors.Is(err, repo.ErrNotFound):
		web.WriteError(w, http.StatusNotFound, "Persona no encontrada")
	case errors.Is(err, repo.ErrDuplicado):
		web.WriteError(w, http.StatusConflict, "Ya existe una persona con ese RUT o correo")
	default:
		web.WriteError(w, http.StatusInternalServerError, "Error interno del servidor")
	}
}
