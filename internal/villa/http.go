package villa

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

// Handler expone las rutas de villas.
type Handler struct {
	svc *Service
}

// NewHandler crea el handler de villas.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes monta el listado para cualquier rol autenticado y las
// mutaciones solo para ADMIN.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.Post("/", h.Create)
		admin.Put("/{id}", h.Update)
		admin.Delete("/{id}", h.Delete)
	})
}

// List responde todas las villas ordenadas por nombre.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	villas, err := h.svc.List(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}
	if villas == nil {
		villas = []Villa{}
	}
	web.WriteJSON(w, http.StatusOK, villas)
}

// Create registra una villa nueva.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, input, ok := h.decode(w, r)
	if !ok {
		return
	}

	nueva, err := h.svc.Create(r.Context(), ident.ID, input, middleware.RealIP(r))
	if err != nil {
		h.handleError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, nueva)
}

// Update edita una villa existente.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	ident, input, ok := h.decode(w, r)
	if !ok {
		return
	}

	actualizada, err := h.svc.Update(r.Context(), ident.ID, id, input, middleware.RealIP(r))
	if err != nil {
		h.handleError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, actualizada)
}

// Delete elimina una villa sin referencias.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	ident, ok := middleware.GetIdentidad(r.Context())
	if !ok {
		web.WriteError(w, http.StatusUnauthorized, "Token inválido. Inicie sesión nuevamente.")
		return
	}

	if err := h.svc.Delete(r.Context(), ident.ID, id, middleware.RealIP(r)); err != nil {
		h.handleError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"message": "Villa eliminada correctamente"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (middleware.Identidad, Input, bool) {
	ident, ok := middleware.GetIdentidad(r.Context())
	if !ok {
		web.WriteError(w, http.StatusUnauthorized, "Token inválido. Inicie sesión nuevamente.")
		return middleware.Identidad{}, Input{}, false
	}

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		web.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return middleware.Identidad{}, Input{}, false
	}
	return ident, input, true
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	var ve *util.ValidationError
	switch {
	case errors.As(err, &ve):
		web.WriteValidationError(w, ve)
	case errors.Is(err, ErrCupoNegativo):
		web.WriteError(w, http.StatusBadRequest, "El cupo máximo no puede ser negativo")
	case errors.Is(err, repo.ErrNotFound):
		web.WriteError(w, http.StatusNotFound, "Villa no encontrada")
	case errors.Is(err, repo.ErrReferenciada):
		web.WriteError(w, http.StatusConflict,
			"No se puede eliminar la villa porque tiene registros asociados (por ejemplo dirigentes o personas).")
	case errors.Is(err, repo.ErrDuplicado):
		web.WriteError(w, http.StatusConflict, "Ya existe una villa con ese nombre")
	default:
		web.WriteError(w, http.StatusInternalServerError, "Error interno del servidor")
	}
}
