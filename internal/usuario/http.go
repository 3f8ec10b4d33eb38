package usuario

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

// Handler expone las rutas de gestión de usuarios (montadas bajo
// RequireAdmin en el router).
type Handler struct {
	svc *Service
}

// NewHandler crea el handler de usuarios.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes monta el CRUD de usuarios.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List responde las cuentas activas.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.svc.List(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}
	if usuarios == nil {
		usuarios = []Publico{}
	}
	web.WriteJSON(w, http.StatusOK, usuarios)
}

// Create registra una cuenta nueva.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentidad(r.Context())
	if !ok {
		web.WriteError(w, http.StatusUnauthorized, "Token inválido. Inicie sesión nuevamente.")
		return
	}

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		web.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	nuevo, err := h.svc.Create(r.Context(), ident.ID, input, middleware.RealIP(r))
	if err != nil {
		h.handleError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, nuevo)
}

// Update edita una cuenta existente.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
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

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		web.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	actualizado, err := h.svc.Update(r.Context(), ident.ID, id, input, middleware.RealIP(r))
	if err != nil {
		h.handleError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, actualizado)
}

// Delete desactiva una cuenta (soft delete).
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

	if err := h.svc.Deactivate(r.Context(), ident.ID, id, middleware.RealIP(r)); err != nil {
		h.handleError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"message": "Usuario desactivado correctamente"})
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	var ve *util.ValidationError
	switch {
	case errors.As(err, &ve):
		web.WriteValidationError(w, ve)
	case errors.Is(err, ErrVillaRequerida):
		web.WriteError(w, http.StatusBadRequest, "villa_id es requerido para DIRIGENTE")
	case errors.Is(err, repo.ErrNotFound):
		web.WriteError(w, http.StatusNotFound, "Usuario no encontrado")
	case errors.Is(err, ErrYaInactivo):
		web.WriteError(w, http.StatusConflict, "El usuario ya se encuentra inactivo")
	case errors.Is(err, repo.ErrDuplicado):
		web.WriteError(w, http.StatusConflict, "Email ya está en uso")
	default:
		web.WriteError(w, http.StatusInternalServerError, "Error interno del servidor")
	}
}
