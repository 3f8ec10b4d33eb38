package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/registrovecinal/api/internal/http/middleware"
	"github.com/registrovecinal/api/internal/service"
	"github.com/registrovecinal/api/internal/web"
)

// AuthHandler expone el endpoint público de login.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler crea el handler de autenticación.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login valida credenciales y responde el token de sesión con la
// identidad del usuario.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password, middleware.RealIP(r))
	if err != nil {
		h.handleError(w, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCamposFaltantes):
		web.WriteError(w, http.StatusBadRequest, "Email y contraseña son requeridos")
	case errors.Is(err, service.ErrDemasiadosIntentos):
		web.WriteError(w, http.StatusTooManyRequests, "Demasiados intentos fallidos. Intente nuevamente en unos minutos.")
	case errors.Is(err, service.ErrUsuarioInactivo):
		web.WriteError(w, http.StatusForbidden, "El usuario se encuentra inactivo. Contacte al administrador.")
	case errors.Is(err, service.ErrCredencialesInvalidas):
		web.WriteError(w, http.StatusUnauthorized, "Credenciales inválidas")
	default:
		web.WriteError(w, http.StatusInternalServerError, "Error interno del servidor")
	}
}
