package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/registrovecinal/api/internal/auth"
)

type contextKey string

// ContextKeyIdentidad guarda la identidad autenticada en el contexto.
const ContextKeyIdentidad contextKey = "identidad"

// Identidad son los claims normalizados de la sesión vigente.
type Identidad struct {
	ID          uuid.UUID
	Nombre      string
	Email       string
	Rol         auth.Rol
	VillaID     *uuid.UUID
	EsAdmin     bool
	EsDirigente bool
}

// Auth valida el token Bearer y deja la identidad en el contexto.
// Distingue sesión expirada de token inválido.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				writeError(w, http.StatusUnauthorized, "No se encontró token de autenticación. Inicie sesión nuevamente.")
				return
			}

			claims, err := jwtManager.ParseAndValidate(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpirado) {
					writeError(w, http.StatusUnauthorized, "La sesión ha expirado. Inicie sesión nuevamente.")
					return
				}
				writeError(w, http.StatusUnauthorized, "Token inválido. Inicie sesión nuevamente.")
				return
			}

			id, err := uuid.Parse(claims.Subject)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Token inválido. Inicie sesión nuevamente.")
				return
			}

			rol, err := auth.ParseRol(claims.Rol)
			if err != nil {
				writeError(w, http.StatusForbidden, "No tiene permisos para acceder a este recurso.")
				return
			}

			ident := Identidad{
				ID:          id,
				Nombre:      claims.Nombre,
				Email:       claims.Email,
				Rol:         rol,
				VillaID:     claims.VillaID,
				EsAdmin:     rol == auth.RolAdmin,
				EsDirigente: rol == auth.RolDirigente,
			}

			ctx := context.WithValue(r.Context(), ContextKeyIdentidad, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentidad recupera la identidad autenticada del contexto.
func GetIdentidad(ctx context.Context) (Identidad, bool) {
	ident, ok := ctx.Value(ContextKeyIdentidad).(Identidad)
	return ident, ok
}

// RequireAdmin rechaza con 403 a quien no tenga rol ADMIN.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := GetIdentidad(r.Context())
		if !ok || ident.Rol != auth.RolAdmin {
			writeError(w, http.StatusForbidden, "No tiene permisos para acceder a este recurso.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireDirigente rechaza con 403 a quien no tenga rol DIRIGENTE.
func RequireDirigente(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := GetIdentidad(r.Context())
		if !ok || ident.Rol != auth.RolDirigente {
			writeError(w, http.StatusForbidden, "Solo los dirigentes pueden realizar esta acción.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
