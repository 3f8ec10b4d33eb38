package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/registrovecinal/api/internal/auditoria"
	"github.com/registrovecinal/api/internal/auth"
	"github.com/registrovecinal/api/internal/config"
	"github.com/registrovecinal/api/internal/http/middleware"
	"github.com/registrovecinal/api/internal/persona"
	"github.com/registrovecinal/api/internal/usuario"
	"github.com/registrovecinal/api/internal/villa"
	"github.com/registrovecinal/api/internal/web"
)

// RouterDeps agrupa los handlers y servicios que el router necesita.
type RouterDeps struct {
	Config   *config.Config
	JWT      *auth.JWTManager
	Auth     *AuthHandler
	Personas *persona.Handler
	Villas   *villa.Handler
	Usuarios *usuario.Handler
	Bitacora *auditoria.Handler
}

// NewRouter arma el árbol completo de rutas con sus middlewares.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(deps.Config.AllowOrigins))

	r.Handle("/metrics", middleware.MetricsHandler())

	publicLimiter := middleware.NewRateLimiter(deps.Config.RateLimitPublic.RequestsPerSecond, deps.Config.RateLimitPublic.Burst)
	authLimiter := middleware.NewRateLimiter(deps.Config.RateLimitAuth.RequestsPerSecond, deps.Config.RateLimitAuth.Burst)

	r.Route("/api", func(r chi.Router) {
		// Rutas públicas, limitadas por IP.
		r.Group(func(r chi.Router) {
			r.Use(middleware.IPRateLimit(publicLimiter))

			r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
				web.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
			})
			r.Post("/auth/login", deps.Auth.Login)
		})

		// Rutas privadas: sesión válida y límite por usuario.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.JWT))
			r.Use(middleware.UserRateLimit(authLimiter))

			r.Route("/personas", deps.Personas.RegisterRoutes)

			r.Route("/villas", deps.Villas.RegisterRoutes)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				deps.Usuarios.RegisterRoutes(r)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				deps.Bitacora.RegisterRoutes(r)
			})
		})
	})

	return r
}
