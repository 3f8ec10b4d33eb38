package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/registrovecinal/api/internal/auditoria"
	"github.com/registrovecinal/api/internal/auth"
	"github.com/registrovecinal/api/internal/bruteforce"
	"github.com/registrovecinal/api/internal/config"
	"github.com/registrovecinal/api/internal/persona"
	"github.com/registrovecinal/api/internal/service"
	"github.com/registrovecinal/api/internal/usuario"
	"github.com/registrovecinal/api/internal/villa"
)

func newTestRouter() http.Handler {
	cfg := &config.Config{
		RateLimitPublic: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
		RateLimitAuth:   config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}
	jwtManager := auth.NewJWTManager("clave-de-prueba-con-largo-suficiente", 8*time.Hour)
	guard := bruteforce.New(bruteforce.NewMemoryStore())

	return NewRouter(RouterDeps{
		Config:   cfg,
		JWT:      jwtManager,
		Auth:     NewAuthHandler(service.NewAuthService(nil, guard, jwtManager)),
		Personas: persona.NewHandler(nil),
		Villas:   villa.NewHandler(nil),
		Usuarios: usuario.NewHandler(nil),
		Bitacora: auditoria.NewHandler(nil),
	})
}

func TestHealth(t *testing.T) {
	srv := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("cuerpo no es JSON: %v", err)
	}
	if !body["ok"] {
		t.Fatalf("cuerpo inesperado: %v", body)
	}
}

func TestRutasPrivadasSinToken(t *testing.T) {
	srv := newTestRouter()

	for _, path := range []string{"/api/personas", "/api/villas", "/api/users", "/api/admin/logs"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, rec.Code)
		}
	}
}
