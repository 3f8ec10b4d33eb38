package villa

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/registrovecinal/api/internal/auth"
	httpmiddleware "github.com/registrovecinal/api/internal/http/middleware"
	"github.com/registrovecinal/api/internal/repo"
)

type stubRepo struct {
	villas    []Villa
	existente *Villa
	deleteErr error
	creada    *Villa
}

func (s *stubRepo) List(ctx context.Context) ([]Villa, error) {
	return s.villas, nil
}

func (s *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*Villa, error) {
	if s.existente == nil || s.existente.ID != id {
		return nil, repo.ErrNotFound
	}
	return s.existente, nil
}

func (s *stubRepo) Create(ctx context.Context, nombre string, cupoMaximo int) (*Villa, error) {
	s.creada = &Villa{ID: uuid.New(), Nombre: nombre, CupoMaximo: cupoMaximo}
	return s.creada, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, nombre string, cupoMaximo int) (*Villa, error) {
	return &Villa{ID: id, Nombre: nombre, CupoMaximo: cupoMaximo}, nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteErr
}

type stubBitacora struct {
	acciones []string
}

func (s *stubBitacora) Registrar(ctx context.Context, actor *uuid.UUID, accion, entidad string, entidadID *uuid.UUID, antes, despues any, ip string) {
	s.acciones = append(s.acciones, accion)
}

func newTestServer(sr *stubRepo, bitacora *stubBitacora) *chi.Mux {
	handler := NewHandler(NewService(sr, bitacora))
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func withIdentidad(req *http.Request, rol auth.Rol) *http.Request {
	ident := httpmiddleware.Identidad{
		ID:          uuid.New(),
		Nombre:      "Prueba",
		Email:       "prueba@municipio.cl",
		Rol:         rol,
		EsAdmin:     rol == auth.RolAdmin,
		EsDirigente: rol == auth.RolDirigente,
	}
	ctx := context.WithValue(req.Context(), httpmiddleware.ContextKeyIdentidad, ident)
	return req.WithContext(ctx)
}

func jsonBody(body any) *bytes.Buffer {
	b, _ := json.Marshal(body)
	return bytes.NewBuffer(b)
}

func TestListCualquierRol(t *testing.T) {
	sr := &stubRepo{villas: []Villa{{ID: uuid.New(), Nombre: "Villa Esperanza", CupoMaximo: 50}}}
	srv := newTestServer(sr, &stubBitacora{})

	for _, rol := range []auth.Rol{auth.RolAdmin, auth.RolDirigente} {
		req := withIdentidad(httptest.NewRequest(http.MethodGet, "/", nil), rol)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("rol %s: expected 200 got %d", rol, rec.Code)
		}
	}
}

func TestCreateSoloAdmin(t *testing.T) {
	sr := &stubRepo{}
	bitacora := &stubBitacora{}
	srv := newTestServer(sr, bitacora)

	body := map[string]any{"nombre": "Villa Los Aromos", "cupo_maximo": 30}

	req := withIdentidad(httptest.NewRequest(http.MethodPost, "/", jsonBody(body)), auth.RolDirigente)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("dirigente: expected 403 got %d", rec.Code)
	}

	req = withIdentidad(httptest.NewRequest(http.MethodPost, "/", jsonBody(body)), auth.RolAdmin)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(bitacora.acciones) != 1 || bitacora.acciones[0] != "CREATE_VILLA" {
		t.Fatalf("bitácora inesperada: %v", bitacora.acciones)
	}
}

func TestCreateCupoAusenteEsSinLimite(t *testing.T) {
	sr := &stubRepo{}
	srv := newTestServer(sr, &stubBitacora{})

	req := withIdentidad(httptest.NewRequest(http.MethodPost, "/", jsonBody(map[string]any{"nombre": "Villa Norte"})), auth.RolAdmin)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if sr.creada == nil || sr.creada.CupoMaximo != 0 {
		t.Fatal("el cupo ausente debió guardarse como 0")
	}
}

func TestCreateCupoNegativo(t *testing.T) {
	srv := newTestServer(&stubRepo{}, &stubBitacora{})

	req := withIdentidad(httptest.NewRequest(http.MethodPost, "/", jsonBody(map[string]any{"nombre": "Villa Sur", "cupo_maximo": -1})), auth.RolAdmin)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestDeleteVillaReferenciada(t *testing.T) {
	v := &Villa{ID: uuid.New(), Nombre: "Villa Centro", CupoMaximo: 10}
	bitacora := &stubBitacora{}
	srv := newTestServer(&stubRepo{existente: v, deleteErr: repo.ErrReferenciada}, bitacora)

	req := withIdentidad(httptest.NewRequest(http.MethodDelete, "/"+v.ID.String(), nil), auth.RolAdmin)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	if len(bitacora.acciones) != 0 {
		t.Fatal("una eliminación rechazada no debe dejar bitácora")
	}
}

func TestDeleteVillaOK(t *testing.T) {
	v := &Villa{ID: uuid.New(), Nombre: "Villa Centro", CupoMaximo: 10}
	bitacora := &stubBitacora{}
	srv := newTestServer(&stubRepo{existente: v}, bitacora)

	req := withIdentidad(httptest.NewRequest(http.MethodDelete, "/"+v.ID.String(), nil), auth.RolAdmin)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(bitacora.acciones) != 1 || bitacora.acciones[0] != "DELETE_VILLA" {
		t.Fatalf("bitácora inesperada: %v", bitacora.acciones)
	}
}
