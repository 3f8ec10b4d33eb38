package persona

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
	personas  []Persona
	porVilla  map[uuid.UUID][]Persona
	existente *Persona
	createErr error
	creada    *Datos
}

func (s *stubRepo) ListAll(ctx context.Context) ([]Persona, error) {
	return s.personas, nil
}

func (s *stubRepo) ListByVilla(ctx context.Context, villaID uuid.UUID) ([]Persona, error) {
	return s.porVilla[villaID], nil
}

func (s *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*Persona, error) {
	if s.existente == nil || s.existente.ID != id {
		return nil, repo.ErrNotFound
	}
	return s.existente, nil
}

func (s *stubRepo) Create(ctx context.Context, datos Datos) (*Persona, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.creada = &datos
	return &Persona{
		ID:      uuid.New(),
		Nombre:  datos.Nombre,
		Rut:     datos.Rut,
		VillaID: datos.VillaID,
	}, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, datos Datos, checkCupo bool) (*Persona, error) {
	return &Persona{ID: id, Nombre: datos.Nombre, Rut: datos.Rut, VillaID: datos.VillaID}, nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubBitacora struct {
	acciones []string
}

func (s *stubBitacora) Registrar(ctx context.Context, actor *uuid.UUID, accion, entidad string, entidadID *uuid.UUID, antes, despues any, ip string) {
	s.acciones = append(s.acciones, accion)
}

func newTestServer(repo *stubRepo, bitacora *stubBitacora) *chi.Mux {
	handler := NewHandler(NewService(repo, bitacora))
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func withIdentidad(req *http.Request, rol auth.Rol, villaID *uuid.UUID) *http.Request {
	ident := httpmiddleware.Identidad{
		ID:          uuid.New(),
		Nombre:      "Prueba",
		Email:       "prueba@municipio.cl",
		Rol:         rol,
		VillaID:     villaID,
		EsAdmin:     rol == auth.RolAdmin,
		EsDirigente: rol == auth.RolDirigente,
	}
	ctx := context.WithValue(req.Context(), httpmiddleware.ContextKeyIdentidad, ident)
	return req.WithContext(ctx)
}

func jsonBody(body any) *bytes.Buffer {
	if body == nil {
		return bytes.NewBuffer(nil)
	}
	b, _ := json.Marshal(body)
	return bytes.NewBuffer(b)
}

func TestListPorRol(t *testing.T) {
	villaA := uuid.New()
	villaB := uuid.New()
	repo := &stubRepo{
		personas: []Persona{
			{ID: uuid.New(), Nombre: "Ana Soto", Rut: "123456785", VillaID: villaA},
			{ID: uuid.New(), Nombre: "Luis Rojas", Rut: "76543216", VillaID: villaB},
		},
		porVilla: map[uuid.UUID][]Persona{
			villaA: {{ID: uuid.New(), Nombre: "Ana Soto", Rut: "123456785", VillaID: villaA}},
		},
	}
	srv := newTestServer(repo, &stubBitacora{})

	t.Run("admin ve todas", func(t *testing.T) {
		req := withIdentidad(httptest.NewRequest(http.MethodGet, "/", nil), auth.RolAdmin, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		var got []Persona
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("respuesta no es JSON: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("admin debió ver 2 personas, vio %d", len(got))
		}
	})

	t.Run("dirigente ve solo su villa", func(t *testing.T) {
		req := withIdentidad(httptest.NewRequest(http.MethodGet, "/", nil), auth.RolDirigente, &villaA)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		var got []Persona
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("respuesta no es JSON: %v", err)
		}
		if len(got) != 1 || got[0].VillaID != villaA {
			t.Fatalf("dirigente debió ver solo su villa: %+v", got)
		}
	})

	t.Run("dirigente sin villa", func(t *testing.T) {
		req := withIdentidad(httptest.NewRequest(http.MethodGet, "/", nil), auth.RolDirigente, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})
}

func TestCreateDirigenteFuerzaSuVilla(t *testing.T) {
	villaPropia := uuid.New()
	villaAjena := uuid.New()
	repo := &stubRepo{}
	bitacora := &stubBitacora{}
	srv := newTestServer(repo, bitacora)

	body := map[string]any{"nombre": "Ana Soto", "rut": "12345678-5", "villa_id": villaAjena}
	req := withIdentidad(httptest.NewRequest(http.MethodPost, "/", jsonBody(body)), auth.RolDirigente, &villaPropia)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.creada == nil || repo.creada.VillaID != villaPropia {
		t.Fatal("el dirigente debió crear dentro de su propia villa")
	}
	if len(bitacora.acciones) != 1 || bitacora.acciones[0] != "CREATE_PERSONA" {
		t.Fatalf("bitácora inesperada: %v", bitacora.acciones)
	}
}

func TestCreateAdminRequiereVilla(t *testing.T) {
	repo := &stubRepo{}
	bitacora := &stubBitacora{}
	srv := newTestServer(repo, bitacora)

	body := map[string]any{"nombre": "Ana Soto", "rut": "12345678-5"}
	req := withIdentidad(httptest.NewRequest(http.MethodPost, "/", jsonBody(body)), auth.RolAdmin, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if len(bitacora.acciones) != 0 {
		t.Fatal("una creación rechazada no debe dejar bitácora")
	}
}

func TestCreateCupoLleno(t *testing.T) {
	villaID := uuid.New()
	repo := &stubRepo{createErr: ErrCupoLleno}
	bitacora := &stubBitacora{}
	srv := newTestServer(repo, bitacora)

	body := map[string]any{"nombre": "Ana Soto", "rut": "12345678-5", "villa_id": villaID}
	req := withIdentidad(httptest.NewRequest(http.MethodPost, "/", jsonBody(body)), auth.RolAdmin, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if len(bitacora.acciones) != 0 {
		t.Fatal("cupo lleno no debe dejar bitácora")
	}
}

func TestCreateRutInvalido(t *testing.T) {
	villaID := uuid.New()
	srv := newTestServer(&stubRepo{}, &stubBitacora{})

	body := map[string]any{"nombre": "Ana Soto", "rut": "12345678-4", "villa_id": villaID}
	req := withIdentidad(httptest.NewRequest(http.MethodPost, "/", jsonBody(body)), auth.RolAdmin, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	var resp struct {
		Message string `json:"message"`
		Errors  []struct {
			Campo string `json:"campo"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("respuesta no es JSON: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Campo != "rut" {
		t.Fatalf("esperaba error en campo rut: %+v", resp)
	}
}

func TestCreateRutDuplicado(t *testing.T) {
	villaID := uuid.New()
	srv := newTestServer(&stubRepo{createErr: repo.ErrDuplicado}, &stubBitacora{})

	body := map[string]any{"nombre": "Ana Soto", "rut": "12345678-5", "villa_id": villaID}
	req := withIdentidad(httptest.NewRequest(http.MethodPost, "/", jsonBody(body)), auth.RolAdmin, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestUpdateDirigenteOtraVilla(t *testing.T) {
	villaPropia := uuid.New()
	villaAjena := uuid.New()
	ajena := &Persona{ID: uuid.New(), Nombre: "Luis Rojas", Rut: "76543216", VillaID: villaAjena}
	bitacora := &stubBitacora{}
	srv := newTestServer(&stubRepo{existente: ajena}, bitacora)

	body := map[string]any{"nombre": "Luis Rojas", "rut": "7654321-6"}
	req := withIdentidad(httptest.NewRequest(http.MethodPut, "/"+ajena.ID.String(), jsonBody(body)), auth.RolDirigente, &villaPropia)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
	if len(bitacora.acciones) != 0 {
		t.Fatal("una edición rechazada no debe dejar bitácora")
	}
}

func TestDeleteRegistraBitacora(t *testing.T) {
	villaID := uuid.New()
	p := &Persona{ID: uuid.New(), Nombre: "Ana Soto", Rut: "123456785", VillaID: villaID}
	bitacora := &stubBitacora{}
	srv := newTestServer(&stubRepo{existente: p}, bitacora)

	req := withIdentidad(httptest.NewRequest(http.MethodDelete, "/"+p.ID.String(), nil), auth.RolDirigente, &villaID)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(bitacora.acciones) != 1 || bitacora.acciones[0] != "DELETE_PERSONA" {
		t.Fatalf("bitácora inesperada: %v", bitacora.acciones)
	}
}

func TestUpdateNoEncontrada(t *testing.T) {
	srv := newTestServer(&stubRepo{}, &stubBitacora{})

	body := map[string]any{"nombre": "Ana Soto", "rut": "12345678-5"}
	req := withIdentidad(httptest.NewRequest(http.MethodPut, "/"+uuid.NewString(), jsonBody(body)), auth.RolAdmin, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
