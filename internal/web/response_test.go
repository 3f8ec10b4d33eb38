package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/registrovecinal/api/internal/util"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "Persona no encontrada")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("cuerpo no es JSON: %v", err)
	}
	if body["message"] != "Persona no encontrada" {
		t.Fatalf("cuerpo inesperado: %v", body)
	}
}

func TestWriteValidationError(t *testing.T) {
	ve := &util.ValidationError{}
	ve.Add("rut", "RUT inválido")

	rec := httptest.NewRecorder()
	WriteValidationError(rec, ve)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	var body struct {
		Message string `json:"message"`
		Errors  []struct {
			Campo   string `json:"campo"`
			Mensaje string `json:"mensaje"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("cuerpo no es JSON: %v", err)
	}
	if body.Message != "Datos inválidos" || len(body.Errors) != 1 || body.Errors[0].Campo != "rut" {
		t.Fatalf("cuerpo inesperado: %+v", body)
	}
}
