// Package web contiene los helpers de respuesta JSON compartidos por
// todos los handlers.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/registrovecinal/api/internal/util"
)

// WriteJSON serializa la respuesta con el status indicado.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError responde con el cuerpo estándar {"message": ...}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}

// WriteValidationError responde 400 con los errores de campo acumulados.
func WriteValidationError(w http.ResponseWriter, ve *util.ValidationError) {
	WriteJSON(w, http.StatusBadRequest, map[string]any{
		"message": "Datos inválidos",
		"errors":  ve.Errores,
	})
}
