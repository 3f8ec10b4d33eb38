package util

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

var telefonoRe = regexp.MustCompile(`^[0-9+\s-]{6,15}$`)

// FieldError describe un error de validación a nivel de campo.
type FieldError struct {
	Campo   string `json:"campo"`
	Mensaje string `json:"mensaje"`
}

// ValidationError agrupa los errores de campo de una petición.
type ValidationError struct {
	Errores []FieldError
}

func (e *ValidationError) Error() string {
	return "datos inválidos"
}

// Add acumula un error de campo y devuelve el mismo puntero.
func (e *ValidationError) Add(campo, mensaje string) *ValidationError {
	e.Errores = append(e.Errores, FieldError{Campo: campo, Mensaje: mensaje})
	return e
}

// OrNil devuelve nil cuando no se acumuló ningún error.
func (e *ValidationError) OrNil() error {
	if len(e.Errores) == 0 {
		return nil
	}
	return e
}

// ValidarNombre exige un nombre con al menos 3 caracteres.
func ValidarNombre(nombre string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(nombre)) >= 3
}

// ValidarEmail acepta direcciones con formato RFC 5322.
func ValidarEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// ValidarTelefono acepta 6 a 15 caracteres entre dígitos, +, espacio y guión.
func ValidarTelefono(telefono string) bool {
	return telefonoRe.MatchString(telefono)
}

// ValidarDireccion limita la dirección a 255 caracteres.
func ValidarDireccion(direccion string) bool {
	return utf8.RuneCountInString(direccion) <= 255
}

// ValidarPassword exige un mínimo de 6 caracteres.
func ValidarPassword(password string) bool {
	return len(password) >= 6
}
