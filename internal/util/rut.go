package util

import (
	"regexp"
	"strings"
)

var rutRe = regexp.MustCompile(`^\d{7,8}[0-9K]$`)

// ValidarRUT verifica el dígito verificador de un RUT chileno.
// Acepta el formato con o sin puntos y guión (12.345.678-5 / 12345678-5).
func ValidarRUT(rut string) bool {
	clean := strings.ToUpper(strings.NewReplacer(".", "", "-", "").Replace(strings.TrimSpace(rut)))
	if !rutRe.MatchString(clean) {
		return false
	}

	cuerpo := clean[:len(clean)-1]
	dv := clean[len(clean)-1:]

	// Módulo 11 con multiplicadores cíclicos 2..7 desde el último dígito.
	suma := 0
	mult := 2
	for i := len(cuerpo) - 1; i >= 0; i-- {
		suma += int(cuerpo[i]-'0') * mult
		if mult == 7 {
			mult = 2
		} else {
			mult++
		}
	}

	resto := suma % 11
	calc := 11 - resto

	var esperado string
	switch calc {
	case 11:
		esperado = "0"
	case 10:
		esperado = "K"
	default:
		esperado = string(rune('0' + calc))
	}

	return dv == esperado
}

// NormalizarRUT devuelve el RUT limpio en mayúsculas, sin puntos ni guión.
func NormalizarRUT(rut string) string {
	return strings.ToUpper(strings.NewReplacer(".", "", "-", "").Replace(strings.TrimSpace(rut)))
}
