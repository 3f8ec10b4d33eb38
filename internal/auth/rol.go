package auth

import (
	"fmt"
	"strings"
)

// Rol es el conjunto cerrado de papeles de la aplicación.
type Rol string

const (
	// RolAdmin administra todo el padrón sin restricción de villa.
	RolAdmin Rol = "ADMIN"
	// RolDirigente opera únicamente sobre su propia villa.
	RolDirigente Rol = "DIRIGENTE"
)

// ParseRol normaliza y valida un rol almacenado o recibido por la API.
func ParseRol(valor string) (Rol, error) {
	switch Rol(strings.ToUpper(strings.TrimSpace(valor))) {
	case RolAdmin:
		return RolAdmin, nil
	case RolDirigente:
		return RolDirigente, nil
	default:
		return "", fmt.Errorf("rol desconocido: %q", valor)
	}
}

func (r Rol) String() string {
	return string(r)
}
