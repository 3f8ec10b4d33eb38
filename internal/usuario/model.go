package usuario

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/registrovecinal/api/internal/auth"
)

var (
	// ErrYaInactivo indica un intento de desactivar un usuario ya inactivo.
	ErrYaInactivo = errors.New("el usuario ya se encuentra inactivo")
	// ErrVillaRequerida indica un DIRIGENTE sin villa asociada.
	ErrVillaRequerida = errors.New("villa_id es requerido para DIRIGENTE")
)

// Usuario es una cuenta del sistema. Nunca se elimina físicamente: la
// baja es un soft delete (activo=false).
type Usuario struct {
	ID           uuid.UUID
	Nombre       string
	Email        string
	PasswordHash string
	Rol          auth.Rol
	VillaID      *uuid.UUID
	Activo       bool
	CreadoEn     time.Time
	VillaNombre  *string
}

// Publico es la proyección del usuario sin el hash de contraseña,
// usada en respuestas y snapshots de bitácora.
type Publico struct {
	ID          uuid.UUID  `json:"id"`
	Nombre      string     `json:"nombre"`
	Email       string     `json:"email"`
	Rol         string     `json:"rol"`
	VillaID     *uuid.UUID `json:"villa_id"`
	Activo      bool       `json:"activo"`
	VillaNombre *string    `json:"villa_nombre,omitempty"`
}

// Publico proyecta la cuenta para exposición externa.
func (u Usuario) Publico() Publico {
	return Publico{
		ID:          u.ID,
		Nombre:      u.Nombre,
		Email:       u.Email,
		Rol:         u.Rol.String(),
		VillaID:     u.VillaID,
		Activo:      u.Activo,
		VillaNombre: u.VillaNombre,
	}
}

// Input contiene los campos de creación/edición de un usuario.
// Password es opcional en edición: vacío conserva el hash vigente.
type Input struct {
	Nombre   string     `json:"nombre"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Rol      string     `json:"rol"`
	VillaID  *uuid.UUID `json:"villa_id"`
}
