package persona

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrCupoLleno indica que la villa alcanzó su cupo máximo.
	ErrCupoLleno = errors.New("cupo máximo de la villa alcanzado")
	// ErrVillaNoEncontrada indica una villa destino inexistente.
	ErrVillaNoEncontrada = errors.New("villa no encontrada")
	// ErrNoAutorizado indica que el dirigente intentó mutar una persona
	// de otra villa.
	ErrNoAutorizado = errors.New("sin permiso sobre esta persona")
	// ErrDirigenteSinVilla indica un dirigente sin villa asociada.
	ErrDirigenteSinVilla = errors.New("dirigente sin villa asociada")
)

// Persona es un registro de residente vinculado a una villa.
type Persona struct {
	ID          uuid.UUID `json:"id"`
	Nombre      string    `json:"nombre"`
	Rut         string    `json:"rut"`
	Direccion   *string   `json:"direccion"`
	Telefono    *string   `json:"telefono"`
	Correo      *string   `json:"correo"`
	VillaID     uuid.UUID `json:"villa_id"`
	VillaNombre string    `json:"villa_nombre,omitempty"`
}

// Input contiene los campos crudos de creación/edición.
type Input struct {
	Nombre    string     `json:"nombre"`
	Rut       string     `json:"rut"`
	Direccion string     `json:"direccion"`
	Telefono  string     `json:"telefono"`
	Correo    string     `json:"correo"`
	VillaID   *uuid.UUID `json:"villa_id"`
}

// Datos son los campos ya validados y normalizados listos para persistir.
type Datos struct {
	Nombre    string
	Rut       string
	Direccion *string
	Telefono  *string
	Correo    *string
	VillaID   uuid.UUID
}
