package villa

import (
	"github.com/google/uuid"
)

// Villa es una junta de vecinos con cupo máximo de personas.
// CupoMaximo 0 significa sin límite.
type Villa struct {
	ID         uuid.UUID `json:"id"`
	Nombre     string    `json:"nombre"`
	CupoMaximo int       `json:"cupo_maximo"`
}

// Input contiene los campos de creación/edición de una villa.
type Input struct {
	Nombre     string `json:"nombre"`
	CupoMaximo *int   `json:"cupo_maximo"`
}
