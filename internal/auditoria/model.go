package auditoria

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Acciones registradas en la bitácora.
const (
	AccionCrearPersona      = "CREATE_PERSONA"
	AccionActualizarPersona = "UPDATE_PERSONA"
	AccionEliminarPersona   = "DELETE_PERSONA"
	AccionCrearUsuario      = "CREATE_USER"
	AccionActualizarUsuario = "UPDATE_USER"
	AccionDesactivarUsuario = "DEACTIVATE_USER"
	AccionCrearVilla        = "CREATE_VILLA"
	AccionActualizarVilla   = "UPDATE_VILLA"
	AccionEliminarVilla     = "DELETE_VILLA"
)

// Entidades afectadas por las acciones.
const (
	EntidadPersona = "PERSONA"
	EntidadUsuario = "USER"
	EntidadVilla   = "VILLA"
)

// Log es una entrada inmutable de la bitácora administrativa.
type Log struct {
	ID            uuid.UUID       `json:"id"`
	UsuarioID     *uuid.UUID      `json:"usuario_id"`
	UsuarioNombre *string         `json:"usuario_nombre"`
	UsuarioRol    *string         `json:"usuario_rol"`
	Accion        string          `json:"accion"`
	Entidad       string          `json:"entidad"`
	EntidadID     *uuid.UUID      `json:"entidad_id"`
	EntidadNombre *string         `json:"entidad_nombre"`
	DatosAntes    json.RawMessage `json:"datos_antes"`
	DatosDespues  json.RawMessage `json:"datos_despues"`
	IP            *string         `json:"ip"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LogHumano es una entrada de bitácora redactada como frase legible.
type LogHumano struct {
	Fecha   time.Time `json:"fecha"`
	Mensaje string    `json:"mensaje"`
}

// Entrada son los parámetros de inserción de una entrada de bitácora.
type Entrada struct {
	UsuarioID    *uuid.UUID
	Accion       string
	Entidad      string
	EntidadID    *uuid.UUID
	DatosAntes   []byte
	DatosDespues []byte
	IP           *string
}
