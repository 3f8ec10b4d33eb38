package auditoria

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultLimit es el tope por defecto del listado de bitácora.
const DefaultLimit = 200

type logRepository interface {
	Insert(ctx context.Context, e Entrada) error
	List(ctx context.Context, limit int) ([]Log, error)
}

// Service registra y lista la bitácora administrativa. La escritura es
// best-effort: un fallo se loguea y nunca revierte la mutación que lo
// originó.
type Service struct {
	repo logRepository
}

// NewService crea el servicio de bitácora.
func NewService(repo logRepository) *Service {
	return &Service{repo: repo}
}

// Registrar agrega una entrada con snapshots antes/después serializados
// como JSON (nil cuando no aplica).
func (s *Service) Registrar(ctx context.Context, actor *uuid.UUID, accion, entidad string, entidadID *uuid.UUID, antes, despues any, ip string) {
	entrada := Entrada{
		UsuarioID: actor,
		Accion:    accion,
		Entidad:   entidad,
		EntidadID: entidadID,
	}
	if ip != "" {
		entrada.IP = &ip
	}

	var err error
	if entrada.DatosAntes, err = marshalSnapshot(antes); err != nil {
		log.Error().Err(err).Str("accion", accion).Msg("bitácora: snapshot antes no serializable")
		return
	}
	if entrada.DatosDespues, err = marshalSnapshot(despues); err != nil {
		log.Error().Err(err).Str("accion", accion).Msg("bitácora: snapshot después no serializable")
		return
	}

	if err := s.repo.Insert(ctx, entrada); err != nil {
		log.Error().Err(err).Str("accion", accion).Str("entidad", entidad).Msg("bitácora: no se pudo registrar la entrada")
	}
}

// List devuelve las últimas entradas; limit <= 0 usa el tope por defecto.
func (s *Service) List(ctx context.Context, limit int) ([]Log, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.repo.List(ctx, limit)
}

// ListHumano devuelve las mismas entradas redactadas como frases.
func (s *Service) ListHumano(ctx context.Context, limit int) ([]LogHumano, error) {
	logs, err := s.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	frases := make([]LogHumano, 0, len(logs))
	for _, l := range logs {
		frases = append(frases, LogHumano{Fecha: l.CreatedAt, Mensaje: frase(l)})
	}
	return frases, nil
}

func frase(l Log) string {
	usuario := strValue(l.UsuarioNombre)
	entidad := strValue(l.EntidadNombre)

	switch l.Accion {
	case AccionCrearPersona:
		return "El usuario \"" + usuario + "\" agregó a la persona \"" + entidad + "\"."
	case AccionActualizarPersona:
		return "El usuario \"" + usuario + "\" actualizó los datos de \"" + entidad + "\"."
	case AccionEliminarPersona:
		return "El usuario \"" + usuario + "\" eliminó a la persona \"" + entidad + "\"."
	case AccionCrearUsuario:
		return "El administrador \"" + usuario + "\" creó al usuario \"" + entidad + "\"."
	case AccionActualizarUsuario:
		return "El administrador \"" + usuario + "\" actualizó al usuario \"" + entidad + "\"."
	case AccionDesactivarUsuario:
		return "El administrador \"" + usuario + "\" desactivó al usuario \"" + entidad + "\"."
	case AccionCrearVilla:
		return "El administrador \"" + usuario + "\" creó la villa \"" + entidad + "\"."
	case AccionActualizarVilla:
		return "El administrador \"" + usuario + "\" actualizó la villa \"" + entidad + "\"."
	case AccionEliminarVilla:
		return "El administrador \"" + usuario + "\" eliminó la villa \"" + entidad + "\"."
	default:
		return usuario + " realizó la acción " + l.Accion + "."
	}
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func marshalSnapshot(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
