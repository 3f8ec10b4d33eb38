package villa

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/registrovecinal/api/internal/auditoria"
	"github.com/registrovecinal/api/internal/util"
)

// ErrCupoNegativo indica un cupo máximo inválido.
var ErrCupoNegativo = errors.New("el cupo máximo no puede ser negativo")

type villaRepository interface {
	List(ctx context.Context) ([]Villa, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Villa, error)
	Create(ctx context.Context, nombre string, cupoMaximo int) (*Villa, error)
	Update(ctx context.Context, id uuid.UUID, nombre string, cupoMaximo int) (*Villa, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type registrador interface {
	Registrar(ctx context.Context, actor *uuid.UUID, accion, entidad string, entidadID *uuid.UUID, antes, despues any, ip string)
}

// Service concentra las reglas de administración de villas.
type Service struct {
	repo     villaRepository
	bitacora registrador
}

// NewService crea el servicio de villas.
func NewService(repo villaRepository, bitacora registrador) *Service {
	return &Service{repo: repo, bitacora: bitacora}
}

// List devuelve todas las villas (cualquier rol autenticado).
func (s *Service) List(ctx context.Context) ([]Villa, error) {
	return s.repo.List(ctx)
}

// Create registra una villa nueva. El cupo ausente se interpreta como 0
// (sin límite); uno negativo se rechaza.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, input Input, ip string) (*Villa, error) {
	nombre, cupo, err := normalizarInput(input)
	if err != nil {
		return nil, err
	}

	nueva, err := s.repo.Create(ctx, nombre, cupo)
	if err != nil {
		return nil, err
	}

	s.bitacora.Registrar(ctx, &actor, auditoria.AccionCrearVilla, auditoria.EntidadVilla, &nueva.ID, nil, nueva, ip)
	return nueva, nil
}

// Update modifica una villa existente.
func (s *Service) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, input Input, ip string) (*Villa, error) {
	nombre, cupo, err := normalizarInput(input)
	if err != nil {
		return nil, err
	}

	antes, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	despues, err := s.repo.Update(ctx, id, nombre, cupo)
	if err != nil {
		return nil, err
	}

	s.bitacora.Registrar(ctx, &actor, auditoria.AccionActualizarVilla, auditoria.EntidadVilla, &despues.ID, antes, despues, ip)
	return despues, nil
}

// Delete elimina una villa sin referencias pendientes.
func (s *Service) Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID, ip string) error {
	antes, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.bitacora.Registrar(ctx, &actor, auditoria.AccionEliminarVilla, auditoria.EntidadVilla, &antes.ID, antes, nil, ip)
	return nil
}

func normalizarInput(input Input) (string, int, error) {
	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		ve := &util.ValidationError{}
		return "", 0, ve.Add("nombre", "El nombre es requerido")
	}

	cupo := 0
	if input.CupoMaximo != nil {
		cupo = *input.CupoMaximo
	}
	if cupo < 0 {
		return "", 0, ErrCupoNegativo
	}

	return nombre, cupo, nil
}
