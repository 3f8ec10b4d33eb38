package persona

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/registrovecinal/api/internal/auditoria"
	"github.com/registrovecinal/api/internal/auth"
	"github.com/registrovecinal/api/internal/util"
)

type personaRepository interface {
	ListAll(ctx context.Context) ([]Persona, error)
	ListByVilla(ctx context.Context, villaID uuid.UUID) ([]Persona, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Persona, error)
	Create(ctx context.Context, datos Datos) (*Persona, error)
	Update(ctx context.Context, id uuid.UUID, datos Datos, checkCupo bool) (*Persona, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type registrador interface {
	Registrar(ctx context.Context, actor *uuid.UUID, accion, entidad string, entidadID *uuid.UUID, antes, despues any, ip string)
}

// Solicitante identifica al usuario autenticado que ejecuta la operación.
type Solicitante struct {
	ID      uuid.UUID
	Rol     auth.Rol
	VillaID *uuid.UUID
	IP      string
}

// Service aplica las reglas de negocio de personas: alcance por rol,
// cupo por villa y bitácora de cambios.
type Service struct {
	repo     personaRepository
	bitacora registrador
}

// NewService crea el servicio de personas.
func NewService(repo personaRepository, bitacora registrador) *Service {
	return &Service{repo: repo, bitacora: bitacora}
}

// List devuelve las personas visibles para el solicitante: todas para
// un ADMIN, solo las de su villa para un DIRIGENTE.
func (s *Service) List(ctx context.Context, sol Solicitante) ([]Persona, error) {
	switch sol.Rol {
	case auth.RolAdmin:
		return s.repo.ListAll(ctx)
	case auth.RolDirigente:
		if sol.VillaID == nil {
			return nil, ErrDirigenteSinVilla
		}
		return s.repo.ListByVilla(ctx, *sol.VillaID)
	default:
		return nil, ErrNoAutorizado
	}
}

// Create registra una persona. Un DIRIGENTE siempre crea dentro de su
// propia villa; un ADMIN debe indicar la villa destino.
func (s *Service) Create(ctx context.Context, sol Solicitante, input Input) (*Persona, error) {
	villaID, err := s.villaDestino(sol, input.VillaID)
	if err != nil {
		return nil, err
	}

	datos, err := validar(input, villaID)
	if err != nil {
		return nil, err
	}

	creada, err := s.repo.Create(ctx, *datos)
	if err != nil {
		return nil, err
	}

	s.bitacora.Registrar(ctx, &sol.ID, auditoria.AccionCrearPersona, auditoria.EntidadPersona, &creada.ID, nil, creada, sol.IP)
	return creada, nil
}

// Update edita una persona. Un DIRIGENTE solo puede editar personas de
// su villa y no puede moverlas de villa; un ADMIN puede reubicarlas,
// revalidando el cupo de la villa destino.
func (s *Service) Update(ctx context.Context, sol Solicitante, id uuid.UUID, input Input) (*Persona, error) {
	antes, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var villaID uuid.UUID
	switch sol.Rol {
	case auth.RolAdmin:
		villaID = antes.VillaID
		if input.VillaID != nil {
			villaID = *input.VillaID
		}
	case auth.RolDirigente:
		if sol.VillaID == nil {
			return nil, ErrDirigenteSinVilla
		}
		if antes.VillaID != *sol.VillaID {
			return nil, ErrNoAutorizado
		}
		villaID = antes.VillaID
	default:
		return nil, ErrNoAutorizado
	}

	datos, err := validar(input, villaID)
	if err != nil {
		return nil, err
	}

	cambioDeVilla := villaID != antes.VillaID
	actualizada, err := s.repo.Update(ctx, id, *datos, cambioDeVilla)
	if err != nil {
		return nil, err
	}

	s.bitacora.Registrar(ctx, &sol.ID, auditoria.AccionActualizarPersona, auditoria.EntidadPersona, &actualizada.ID, antes, actualizada, sol.IP)
	return actualizada, nil
}

// Delete elimina una persona respetando el alcance del solicitante.
func (s *Service) Delete(ctx context.Context, sol Solicitante, id uuid.UUID) error {
	antes, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch sol.Rol {
	case auth.RolAdmin:
	case auth.RolDirigente:
		if sol.VillaID == nil {
			return ErrDirigenteSinVilla
		}
		if antes.VillaID != *sol.VillaID {
			return ErrNoAutorizado
		}
	default:
		return ErrNoAutorizado
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.bitacora.Registrar(ctx, &sol.ID, auditoria.AccionEliminarPersona, auditoria.EntidadPersona, &antes.ID, antes, nil, sol.IP)
	return nil
}

// villaDestino resuelve la villa donde se creará la persona según el rol.
func (s *Service) villaDestino(sol Solicitante, pedida *uuid.UUID) (uuid.UUID, error) {
	switch sol.Rol {
	case auth.RolDirigente:
		if sol.VillaID == nil {
			return uuid.Nil, ErrDirigenteSinVilla
		}
		return *sol.VillaID, nil
	case auth.RolAdmin:
		if pedida == nil {
			ve := &util.ValidationError{}
			ve.Add("villa_id", "La villa es obligatoria")
			return uuid.Nil, ve
		}
		return *pedida, nil
	default:
		return uuid.Nil, ErrNoAutorizado
	}
}

// validar aplica las reglas de campo y normaliza los opcionales a nil
// cuando vienen vacíos.
func validar(input Input, villaID uuid.UUID) (*Datos, error) {
	ve := &util.ValidationError{}

	if !util.ValidarNombre(input.Nombre) {
		ve.Add("nombre", "El nombre debe tener al menos 3 caracteres")
	}
	if !util.ValidarRUT(input.Rut) {
		ve.Add("rut", "RUT inválido")
	}

	direccion := strings.TrimSpace(input.Direccion)
	if direccion != "" && !util.ValidarDireccion(direccion) {
		ve.Add("direccion", "La dirección no puede superar 255 caracteres")
	}

	telefono := strings.TrimSpace(input.Telefono)
	if telefono != "" && !util.ValidarTelefono(telefono) {
		ve.Add("telefono", "Teléfono inválido")
	}

	correo := strings.TrimSpace(input.Correo)
	if correo != "" && !util.ValidarEmail(correo) {
		ve.Add("correo", "Correo inválido")
	}

	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	datos := &Datos{
		Nombre:  strings.TrimSpace(input.Nombre),
		Rut:     util.NormalizarRUT(input.Rut),
		VillaID: villaID,
	}
	if direccion != "" {
		datos.Direccion = &direccion
	}
	if telefono != "" {
		datos.Telefono = &telefono
	}
	if correo != "" {
		datos.Correo = &correo
	}

	return datos, nil
}
