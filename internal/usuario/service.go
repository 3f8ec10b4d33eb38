package usuario

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/registrovecinal/api/internal/auditoria"
	"github.com/registrovecinal/api/internal/auth"
	"github.com/registrovecinal/api/internal/util"
)

type usuarioRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Usuario, error)
	List(ctx context.Context) ([]Usuario, error)
	Create(ctx context.Context, nombre, email, passwordHash string, rol auth.Rol, villaID *uuid.UUID) (*Usuario, error)
	Update(ctx context.Context, id uuid.UUID, nombre, email string, rol auth.Rol, villaID *uuid.UUID, passwordHash *string) (*Usuario, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type registrador interface {
	Registrar(ctx context.Context, actor *uuid.UUID, accion, entidad string, entidadID *uuid.UUID, antes, despues any, ip string)
}

// Service concentra la gestión de cuentas (solo ADMIN).
type Service struct {
	repo     usuarioRepository
	bitacora registrador
	hash     func(string) (string, error)
}

// NewService crea el servicio de usuarios.
func NewService(repo usuarioRepository, bitacora registrador) *Service {
	return &Service{repo: repo, bitacora: bitacora, hash: auth.Hash}
}

// List devuelve las cuentas activas.
func (s *Service) List(ctx context.Context) ([]Publico, error) {
	usuarios, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	publicos := make([]Publico, 0, len(usuarios))
	for _, u := range usuarios {
		publicos = append(publicos, u.Publico())
	}
	return publicos, nil
}

// Create registra una cuenta nueva con contraseña hasheada.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, input Input, ip string) (*Publico, error) {
	rol, villaID, err := s.validar(input, true)
	if err != nil {
		return nil, err
	}

	passwordHash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}

	nuevo, err := s.repo.Create(ctx, strings.TrimSpace(input.Nombre), strings.TrimSpace(input.Email), passwordHash, rol, villaID)
	if err != nil {
		return nil, err
	}

	publico := nuevo.Publico()
	s.bitacora.Registrar(ctx, &actor, auditoria.AccionCrearUsuario, auditoria.EntidadUsuario, &nuevo.ID, nil, publico, ip)
	return &publico, nil
}

// Update modifica una cuenta; la contraseña solo se reemplaza cuando
// viene no vacía.
func (s *Service) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, input Input, ip string) (*Publico, error) {
	rol, villaID, err := s.validar(input, false)
	if err != nil {
		return nil, err
	}

	antes, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	antesPublico := antes.Publico()

	var passwordHash *string
	if strings.TrimSpace(input.Password) != "" {
		hashed, err := s.hash(input.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hashed
	}

	actualizado, err := s.repo.Update(ctx, id, strings.TrimSpace(input.Nombre), strings.TrimSpace(input.Email), rol, villaID, passwordHash)
	if err != nil {
		return nil, err
	}

	publico := actualizado.Publico()
	s.bitacora.Registrar(ctx, &actor, auditoria.AccionActualizarUsuario, auditoria.EntidadUsuario, &actualizado.ID, antesPublico, publico, ip)
	return &publico, nil
}

// Deactivate aplica el soft delete. Desactivar una cuenta ya inactiva
// devuelve conflicto y no genera entrada de bitácora.
func (s *Service) Deactivate(ctx context.Context, actor uuid.UUID, id uuid.UUID, ip string) error {
	antes, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	antesPublico := antes.Publico()
	despuesPublico := antesPublico
	despuesPublico.Activo = false

	s.bitacora.Registrar(ctx, &actor, auditoria.AccionDesactivarUsuario, auditoria.EntidadUsuario, &antes.ID, antesPublico, despuesPublico, ip)
	return nil
}

// validar aplica las reglas de campo; passwordObligatoria distingue
// creación de edición.
func (s *Service) validar(input Input, passwordObligatoria bool) (auth.Rol, *uuid.UUID, error) {
	ve := &util.ValidationError{}

	if !util.ValidarNombre(input.Nombre) {
		ve.Add("nombre", "El nombre debe tener al menos 3 caracteres")
	}
	if !util.ValidarEmail(input.Email) {
		ve.Add("email", "Email inválido")
	}
	if passwordObligatoria || strings.TrimSpace(input.Password) != "" {
		if !util.ValidarPassword(input.Password) {
			ve.Add("password", "La contraseña debe tener al menos 6 caracteres")
		}
	}

	rol, err := auth.ParseRol(input.Rol)
	if err != nil {
		ve.Add("rol", "Rol inválido")
	}

	if err := ve.OrNil(); err != nil {
		return "", nil, err
	}

	// Un DIRIGENTE siempre referencia una villa; un ADMIN nunca.
	switch rol {
	case auth.RolDirigente:
		if input.VillaID == nil {
			return "", nil, ErrVillaRequerida
		}
		return rol, input.VillaID, nil
	case auth.RolAdmin:
		return rol, nil, nil
	default:
		return "", nil, ve.Add("rol", "Rol inválido")
	}
}
