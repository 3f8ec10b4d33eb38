package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/registrovecinal/api/internal/auth"
	"github.com/registrovecinal/api/internal/bruteforce"
	"github.com/registrovecinal/api/internal/repo"
	"github.com/registrovecinal/api/internal/usuario"
)

var (
	// ErrCamposFaltantes indica un login sin email o sin contraseña.
	ErrCamposFaltantes = errors.New("email y contraseña son requeridos")
	// ErrCredencialesInvalidas cubre email desconocido y contraseña errada
	// por igual, sin revelar cuál de los dos falló.
	ErrCredencialesInvalidas = errors.New("credenciales inválidas")
	// ErrUsuarioInactivo indica una cuenta dada de baja.
	ErrUsuarioInactivo = errors.New("usuario inactivo")
	// ErrDemasiadosIntentos indica un identificador bloqueado temporalmente.
	ErrDemasiadosIntentos = errors.New("demasiados intentos fallidos")
)

type usuarioReader interface {
	GetByEmail(ctx context.Context, email string) (*usuario.Usuario, error)
}

// UsuarioSesion es la identidad incluida en la respuesta de login.
type UsuarioSesion struct {
	ID      uuid.UUID  `json:"id"`
	Nombre  string     `json:"nombre"`
	Email   string     `json:"email"`
	Rol     string     `json:"rol"`
	VillaID *uuid.UUID `json:"villa_id"`
}

// LoginResult es la respuesta completa de un login exitoso.
type LoginResult struct {
	Token string        `json:"token"`
	User  UsuarioSesion `json:"user"`
}

// AuthService autentica usuarios aplicando el guard de fuerza bruta
// antes de verificar credenciales.
type AuthService struct {
	usuarios usuarioReader
	guard    *bruteforce.Guard
	jwt      *auth.JWTManager
	verify   func(password, hash string) (bool, error)
}

// NewAuthService crea el servicio de autenticación.
func NewAuthService(usuarios usuarioReader, guard *bruteforce.Guard, jwt *auth.JWTManager) *AuthService {
	return &AuthService{usuarios: usuarios, guard: guard, jwt: jwt, verify: auth.Verify}
}

// Login valida credenciales y emite el token de sesión. El orden
// importa: primero el bloqueo por intentos, después el resto; todo
// fallo, incluida una petición incompleta, alimenta el contador del
// identificador.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	id := bruteforce.Identificador(email, ip)

	bloqueado, err := s.guard.Bloqueado(ctx, id)
	if err != nil {
		return nil, err
	}
	if bloqueado {
		return nil, ErrDemasiadosIntentos
	}

	if email == "" || password == "" {
		s.registrarFallo(ctx, id)
		return nil, ErrCamposFaltantes
	}

	u, err := s.usuarios.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.registrarFallo(ctx, id)
			return nil, ErrCredencialesInvalidas
		}
		return nil, err
	}

	if !u.Activo {
		s.registrarFallo(ctx, id)
		return nil, ErrUsuarioInactivo
	}

	ok, err := s.verify(password, u.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.registrarFallo(ctx, id)
		return nil, ErrCredencialesInvalidas
	}

	if err := s.guard.Limpiar(ctx, id); err != nil {
		log.Warn().Err(err).Msg("no se pudo limpiar el registro de intentos")
	}

	token, err := s.jwt.GenerateToken(u.ID, u.Nombre, u.Email, u.Rol, u.VillaID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User: UsuarioSesion{
			ID:      u.ID,
			Nombre:  u.Nombre,
			Email:   u.Email,
			Rol:     u.Rol.String(),
			VillaID: u.VillaID,
		},
	}, nil
}

func (s *AuthService) registrarFallo(ctx context.Context, id string) {
	if err := s.guard.RegistrarFallo(ctx, id); err != nil {
		log.Warn().Err(err).Msg("no se pudo registrar el intento fallido")
	}
}
