package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpirado indica que la sesión venció.
	ErrTokenExpirado = errors.New("la sesión ha expirado")
	// ErrTokenInvalido cubre cualquier otro token no verificable.
	ErrTokenInvalido = errors.New("token inválido")
)

// Claims son los datos de identidad embebidos en el token de sesión.
type Claims struct {
	Nombre  string     `json:"nombre"`
	Email   string     `json:"email"`
	Rol     string     `json:"rol"`
	VillaID *uuid.UUID `json:"villa_id"`
	jwt.RegisteredClaims
}

// JWTManager encapsula la generación y validación de tokens de sesión.
type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
}

// NewJWTManager crea el gestor con secreto y TTL configurados.
func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), accessTTL: accessTTL}
}

// GenerateToken emite un JWT HS256 con la identidad del usuario.
func (m *JWTManager) GenerateToken(id uuid.UUID, nombre, email string, rol Rol, villaID *uuid.UUID) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		Nombre:  nombre,
		Email:   email,
		Rol:     rol.String(),
		VillaID: villaID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseAndValidate verifica firma y expiración, distinguiendo token
// expirado de token inválido.
func (m *JWTManager) ParseAndValidate(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpirado
		}
		return nil, ErrTokenInvalido
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalido
	}

	return claims, nil
}
