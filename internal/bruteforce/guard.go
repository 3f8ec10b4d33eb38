package bruteforce

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// Ventana dentro de la cual se acumulan intentos fallidos.
	Ventana = 10 * time.Minute
	// MaxIntentos fallidos antes de bloquear al identificador.
	MaxIntentos = 5
	// Bloqueo es la duración del bloqueo una vez alcanzado el umbral.
	Bloqueo = 10 * time.Minute
)

// Registro acumula los intentos fallidos de un identificador.
type Registro struct {
	Intentos       int       `json:"intentos"`
	PrimerIntento  time.Time `json:"primer_intento"`
	BloqueadoHasta time.Time `json:"bloqueado_hasta"`
}

// Store persiste registros de intentos por identificador. Las entradas
// deben expirar solas pasado el TTL indicado.
type Store interface {
	Get(ctx context.Context, id string) (*Registro, error)
	Put(ctx context.Context, id string, reg Registro, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Guard aplica la política de intentos fallidos de login: ventana de 10
// minutos, máximo 5 intentos y bloqueo temporal; un login exitoso borra
// el registro completo.
type Guard struct {
	store Store
	now   func() time.Time
}

// New crea un guard sobre el store indicado.
func New(store Store) *Guard {
	return &Guard{store: store, now: time.Now}
}

// Identificador resuelve la clave de seguimiento: email en minúsculas
// si está presente, en su defecto la IP del cliente.
func Identificador(email, ip string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		return email
	}
	if ip = strings.TrimSpace(ip); ip != "" {
		return strings.ToLower(ip)
	}
	return "unknown"
}

// Bloqueado indica si el identificador tiene un bloqueo vigente. La
// comprobación ocurre antes de verificar credenciales.
func (g *Guard) Bloqueado(ctx context.Context, id string) (bool, error) {
	reg, err := g.vigente(ctx, id)
	if err != nil || reg == nil {
		return false, err
	}
	return g.now().Before(reg.BloqueadoHasta), nil
}

// RegistrarFallo suma un intento fallido y bloquea al alcanzar el umbral.
func (g *Guard) RegistrarFallo(ctx context.Context, id string) error {
	now := g.now()

	reg, err := g.vigente(ctx, id)
	if err != nil {
		return err
	}
	if reg == nil {
		reg = &Registro{PrimerIntento: now}
	}

	reg.Intentos++
	if reg.Intentos >= MaxIntentos {
		reg.BloqueadoHasta = now.Add(Bloqueo)
		log.Warn().Str("identificador", id).Msg("bloqueado por demasiados intentos fallidos")
	}

	// La ventana se cuenta desde el primer intento, así que este TTL
	// siempre cubre el resto de vida útil del registro.
	return g.store.Put(ctx, id, *reg, Ventana)
}

// Limpiar elimina el registro tras un login exitoso (reset completo).
func (g *Guard) Limpiar(ctx context.Context, id string) error {
	return g.store.Delete(ctx, id)
}

// vigente devuelve el registro si su ventana sigue abierta. Vencida la
// ventana desde el primer intento, el registro se descarta por completo,
// incluido un bloqueo pendiente: el bloqueo nunca sobrevive a la ventana.
func (g *Guard) vigente(ctx context.Context, id string) (*Registro, error) {
	reg, err := g.store.Get(ctx, id)
	if err != nil || reg == nil {
		return nil, err
	}
	if g.now().Sub(reg.PrimerIntento) > Ventana {
		_ = g.store.Delete(ctx, id)
		return nil, nil
	}
	return reg, nil
}
