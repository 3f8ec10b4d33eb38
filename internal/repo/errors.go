package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound es devuelto cuando ningún registro coincide.
	ErrNotFound = errors.New("registro no encontrado")
	// ErrDuplicado indica violación de unicidad (23505).
	ErrDuplicado = errors.New("registro duplicado")
	// ErrReferenciada indica violación de clave foránea (23503).
	ErrReferenciada = errors.New("registro con referencias asociadas")
)

// Translate convierte errores de Postgres reconocidos en centinelas propios.
func Translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicado
		case "23503":
			return ErrReferenciada
		}
	}
	return err
}
