package villa

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/registrovecinal/api/internal/repo"
)

// Repository provee acceso al almacenamiento de villas.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository crea el repositorio de villas.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List devuelve todas las villas ordenadas por nombre.
func (r *Repository) List(ctx context.Context) ([]Villa, error) {
	const query = `SELECT id, nombre, cupo_maximo FROM villas ORDER BY nombre`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var villas []Villa
	for rows.Next() {
		var v Villa
		if err := rows.Scan(&v.ID, &v.Nombre, &v.CupoMaximo); err != nil {
			return nil, err
		}
		villas = append(villas, v)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return villas, nil
}

// GetByID busca una villa por identificador.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Villa, error) {
	const query = `SELECT id, nombre, cupo_maximo FROM villas WHERE id = $1`

	var v Villa
	if err := r.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.Nombre, &v.CupoMaximo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Create inserta una villa y devuelve la fila persistida.
func (r *Repository) Create(ctx context.Context, nombre string, cupoMaximo int) (*Villa, error) {
	const query = `
        INSERT INTO villas (nombre, cupo_maximo)
        VALUES ($1, $2)
        RETURNING id, nombre, cupo_maximo
    `

	var v Villa
	if err := r.pool.QueryRow(ctx, query, nombre, cupoMaximo).Scan(&v.ID, &v.Nombre, &v.CupoMaximo); err != nil {
		return nil, repo.Translate(err)
	}
	return &v, nil
}

// Update modifica nombre y cupo de una villa.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, nombre string, cupoMaximo int) (*Villa, error) {
	const query = `
        UPDATE villas
        SET nombre = $2,
            cupo_maximo = $3
        WHERE id = $1
        RETURNING id, nombre, cupo_maximo
    `

	var v Villa
	if err := r.pool.QueryRow(ctx, query, id, nombre, cupoMaximo).Scan(&v.ID, &v.Nombre, &v.CupoMaximo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, repo.Translate(err)
	}
	return &v, nil
}

// Delete elimina una villa. Si usuarios o personas aún la referencian,
// la violación de clave foránea se traduce a repo.ErrReferenciada.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM villas WHERE id = $1`, id)
	if err != nil {
		return repo.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
