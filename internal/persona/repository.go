package persona

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/registrovecinal/api/internal/db"
	"github.com/registrovecinal/api/internal/repo"
)

// Repository provee acceso al almacenamiento de personas.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository crea el repositorio de personas.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columnasJoin = `
    p.id, p.nombre, p.rut, p.direccion, p.telefono, p.correo, p.villa_id,
    v.nombre AS villa_nombre
`

// ListAll devuelve todas las personas ordenadas por villa y nombre.
func (r *Repository) ListAll(ctx context.Context) ([]Persona, error) {
	query := `
        SELECT ` + columnasJoin + `
        FROM personas p
        JOIN villas v ON v.id = p.villa_id
        ORDER BY v.nombre, p.nombre
    `
	return r.list(ctx, query)
}

// ListByVilla devuelve las personas de una villa ordenadas por nombre.
func (r *Repository) ListByVilla(ctx context.Context, villaID uuid.UUID) ([]Persona, error) {
	query := `
        SELECT ` + columnasJoin + `
        FROM personas p
        JOIN villas v ON v.id = p.villa_id
        WHERE p.villa_id = $1
        ORDER BY p.nombre
    `
	return r.list(ctx, query, villaID)
}

// GetByID busca una persona por identificador.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Persona, error) {
	query := `
        SELECT ` + columnasJoin + `
        FROM personas p
        JOIN villas v ON v.id = p.villa_id
        WHERE p.id = $1
    `
	row := r.pool.QueryRow(ctx, query, id)
	p, err := scanPersona(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create inserta una persona verificando el cupo de la villa dentro de
// una sola transacción: la fila de la villa queda bloqueada mientras se
// cuenta e inserta, de modo que dos altas concurrentes no puedan
// exceder el cupo.
func (r *Repository) Create(ctx context.Context, datos Datos) (*Persona, error) {
	var creada *Persona

	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if err := verificarCupo(ctx, tx, datos.VillaID); err != nil {
			return err
		}

		const insert = `
            INSERT INTO personas (nombre, rut, direccion, telefono, correo, villa_id)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING id, nombre, rut, direccion, telefono, correo, villa_id
        `
		var p Persona
		if err := tx.QueryRow(ctx, insert,
			datos.Nombre, datos.Rut, datos.Direccion, datos.Telefono, datos.Correo, datos.VillaID,
		).Scan(&p.ID, &p.Nombre, &p.Rut, &p.Direccion, &p.Telefono, &p.Correo, &p.VillaID); err != nil {
			return repo.Translate(err)
		}
		creada = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return creada, nil
}

// Update modifica una persona. Cuando checkCupo es verdadero (cambio de
// villa) el cupo de la villa destino se verifica bajo el mismo bloqueo
// transaccional que en Create.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, datos Datos, checkCupo bool) (*Persona, error) {
	var actualizada *Persona

	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if checkCupo {
			if err := verificarCupo(ctx, tx, datos.VillaID); err != nil {
				return err
			}
		}

		const update = `
            UPDATE personas
            SET nombre = $2,
                rut = $3,
                direccion = $4,
                telefono = $5,
                correo = $6,
                villa_id = $7
            WHERE id = $1
            RETURNING id, nombre, rut, direccion, telefono, correo, villa_id
        `
		var p Persona
		if err := tx.QueryRow(ctx, update,
			id, datos.Nombre, datos.Rut, datos.Direccion, datos.Telefono, datos.Correo, datos.VillaID,
		).Scan(&p.ID, &p.Nombre, &p.Rut, &p.Direccion, &p.Telefono, &p.Correo, &p.VillaID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repo.ErrNotFound
			}
			return repo.Translate(err)
		}
		actualizada = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return actualizada, nil
}

// Delete elimina una persona.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM personas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// verificarCupo bloquea la villa destino y comprueba el cupo. Cupo 0
// significa sin límite.
func verificarCupo(ctx context.Context, tx pgx.Tx, villaID uuid.UUID) error {
	var cupo int
	err := tx.QueryRow(ctx, `SELECT cupo_maximo FROM villas WHERE id = $1 FOR UPDATE`, villaID).Scan(&cupo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVillaNoEncontrada
		}
		return err
	}

	if cupo <= 0 {
		return nil
	}

	var total int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM personas WHERE villa_id = $1`, villaID).Scan(&total); err != nil {
		return err
	}
	if total >= cupo {
		return ErrCupoLleno
	}
	return nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Persona, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var personas []Persona
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, err
		}
		personas = append(personas, *p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return personas, nil
}

func scanPersona(row pgx.Row) (*Persona, error) {
	var p Persona
	if err := row.Scan(&p.ID, &p.Nombre, &p.Rut, &p.Direccion, &p.Telefono, &p.Correo, &p.VillaID, &p.VillaNombre); err != nil {
		return nil, err
	}
	return &p, nil
}
