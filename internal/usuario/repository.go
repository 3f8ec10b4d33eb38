package usuario

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/registrovecinal/api/internal/auth"
	"github.com/registrovecinal/api/internal/repo"
)

// Repository provee acceso al almacenamiento de usuarios.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository crea el repositorio de usuarios.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByEmail busca por email con coincidencia exacta.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Usuario, error) {
	const query = `
        SELECT id, nombre, email, password_hash, rol, villa_id, activo, creado_en
        FROM users
        WHERE email = $1
        LIMIT 1
    `
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

// GetByID busca por identificador.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Usuario, error) {
	const query = `
        SELECT id, nombre, email, password_hash, rol, villa_id, activo, creado_en
        FROM users
        WHERE id = $1
    `
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// List devuelve solo cuentas activas, con el nombre de la villa asociada.
func (r *Repository) List(ctx context.Context) ([]Usuario, error) {
	const query = `
        SELECT u.id, u.nombre, u.email, u.password_hash, u.rol, u.villa_id, u.activo, u.creado_en,
               v.nombre AS villa_nombre
        FROM users u
        LEFT JOIN villas v ON v.id = u.villa_id
        WHERE u.activo = true
        ORDER BY u.creado_en
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []Usuario
	for rows.Next() {
		var (
			u   Usuario
			rol string
		)
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &rol, &u.VillaID, &u.Activo, &u.CreadoEn, &u.VillaNombre); err != nil {
			return nil, err
		}
		parsed, err := auth.ParseRol(rol)
		if err != nil {
			return nil, err
		}
		u.Rol = parsed
		usuarios = append(usuarios, u)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return usuarios, nil
}

// Create inserta un usuario con su hash de contraseña.
func (r *Repository) Create(ctx context.Context, nombre, email, passwordHash string, rol auth.Rol, villaID *uuid.UUID) (*Usuario, error) {
	const query = `
        INSERT INTO users (nombre, email, password_hash, rol, villa_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, nombre, email, password_hash, rol, villa_id, activo, creado_en
    `
	u, err := r.scanOne(r.pool.QueryRow(ctx, query, nombre, email, passwordHash, rol.String(), villaID))
	if err != nil {
		return nil, repo.Translate(err)
	}
	return u, nil
}

// Update modifica los datos de la cuenta. Un hash nil conserva el
// vigente (semántica COALESCE).
func (r *Repository) Update(ctx context.Context, id uuid.UUID, nombre, email string, rol auth.Rol, villaID *uuid.UUID, passwordHash *string) (*Usuario, error) {
	const query = `
        UPDATE users
        SET nombre = $2,
            email = $3,
            rol = $4,
            villa_id = $5,
            password_hash = COALESCE($6, password_hash)
        WHERE id = $1
        RETURNING id, nombre, email, password_hash, rol, villa_id, activo, creado_en
    `
	u, err := r.scanOne(r.pool.QueryRow(ctx, query, id, nombre, email, rol.String(), villaID, passwordHash))
	if err != nil {
		return nil, repo.Translate(err)
	}
	return u, nil
}

// Deactivate aplica el soft delete; devuelve ErrYaInactivo si la cuenta
// ya estaba dada de baja.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET activo = false WHERE id = $1 AND activo = true`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrYaInactivo
	}
	return nil
}

func (r *Repository) scanOne(row pgx.Row) (*Usuario, error) {
	var (
		u   Usuario
		rol string
	)
	if err := row.Scan(&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &rol, &u.VillaID, &u.Activo, &u.CreadoEn); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}

	parsed, err := auth.ParseRol(rol)
	if err != nil {
		return nil, err
	}
	u.Rol = parsed

	return &u, nil
}
