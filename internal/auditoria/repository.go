package auditoria

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provee acceso a la tabla de logs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository crea el repositorio de bitácora.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert agrega una entrada; la tabla nunca se actualiza ni se borra.
func (r *Repository) Insert(ctx context.Context, e Entrada) error {
	const query = `
        INSERT INTO logs (usuario_id, accion, entidad, entidad_id, datos_antes, datos_despues, ip)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := r.pool.Exec(ctx, query,
		e.UsuarioID, e.Accion, e.Entidad, e.EntidadID, e.DatosAntes, e.DatosDespues, e.IP)
	return err
}

// List devuelve las últimas entradas con el nombre y rol del actor, y un
// nombre legible de la entidad afectada extraído de los snapshots
// (prioriza el estado posterior al cambio).
func (r *Repository) List(ctx context.Context, limit int) ([]Log, error) {
	const query = `
        SELECT
            l.id,
            l.usuario_id,
            u.nombre AS usuario_nombre,
            u.rol    AS usuario_rol,
            l.accion,
            l.entidad,
            l.entidad_id,
            COALESCE(
                NULLIF(l.datos_despues::jsonb ->> 'nombre', ''),
                NULLIF(l.datos_antes::jsonb ->> 'nombre', '')
            ) AS entidad_nombre,
            l.datos_antes,
            l.datos_despues,
            l.ip,
            l.created_at
        FROM logs l
        LEFT JOIN users u ON u.id = l.usuario_id
        ORDER BY l.created_at DESC
        LIMIT $1
    `

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(
			&l.ID, &l.UsuarioID, &l.UsuarioNombre, &l.UsuarioRol,
			&l.Accion, &l.Entidad, &l.EntidadID, &l.EntidadNombre,
			&l.DatosAntes, &l.DatosDespues, &l.IP, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return logs, nil
}
