package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool abre un pool de conexiones Postgres y verifica conectividad.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
