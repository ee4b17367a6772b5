package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/floating-cart/internal/port"
)

const (
	getValueSQL = `SELECT value FROM kv_store WHERE key = $1`

	setValueSQL = `
INSERT INTO kv_store (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a KeyValueStore backed by the kv_store table.
func NewPostgres(pool *pgxpool.Pool) (port.KeyValueStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &postgresStore{
		pool: pool,
	}, nil
}

func (r *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	var value []byte

	err := r.pool.QueryRow(ctx, getValueSQL, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return value, nil
}

func (r *postgresStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := r.pool.Exec(ctx, setValueSQL, key, value); err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	return nil
}
