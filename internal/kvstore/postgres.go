package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps every key as one row of the kv_entries table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates the kv_entries table when missing and returns a store
// bound to pool.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	const ddl = `CREATE TABLE IF NOT EXISTS kv_entries (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

var _ Store = (*Postgres)(nil)

// Get reads the row for key; pgx.ErrNoRows means absent.
func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := p.pool.QueryRow(ctx, `SELECT v FROM kv_entries WHERE k = $1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, Wrap("get", key, err)
	}
	return v, true, nil
}

// Set upserts the row for key.
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO kv_entries (k, v, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = NOW()`,
		key, value)
	return Wrap("set", key, err)
}

// Delete removes the row for key.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM kv_entries WHERE k = $1`, key)
	return Wrap("delete", key, err)
}
