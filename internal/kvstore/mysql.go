package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MySQL keeps every key as one row of the kv_entries table.
type MySQL struct {
	db *sql.DB
}

// NewMySQL creates the kv_entries table when missing and returns a store
// bound to db.
func NewMySQL(ctx context.Context, db *sql.DB) (*MySQL, error) {
	const ddl = `CREATE TABLE IF NOT EXISTS kv_entries (
		k VARCHAR(191) NOT NULL PRIMARY KEY,
		v LONGTEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &MySQL{db: db}, nil
}

var _ Store = (*MySQL)(nil)

// Get reads the row for key; sql.ErrNoRows means absent.
func (m *MySQL) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := m.db.QueryRowContext(ctx, `SELECT v FROM kv_entries WHERE k = ? LIMIT 1`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, Wrap("get", key, err)
	}
	return v, true, nil
}

// Set upserts the row for key.
func (m *MySQL) Set(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO kv_entries (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		key, value)
	return Wrap("set", key, err)
}

// Delete removes the row for key.
func (m *MySQL) Delete(ctx context.Context, key string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE k = ?`, key)
	return Wrap("delete", key, err)
}
