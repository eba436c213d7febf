package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBackend stores documents in a shared PostgreSQL table
type PostgresBackend struct {
	db *pgxpool.Pool
}

// NewPostgresBackend wraps an existing pool
func NewPostgresBackend(db *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// EnsureSchema creates the kv_entries table if it does not exist
func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_entries (
			owner      TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (owner, key)
		)
	`
	if _, err := b.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create kv schema: %w", err)
	}
	return nil
}

// Scope returns the store for one owner
func (b *PostgresBackend) Scope(owner string) Store {
	return &postgresStore{db: b.db, owner: owner}
}

// Close closes the pool
func (b *PostgresBackend) Close() error {
	b.db.Close()
	return nil
}

type postgresStore struct {
	db    *pgxpool.Pool
	owner string
}

func (s *postgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_entries WHERE owner = $1 AND key = $2`
	var value string
	err := s.db.QueryRow(ctx, query, s.owner, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, wrap("get", key, err)
	}
	return value, true, nil
}

func (s *postgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_entries (owner, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (owner, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.Exec(ctx, query, s.owner, key, value); err != nil {
		return wrap("set", key, err)
	}
	return nil
}
