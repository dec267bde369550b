package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

var _ model.KeyValueStore = (*Store)(nil)

// Store keeps keys as rows of session_kv.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store on db. The schema must already be migrated.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the value for key or model.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM session_kv WHERE key = $1`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, nil
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO session_kv (key, value, updated_at) VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
    `

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM session_kv WHERE key = $1`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
