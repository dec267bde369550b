package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

var _ model.RevocationStore = (*RevocationRepository)(nil)

type RevocationRepository struct {
	db *Connection
}

func NewRevocationRepository(db *Connection) *RevocationRepository {
	return &RevocationRepository{db: db}
}

// Revoke records jti and drops rows whose tokens have expired.
func (r *RevocationRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	const query = `
        INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2)
        ON CONFLICT (jti) DO NOTHING
    `
	if _, err := r.db.Exec(ctx, query, jti, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < NOW()`); err != nil {
		return fmt.Errorf("failed to sweep revoked tokens: %w", err)
	}
	return nil
}

func (r *RevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`

	var revoked bool
	if err := r.db.QueryRow(ctx, query, jti).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return revoked, nil
}
