package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager issues and validates access tokens for the dev identity server.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (token string, jti string, err error)
	ParseAccessToken(token string) (TokenClaims, error)
}

// TokenClaims is what the server needs back from a parsed token.
type TokenClaims struct {
	UserID    uuid.UUID
	JTI       string
	ExpiresAt time.Time
}
