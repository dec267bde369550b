package model

import (
	"context"
	"time"
)

// Account is the server-side record behind a User.
type Account struct {
	User
	PasswordHash    []byte
	EmailVerified   bool
	TwoFactorSecret string
}

// UserStore keeps accounts for the dev identity server.
type UserStore interface {
	Create(ctx context.Context, account Account) error
	GetByID(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	Update(ctx context.Context, account Account) error
	Count(ctx context.Context) (int, error)
}

// RevocationStore remembers access tokens that were logged out or rotated.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// TokenPurpose tells one-time tokens apart.
type TokenPurpose string

const (
	PurposePasswordReset     TokenPurpose = "password_reset"
	PurposeEmailVerification TokenPurpose = "email_verification"
)

// OneTimeTokenStore issues single-use tokens for reset and verification links.
type OneTimeTokenStore interface {
	Issue(ctx context.Context, purpose TokenPurpose, userID string, ttl time.Duration) (string, error)
	Consume(ctx context.Context, purpose TokenPurpose, token string) (userID string, err error)
}

// Notifier delivers one-time tokens to users, by email in a real deployment.
type Notifier interface {
	Notify(ctx context.Context, email string, purpose TokenPurpose, token string) error
}
