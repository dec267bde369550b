package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContextManager carries the authenticated caller through request contexts.
type ContextManager interface {
	SetCallerToContext(ctx context.Context, caller Caller) context.Context
	GetCallerFromContext(ctx context.Context) (Caller, bool)
}

// Caller identifies the user and token behind an authenticated request.
type Caller struct {
	UserID    uuid.UUID
	JTI       string
	ExpiresAt time.Time
}
