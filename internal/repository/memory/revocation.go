package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

var _ model.RevocationStore = (*RevocationRepository)(nil)

// RevocationRepository remembers revoked token ids until the tokens would
// have expired anyway.
type RevocationRepository struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewRevocationRepository() *RevocationRepository {
	return &RevocationRepository{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (r *RevocationRepository) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()
	r.revoked[jti] = expiresAt

	return nil
}

func (r *RevocationRepository) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.revoked[jti]
	return ok, nil
}

// sweepLocked drops entries whose tokens are past expiry.
func (r *RevocationRepository) sweepLocked() {
	now := r.now()
	for jti, exp := range r.revoked {
		if !exp.IsZero() && now.After(exp) {
			delete(r.revoked, jti)
		}
	}
}
