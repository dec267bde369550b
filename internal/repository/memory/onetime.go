package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

var _ model.OneTimeTokenStore = (*OneTimeTokenRepository)(nil)

type oneTimeToken struct {
	purpose   model.TokenPurpose
	userID    string
	expiresAt time.Time
}

// OneTimeTokenRepository issues random single-use tokens.
type OneTimeTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]oneTimeToken
	now    func() time.Time
}

func NewOneTimeTokenRepository() *OneTimeTokenRepository {
	return &OneTimeTokenRepository{
		tokens: make(map[string]oneTimeToken),
		now:    time.Now,
	}
}

func (r *OneTimeTokenRepository) Issue(_ context.Context, purpose model.TokenPurpose, userID string, ttl time.Duration) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token] = oneTimeToken{
		purpose:   purpose,
		userID:    userID,
		expiresAt: r.now().Add(ttl),
	}

	return token, nil
}

// Consume returns the owner of token and invalidates it. Tokens of another
// purpose are left in place.
func (r *OneTimeTokenRepository) Consume(_ context.Context, purpose model.TokenPurpose, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok || t.purpose != purpose {
		return "", model.ErrOneTimeTokenInvalid
	}
	delete(r.tokens, token)

	if r.now().After(t.expiresAt) {
		return "", model.ErrOneTimeTokenInvalid
	}

	return t.userID, nil
}
