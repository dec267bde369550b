package memory

import (
	"context"
	"sync"

	"github.com/dtroode/gophkeeper-session/internal/logger"
	"github.com/dtroode/gophkeeper-session/internal/model"
)

var _ model.Notifier = (*Outbox)(nil)

// Outbox stands in for an email sender. It logs each message and keeps the
// last token per address and purpose so it can be read back.
type Outbox struct {
	mu     sync.RWMutex
	last   map[string]string
	logger *logger.Logger
}

func NewOutbox(logger *logger.Logger) *Outbox {
	return &Outbox{
		last:   make(map[string]string),
		logger: logger,
	}
}

func (o *Outbox) Notify(_ context.Context, email string, purpose model.TokenPurpose, token string) error {
	o.mu.Lock()
	o.last[outboxKey(email, purpose)] = token
	o.mu.Unlock()

	// stands in for the email body
	o.logger.Info("Outbox: message queued",
		"email", email,
		"purpose", string(purpose),
		"token", token)

	return nil
}

// Last returns the most recent token sent to email for purpose.
func (o *Outbox) Last(email string, purpose model.TokenPurpose) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	token, ok := o.last[outboxKey(email, purpose)]
	return token, ok
}

func outboxKey(email string, purpose model.TokenPurpose) string {
	return string(purpose) + ":" + normalizeEmail(email)
}
