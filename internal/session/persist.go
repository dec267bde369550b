package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

// Restore seeds the stores from the persisted record. The record is trusted
// as is unless WithStartupValidation was given. A record that cannot be
// decoded is purged.
func (m *Manager) Restore(ctx context.Context) error {
	defer m.begin()()

	seeded, err := m.restore(ctx)
	if err != nil {
		return err
	}

	if seeded && m.validateOnRestore {
		// a rejected session has already been cleared by verifySession
		if err := m.verifySession(ctx); err != nil {
			m.logger.Info("Session: restored session rejected", "error", err.Error())
		}
	}

	return nil
}

func (m *Manager) restore(ctx context.Context) (bool, error) {
	if m.kv == nil {
		return false, nil
	}

	token, err := m.read(ctx, model.StorageKeyToken)
	if err != nil {
		return false, err
	}
	rawUser, err := m.read(ctx, model.StorageKeyUser)
	if err != nil {
		return false, err
	}

	// either key missing counts as no session
	if token == "" || rawUser == "" {
		return false, nil
	}

	user, err := decodeUser(rawUser)
	if err != nil {
		m.logger.Warn("Session: purging unreadable persisted session",
			"error", err.Error())
		m.clear(ctx)
		return false, nil
	}

	m.token.SetData(&token)
	m.user.SetData(user)

	m.logger.Debug("Session: restored persisted session", "user_id", user.ID)

	return true, nil
}

func (m *Manager) read(ctx context.Context, key string) (string, error) {
	value, err := m.kv.Get(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read persisted %s: %w", key, err)
	}
	return value, nil
}

func decodeUser(raw string) (*model.User, error) {
	var user *model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrCorruptSession, err)
	}
	if user == nil {
		return nil, model.ErrCorruptSession
	}
	return user, nil
}

// persist mirrors the session to durable storage. Write failures are logged;
// the in-memory session stays authoritative.
func (m *Manager) persist(ctx context.Context, token string, user *model.User) {
	if m.kv == nil {
		return
	}

	if err := m.kv.Set(ctx, model.StorageKeyToken, token); err != nil {
		m.logger.Error("Session: failed to persist token", "error", err.Error())
	}

	if user == nil {
		m.remove(ctx, model.StorageKeyUser)
		return
	}

	m.persistUser(ctx, *user)
}

func (m *Manager) persistUser(ctx context.Context, user model.User) {
	if m.kv == nil {
		return
	}

	raw, err := json.Marshal(user)
	if err != nil {
		m.logger.Error("Session: failed to encode user", "error", err.Error())
		return
	}

	if err := m.kv.Set(ctx, model.StorageKeyUser, string(raw)); err != nil {
		m.logger.Error("Session: failed to persist user", "error", err.Error())
	}
}

func (m *Manager) purge(ctx context.Context) {
	if m.kv == nil {
		return
	}
	m.remove(ctx, model.StorageKeyToken)
	m.remove(ctx, model.StorageKeyUser)
}

func (m *Manager) remove(ctx context.Context, key string) {
	if err := m.kv.Delete(ctx, key); err != nil {
		m.logger.Error("Session: failed to delete persisted key",
			"key", key,
			"error", err.Error())
	}
}
