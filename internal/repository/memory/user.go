// Package memory holds the in-process stores of the dev identity server.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository keeps accounts indexed by id and by lower-cased email.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.Account
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]model.Account),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, account model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(account.Email)
	if _, ok := r.byEmail[email]; ok {
		return model.ErrEmailTaken
	}

	r.byID[account.ID] = account
	r.byEmail[email] = account.ID

	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return account, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return r.byID[id], nil
}

// Update replaces the account with the same id. A changed email must not
// belong to another account.
func (r *UserRepository) Update(_ context.Context, account model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[account.ID]
	if !ok {
		return model.ErrNotFound
	}

	oldEmail := normalizeEmail(current.Email)
	newEmail := normalizeEmail(account.Email)
	if oldEmail != newEmail {
		if _, taken := r.byEmail[newEmail]; taken {
			return model.ErrEmailTaken
		}
		delete(r.byEmail, oldEmail)
		r.byEmail[newEmail] = account.ID
	}

	r.byID[account.ID] = account

	return nil
}

func (r *UserRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
