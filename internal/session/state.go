package session

import (
	"github.com/dtroode/gophkeeper-session/internal/model"
	"github.com/dtroode/gophkeeper-session/internal/store"
)

// Status is the derived state of the session.
type Status int

const (
	StatusUnauthenticated Status = iota
	StatusAuthenticating
	StatusAuthenticated
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusError:
		return "error"
	default:
		return "unauthenticated"
	}
}

// CurrentUser is the user projection consumed by views.
type CurrentUser struct {
	User        *model.User
	IsAdmin     bool
	DisplayName string
}

// Snapshot is a consistent read of both stores.
type Snapshot struct {
	User            store.State[model.User]
	Token           store.State[string]
	Status          Status
	IsAuthenticated bool
}

// IsAuthenticated reports whether both a user and a token are held.
func (m *Manager) IsAuthenticated() bool {
	return m.user.Data() != nil && m.token.Data() != nil
}

// CurrentUser returns the current user with derived fields.
func (m *Manager) CurrentUser() CurrentUser {
	user := m.user.Data()
	if user == nil {
		return CurrentUser{DisplayName: model.UnknownDisplayName}
	}
	return CurrentUser{
		User:        user,
		IsAdmin:     user.IsAdmin(),
		DisplayName: user.DisplayName(),
	}
}

// Status derives the session state from the stores. Loading wins over errors,
// and errors over data.
func (m *Manager) Status() Status {
	return deriveStatus(m.user.Snapshot(), m.token.Snapshot())
}

// Snapshot reads both stores.
func (m *Manager) Snapshot() Snapshot {
	user := m.user.Snapshot()
	token := m.token.Snapshot()
	return Snapshot{
		User:            user,
		Token:           token,
		Status:          deriveStatus(user, token),
		IsAuthenticated: user.HasData() && token.HasData(),
	}
}

func deriveStatus(user store.State[model.User], token store.State[string]) Status {
	switch {
	case user.IsLoading:
		return StatusAuthenticating
	case user.HasError() || token.HasError():
		return StatusError
	case user.HasData() && token.HasData():
		return StatusAuthenticated
	default:
		return StatusUnauthenticated
	}
}
