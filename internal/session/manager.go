// Package session keeps the client-side authentication session: who is logged
// in, the access token, and the persisted copy of both.
package session

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/dtroode/gophkeeper-session/internal/logger"
	"github.com/dtroode/gophkeeper-session/internal/model"
	"github.com/dtroode/gophkeeper-session/internal/store"
)

// Fallback messages recorded when a failure carries no message of its own.
const (
	MsgLoginFailed        = model.MsgLoginFailed
	MsgRegistrationFailed = model.MsgRegistrationFailed
	MsgRefreshFailed      = model.MsgRefreshFailed
	MsgVerifyFailed       = model.MsgVerifyFailed
)

const refreshKey = "refresh"

var _ oauth2.TokenSource = (*Manager)(nil)

// Option configures a Manager.
type Option func(*Manager)

// WithStartupValidation makes Restore confirm a seeded session with the
// Identity API before trusting it.
func WithStartupValidation() Option {
	return func(m *Manager) {
		m.validateOnRestore = true
	}
}

// Manager is the authentication state machine. It is the only writer of its
// user and token stores; consumers get read-only views.
type Manager struct {
	api    model.IdentityAPI
	kv     model.KeyValueStore
	logger *logger.Logger

	user  *store.Store[model.User]
	token *store.Store[string]

	validateOnRestore bool

	// mu serializes state-changing operations so concurrent calls apply in
	// the order they acquire it instead of racing on completion.
	mu        sync.Mutex
	published uint64 // store versions of the last queued Snapshot, guarded by mu
	refresh   singleflight.Group

	subs subscribers
}

// NewManager creates a Manager with empty stores. kv may be nil when there is
// no persistence medium; persistence is then skipped.
func NewManager(api model.IdentityAPI, kv model.KeyValueStore, logger *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		api:    api,
		kv:     kv,
		logger: logger,
		user:   store.New[model.User](nil),
		token:  store.New[string](nil),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Open creates a Manager and restores the persisted session.
func Open(ctx context.Context, api model.IdentityAPI, kv model.KeyValueStore, logger *logger.Logger, opts ...Option) (*Manager, error) {
	m := NewManager(api, kv, logger, opts...)
	if err := m.Restore(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// UserState returns the read-only user store.
func (m *Manager) UserState() store.Reader[model.User] {
	return m.user
}

// TokenState returns the read-only token store.
func (m *Manager) TokenState() store.Reader[string] {
	return m.token
}

// Token returns the current access token. It makes Manager an
// oauth2.TokenSource for outgoing requests.
func (m *Manager) Token() (*oauth2.Token, error) {
	t := m.token.Data()
	if t == nil || *t == "" {
		return nil, model.ErrNoToken
	}
	return &oauth2.Token{AccessToken: *t, TokenType: "Bearer"}, nil
}

// Login authenticates with credentials. Failure is recorded on both stores and
// leaves the previous session data in place.
func (m *Manager) Login(ctx context.Context, credentials model.Credentials) error {
	defer m.begin()()

	m.logger.Debug("Session: starting login", "email", credentials.Email)

	return m.authenticate(ctx, "login", MsgLoginFailed, func(ctx context.Context) (model.AuthResult, error) {
		return m.api.Login(ctx, credentials)
	})
}

// Register creates an account and logs into it, with the same contract as Login.
func (m *Manager) Register(ctx context.Context, registration model.Registration) error {
	defer m.begin()()

	m.logger.Debug("Session: starting registration", "email", registration.Email)

	return m.authenticate(ctx, "register", MsgRegistrationFailed, func(ctx context.Context) (model.AuthResult, error) {
		return m.api.Register(ctx, registration)
	})
}

func (m *Manager) authenticate(
	ctx context.Context,
	op string,
	fallback string,
	call func(ctx context.Context) (model.AuthResult, error),
) error {
	m.user.SetLoading(true)
	m.user.ClearError()
	m.token.ClearError()
	m.publish()

	result, err := call(ctx)
	if err != nil {
		msg := failureMessage(err, fallback)
		m.user.SetError(msg)
		m.token.SetError(msg)
		m.logger.Warn("Session: authentication failed",
			"operation", op,
			"error", msg)
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	m.user.SetData(&result.User)
	m.token.SetData(&result.Token)
	m.persist(ctx, result.Token, &result.User)

	m.logger.Info("Session: authenticated",
		"operation", op,
		"user_id", result.User.ID)

	return nil
}

// Logout clears the session and its persisted record. When a token is held the
// Identity API is told as well; a failure there is only logged. Calling it
// without a session changes nothing observable.
func (m *Manager) Logout(ctx context.Context) {
	defer m.begin()()

	if m.token.Data() != nil && m.api != nil {
		if err := m.api.Logout(ctx); err != nil {
			m.logger.Warn("Session: remote logout failed",
				"error", err.Error())
		}
	}

	m.clear(ctx)
	m.logger.Info("Session: logged out")
}

// RefreshToken exchanges the current token for a new one. Any failure,
// including having no token, ends the session. Concurrent callers share one
// in-flight refresh and all get its result. The shared refresh runs with the
// ctx of the caller that started it, so cancelling that ctx fails the refresh
// and logs out for every caller waiting on it.
func (m *Manager) RefreshToken(ctx context.Context) error {
	_, err, shared := m.refresh.Do(refreshKey, func() (any, error) {
		return nil, m.refreshToken(ctx)
	})
	if shared {
		m.logger.Debug("Session: joined in-flight token refresh")
	}
	return err
}

func (m *Manager) refreshToken(ctx context.Context) error {
	defer m.begin()()

	if m.token.Data() == nil {
		m.failRefresh(ctx, model.ErrNoToken)
		return fmt.Errorf("failed to refresh token: %w", model.ErrNoToken)
	}

	result, err := m.api.RefreshToken(ctx)
	if err != nil {
		m.failRefresh(ctx, err)
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	m.token.SetData(&result.Token)
	m.persist(ctx, result.Token, m.user.Data())

	m.logger.Info("Session: token refreshed")

	return nil
}

// failRefresh forces a logout and then records the reason on the token store
// so it survives the clear.
func (m *Manager) failRefresh(ctx context.Context, err error) {
	msg := failureMessage(err, MsgRefreshFailed)
	m.logger.Warn("Session: token refresh failed, logging out",
		"error", msg)

	m.clear(ctx)
	m.token.SetError(msg)
}

// VerifySession re-fetches the profile of an authenticated session. Success
// refreshes the user; any failure logs out. Unauthenticated sessions are left
// alone.
func (m *Manager) VerifySession(ctx context.Context) error {
	defer m.begin()()

	return m.verifySession(ctx)
}

func (m *Manager) verifySession(ctx context.Context) error {
	if !m.IsAuthenticated() {
		return nil
	}

	user, err := m.api.GetProfile(ctx)
	if err != nil {
		m.logger.Warn("Session: verification failed, logging out",
			"error", failureMessage(err, MsgVerifyFailed))
		m.clear(ctx)
		return fmt.Errorf("failed to verify session: %w", err)
	}

	m.user.SetData(&user)
	m.logger.Debug("Session: verified", "user_id", user.ID)

	return nil
}

// ClearErrors drops the error of both stores.
func (m *Manager) ClearErrors() {
	defer m.begin()()

	m.user.ClearError()
	m.token.ClearError()
}

// clear empties both stores and the persisted record. Caller must hold m.mu.
func (m *Manager) clear(ctx context.Context) {
	m.user.SetData(nil)
	m.token.SetData(nil)
	m.purge(ctx)
}

func failureMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
