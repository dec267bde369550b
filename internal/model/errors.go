package model

import "errors"

var (
	// ErrNotFound is returned by stores when a key or entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoToken is returned when an operation needs a token and none is held.
	ErrNoToken = errors.New("no token to refresh")
	// ErrNotAuthenticated is returned when an operation needs an authenticated session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrCorruptSession is returned when the persisted session record cannot be decoded.
	ErrCorruptSession = errors.New("persisted session is corrupt")
	// ErrIncompleteUser is returned when the Identity API hands back a user without an id.
	ErrIncompleteUser = errors.New("user has no id")
)

// Identity errors reported by the dev identity server.
var (
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrWrongPassword       = errors.New("password is incorrect")
	ErrOneTimeTokenInvalid = errors.New("token is invalid or expired")
	ErrTwoFactorEnabled    = errors.New("two-factor authentication is already enabled")
	ErrTwoFactorDisabled   = errors.New("two-factor authentication is not enabled")
)

// Token errors reported by token managers.
var (
	ErrTokenRevoked  = errors.New("token revoked")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenMismatch = errors.New("token type mismatch")
)

// APIError is a failure reported by the Identity API, either through a
// success:false envelope or a non-2xx status.
type APIError struct {
	Op      string
	Status  int
	Message string
}

// Error returns the human-readable message only, so it can be shown as is.
func (e *APIError) Error() string {
	return e.Message
}
