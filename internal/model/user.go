package model

import (
	"time"
)

// Role is the authorization level of a user.
type Role string

const (
	// RoleAdmin grants administrative access.
	RoleAdmin Role = "admin"
	// RoleUser is the default role.
	RoleUser Role = "user"
)

// UnknownDisplayName is shown when a user has neither a name nor an email.
const UnknownDisplayName = "Unknown"

// User is the identity record returned by the Identity API.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName returns the name, falling back to the email and then to UnknownDisplayName.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return UnknownDisplayName
}

// AuthResult is the payload of successful login and registration calls.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// TokenResult is the payload of a successful token refresh.
type TokenResult struct {
	Token string `json:"token"`
}

// TwoFactorSecret is returned when two-factor authentication is enabled.
type TwoFactorSecret struct {
	Secret string `json:"secret"`
	QRCode string `json:"qrCode"`
}
