package model

import "context"

// IdentityAPI is the remote identity service consumed by the session manager.
// Every method either returns the stated payload or an error whose message is
// fit for display.
type IdentityAPI interface {
	Login(ctx context.Context, credentials Credentials) (AuthResult, error)
	Register(ctx context.Context, registration Registration) (AuthResult, error)
	RefreshToken(ctx context.Context) (TokenResult, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (User, error)

	UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error)
	ChangePassword(ctx context.Context, change PasswordChange) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, reset PasswordReset) error
	VerifyEmail(ctx context.Context, token string) error
	EnableTwoFactor(ctx context.Context) (TwoFactorSecret, error)
	DisableTwoFactor(ctx context.Context, password string) error
}
