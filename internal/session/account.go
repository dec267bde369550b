package session

import (
	"context"
	"fmt"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

// Fallback messages of account operations.
const (
	MsgUpdateProfileFailed    = model.MsgUpdateProfileFailed
	MsgChangePasswordFailed   = model.MsgChangePasswordFailed
	MsgForgotPasswordFailed   = model.MsgForgotPasswordFailed
	MsgResetPasswordFailed    = model.MsgResetPasswordFailed
	MsgVerifyEmailFailed      = model.MsgVerifyEmailFailed
	MsgEnableTwoFactorFailed  = model.MsgEnableTwoFactorFailed
	MsgDisableTwoFactorFailed = model.MsgDisableTwoFactorFailed
)

// UpdateProfile applies a partial update and mirrors the returned user.
func (m *Manager) UpdateProfile(ctx context.Context, update model.ProfileUpdate) error {
	defer m.begin()()

	var updated model.User
	err := m.account(ctx, "update profile", MsgUpdateProfileFailed, func(ctx context.Context) error {
		user, err := m.api.UpdateProfile(ctx, update)
		if err == nil && user.ID == "" {
			err = fmt.Errorf("%s: %w", MsgUpdateProfileFailed, model.ErrIncompleteUser)
		}
		updated = user
		return err
	})
	if err != nil {
		return err
	}

	m.user.SetData(&updated)
	m.persistUser(ctx, updated)

	return nil
}

// ChangePassword changes the password of the logged-in user.
func (m *Manager) ChangePassword(ctx context.Context, change model.PasswordChange) error {
	defer m.begin()()

	return m.account(ctx, "change password", MsgChangePasswordFailed, func(ctx context.Context) error {
		return m.api.ChangePassword(ctx, change)
	})
}

// ForgotPassword asks the Identity API to send a reset email.
func (m *Manager) ForgotPassword(ctx context.Context, email string) error {
	defer m.begin()()

	return m.account(ctx, "request password reset", MsgForgotPasswordFailed, func(ctx context.Context) error {
		return m.api.ForgotPassword(ctx, email)
	})
}

// ResetPassword sets a new password using a reset token.
func (m *Manager) ResetPassword(ctx context.Context, reset model.PasswordReset) error {
	defer m.begin()()

	return m.account(ctx, "reset password", MsgResetPasswordFailed, func(ctx context.Context) error {
		return m.api.ResetPassword(ctx, reset)
	})
}

// VerifyEmail confirms an email address with a verification token.
func (m *Manager) VerifyEmail(ctx context.Context, token string) error {
	defer m.begin()()

	return m.account(ctx, "verify email", MsgVerifyEmailFailed, func(ctx context.Context) error {
		return m.api.VerifyEmail(ctx, token)
	})
}

// EnableTwoFactor turns on two-factor authentication and returns the secret.
func (m *Manager) EnableTwoFactor(ctx context.Context) (model.TwoFactorSecret, error) {
	defer m.begin()()

	var secret model.TwoFactorSecret
	err := m.account(ctx, "enable two-factor authentication", MsgEnableTwoFactorFailed, func(ctx context.Context) error {
		s, err := m.api.EnableTwoFactor(ctx)
		secret = s
		return err
	})
	if err != nil {
		return model.TwoFactorSecret{}, err
	}

	return secret, nil
}

// DisableTwoFactor turns off two-factor authentication.
func (m *Manager) DisableTwoFactor(ctx context.Context, password string) error {
	defer m.begin()()

	return m.account(ctx, "disable two-factor authentication", MsgDisableTwoFactorFailed, func(ctx context.Context) error {
		return m.api.DisableTwoFactor(ctx, password)
	})
}

// account runs one attempt of an account operation. Failures are recorded on
// the user store and never end the session.
func (m *Manager) account(ctx context.Context, op, fallback string, call func(ctx context.Context) error) error {
	m.user.SetLoading(true)
	m.user.ClearError()
	m.publish()

	if err := call(ctx); err != nil {
		msg := failureMessage(err, fallback)
		m.user.SetError(msg)
		m.logger.Warn("Session: account operation failed",
			"operation", op,
			"error", msg)
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	m.user.SetLoading(false)
	m.logger.Info("Session: account operation completed", "operation", op)

	return nil
}
