package model

// Fallback messages used when a failed Identity API call carries no message.
const (
	MsgLoginFailed            = "Login failed"
	MsgRegistrationFailed     = "Registration failed"
	MsgRefreshFailed          = "Token refresh failed"
	MsgLogoutFailed           = "Logout failed"
	MsgVerifyFailed           = "Failed to fetch profile"
	MsgUpdateProfileFailed    = "Failed to update profile"
	MsgChangePasswordFailed   = "Failed to change password"
	MsgForgotPasswordFailed   = "Failed to send reset email"
	MsgResetPasswordFailed    = "Failed to reset password"
	MsgVerifyEmailFailed      = "Failed to verify email"
	MsgEnableTwoFactorFailed  = "Failed to enable 2FA"
	MsgDisableTwoFactorFailed = "Failed to disable 2FA"
)
