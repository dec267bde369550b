package handler

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/dtroode/gophkeeper-session/internal/logger"
	"github.com/dtroode/gophkeeper-session/internal/model"
)

// AuthService defines the identity operations served under /auth.
type AuthService interface {
	Register(ctx context.Context, req model.Registration) (model.AuthResult, error)
	Login(ctx context.Context, req model.Credentials) (model.AuthResult, error)
	Refresh(ctx context.Context, caller model.Caller) (model.TokenResult, error)
	Logout(ctx context.Context, caller model.Caller) error
	Profile(ctx context.Context, caller model.Caller) (model.User, error)
	UpdateProfile(ctx context.Context, caller model.Caller, req model.ProfileUpdate) (model.User, error)
	ChangePassword(ctx context.Context, caller model.Caller, req model.PasswordChange) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req model.PasswordReset) error
	VerifyEmail(ctx context.Context, token string) error
	EnableTwoFactor(ctx context.Context, caller model.Caller) (model.TwoFactorSecret, error)
	DisableTwoFactor(ctx context.Context, caller model.Caller, password string) error
}

// Auth handles the /auth endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req model.Registration
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "register", err)
		return
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}

	WriteJSON(w, http.StatusCreated, result)
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "login", err)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := h.authService.Refresh(r.Context(), caller)
	if err != nil {
		h.fail(w, r, "refresh", err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	if err := h.authService.Logout(r.Context(), caller); err != nil {
		h.fail(w, r, "logout", err)
		return
	}

	WriteMessage(w, http.StatusOK, "Logged out")
}

func (h *Auth) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	user, err := h.authService.Profile(r.Context(), caller)
	if err != nil {
		h.fail(w, r, "get profile", err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

func (h *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req model.ProfileUpdate
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "update profile", err)
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), caller, req)
	if err != nil {
		h.fail(w, r, "update profile", err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

func (h *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req model.PasswordChange
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "change password", err)
		return
	}

	if err := h.authService.ChangePassword(r.Context(), caller, req); err != nil {
		h.fail(w, r, "change password", err)
		return
	}

	WriteMessage(w, http.StatusOK, "Password changed")
}

type emailRequest struct {
	Email string `json:"email"`
}

func (r *emailRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
	)
}

func (h *Auth) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "forgot password", err)
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		h.fail(w, r, "forgot password", err)
		return
	}

	WriteMessage(w, http.StatusOK, "If the email is registered, a reset link has been sent")
}

func (h *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordReset
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "reset password", err)
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req); err != nil {
		h.fail(w, r, "reset password", err)
		return
	}

	WriteMessage(w, http.StatusOK, "Password reset")
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (r *tokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token, validation.Required),
	)
}

func (h *Auth) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "verify email", err)
		return
	}

	if err := h.authService.VerifyEmail(r.Context(), req.Token); err != nil {
		h.fail(w, r, "verify email", err)
		return
	}

	WriteMessage(w, http.StatusOK, "Email verified")
}

func (h *Auth) EnableTwoFactor(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	secret, err := h.authService.EnableTwoFactor(r.Context(), caller)
	if err != nil {
		h.fail(w, r, "enable 2fa", err)
		return
	}

	WriteJSON(w, http.StatusOK, secret)
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (r *passwordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password, validation.Required),
	)
}

func (h *Auth) DisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req passwordRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "disable 2fa", err)
		return
	}

	if err := h.authService.DisableTwoFactor(r.Context(), caller, req.Password); err != nil {
		h.fail(w, r, "disable 2fa", err)
		return
	}

	WriteMessage(w, http.StatusOK, "Two-factor authentication disabled")
}

func (h *Auth) caller(w http.ResponseWriter, r *http.Request) (model.Caller, bool) {
	caller, ok := h.contextManager.GetCallerFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return model.Caller{}, false
	}
	return caller, true
}

func (h *Auth) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := handleError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Auth handler: request failed",
			"operation", op,
			"path", r.URL.Path,
			"error", err.Error())
	} else {
		h.logger.Debug("Auth handler: request rejected",
			"operation", op,
			"status", status,
			"error", err.Error())
	}
	WriteError(w, status, msg)
}
