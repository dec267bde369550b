// Package httpapi is the Identity API client over JSON/HTTP. Every response
// is the envelope {success, data, message}.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/oauth2"

	"github.com/dtroode/gophkeeper-session/internal/logger"
	"github.com/dtroode/gophkeeper-session/internal/model"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

const (
	basePath        = "/auth"
	maxResponseSize = 1 << 20
)

var _ model.IdentityAPI = (*Client)(nil)

// ErrMissingData is returned when a successful envelope lacks a required payload.
var ErrMissingData = errors.New("response carries no data")

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithTransport sets the base transport the bearer transport wraps.
func WithTransport(base http.RoundTripper) Option {
	return func(c *Client) {
		c.transport.Base = base
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// Client talks to the Identity API under <baseURL>/auth.
type Client struct {
	baseURL    string
	httpClient *http.Client
	transport  *BearerTransport
	logger     *logger.Logger
}

// New creates a Client. Until SetTokenSource is called requests carry no
// Authorization header.
func New(baseURL string, opts ...Option) *Client {
	transport := NewBearerTransport(http.DefaultTransport, nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + basePath,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
		transport: transport,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetTokenSource sets where the bearer token comes from, usually the session
// manager that owns this client.
func (c *Client) SetTokenSource(source oauth2.TokenSource) {
	c.transport.SetSource(source)
}

// Login posts credentials and returns the user with a fresh token.
func (c *Client) Login(ctx context.Context, credentials model.Credentials) (model.AuthResult, error) {
	var result model.AuthResult
	if err := c.call(ctx, "login", http.MethodPost, "/login", credentials, &result, model.MsgLoginFailed); err != nil {
		return model.AuthResult{}, err
	}
	if result.Token == "" {
		return model.AuthResult{}, c.missingData("login", model.MsgLoginFailed)
	}
	return result, nil
}

// Register creates an account and returns it with a fresh token.
func (c *Client) Register(ctx context.Context, registration model.Registration) (model.AuthResult, error) {
	var result model.AuthResult
	if err := c.call(ctx, "register", http.MethodPost, "/register", registration, &result, model.MsgRegistrationFailed); err != nil {
		return model.AuthResult{}, err
	}
	if result.Token == "" {
		return model.AuthResult{}, c.missingData("register", model.MsgRegistrationFailed)
	}
	return result, nil
}

// RefreshToken exchanges the current bearer token for a new one.
func (c *Client) RefreshToken(ctx context.Context) (model.TokenResult, error) {
	var result model.TokenResult
	if err := c.call(ctx, "refresh", http.MethodPost, "/refresh", nil, &result, model.MsgRefreshFailed); err != nil {
		return model.TokenResult{}, err
	}
	if result.Token == "" {
		return model.TokenResult{}, c.missingData("refresh", model.MsgRefreshFailed)
	}
	return result, nil
}

// Logout tells the server to invalidate the current token. Only transport
// failures and non-2xx statuses are reported; the envelope is not inspected.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, "/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if !isSuccessStatus(resp.StatusCode) {
		return &model.APIError{Op: "logout", Status: resp.StatusCode, Message: model.MsgLogoutFailed}
	}
	return nil
}

// GetProfile fetches the user behind the bearer token.
func (c *Client) GetProfile(ctx context.Context) (model.User, error) {
	var user model.User
	if err := c.call(ctx, "get profile", http.MethodGet, "/profile", nil, &user, model.MsgVerifyFailed); err != nil {
		return model.User{}, err
	}
	if user.ID == "" {
		return model.User{}, c.missingData("get profile", model.MsgVerifyFailed)
	}
	return user, nil
}

// UpdateProfile applies a partial update and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.User, error) {
	var user model.User
	if err := c.call(ctx, "update profile", http.MethodPatch, "/profile", update, &user, model.MsgUpdateProfileFailed); err != nil {
		return model.User{}, err
	}
	if user.ID == "" {
		return model.User{}, c.missingData("update profile", model.MsgUpdateProfileFailed)
	}
	return user, nil
}

// ChangePassword replaces the password of the current user.
func (c *Client) ChangePassword(ctx context.Context, change model.PasswordChange) error {
	return c.call(ctx, "change password", http.MethodPost, "/change-password", change, nil, model.MsgChangePasswordFailed)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r forgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
	)
}

// ForgotPassword asks for a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.call(ctx, "forgot password", http.MethodPost, "/forgot-password",
		forgotPasswordRequest{Email: email}, nil, model.MsgForgotPasswordFailed)
}

// ResetPassword sets a new password with a reset token.
func (c *Client) ResetPassword(ctx context.Context, reset model.PasswordReset) error {
	return c.call(ctx, "reset password", http.MethodPost, "/reset-password", reset, nil, model.MsgResetPasswordFailed)
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (r tokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
	)
}

// VerifyEmail confirms an email address.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.call(ctx, "verify email", http.MethodPost, "/verify-email",
		tokenRequest{Token: token}, nil, model.MsgVerifyEmailFailed)
}

// EnableTwoFactor turns on 2FA and returns the shared secret.
func (c *Client) EnableTwoFactor(ctx context.Context) (model.TwoFactorSecret, error) {
	var secret model.TwoFactorSecret
	if err := c.call(ctx, "enable 2fa", http.MethodPost, "/2fa/enable", nil, &secret, model.MsgEnableTwoFactorFailed); err != nil {
		return model.TwoFactorSecret{}, err
	}
	if secret.Secret == "" {
		return model.TwoFactorSecret{}, c.missingData("enable 2fa", model.MsgEnableTwoFactorFailed)
	}
	return secret, nil
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (r passwordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
	)
}

// DisableTwoFactor turns off 2FA after confirming the password.
func (c *Client) DisableTwoFactor(ctx context.Context, password string) error {
	return c.call(ctx, "disable 2fa", http.MethodPost, "/2fa/disable",
		passwordRequest{Password: password}, nil, model.MsgDisableTwoFactorFailed)
}

// call sends one request and decodes the envelope. A success:false envelope
// or a non-2xx status becomes *model.APIError carrying the server message or
// the fallback.
func (c *Client) call(ctx context.Context, op, method, path string, body, out any, fallback string) error {
	if v, ok := body.(validation.Validatable); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("invalid %s request: %w", op, err)
		}
	}

	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if !isSuccessStatus(resp.StatusCode) {
			return &model.APIError{Op: op, Status: resp.StatusCode, Message: fallback}
		}
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}

	if !isSuccessStatus(resp.StatusCode) || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		c.debug("Identity API: request rejected", "operation", op, "status", resp.StatusCode)
		return &model.APIError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", op, err)
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func (c *Client) missingData(op, fallback string) error {
	return &model.APIError{Op: op, Status: http.StatusOK, Message: fallback + ": " + ErrMissingData.Error()}
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func isSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}
