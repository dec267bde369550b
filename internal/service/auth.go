package service

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/gophkeeper-session/internal/logger"
	"github.com/dtroode/gophkeeper-session/internal/model"
)

const (
	// Issuer names the service in authenticator apps.
	Issuer = "GophKeeper"

	resetTokenTTL  = time.Hour
	verifyTokenTTL = 24 * time.Hour
	secretSize     = 20
)

// Auth implements the identity operations behind the dev server's /auth routes.
type Auth struct {
	userStore    model.UserStore
	oneTimeStore model.OneTimeTokenStore
	notifier     model.Notifier
	tokenService *TokenService
	logger       *logger.Logger

	bcryptCost int
	now        func() time.Time

	// registerMu keeps the first-user-is-admin check atomic with the insert.
	registerMu sync.Mutex
}

func NewAuth(
	userStore model.UserStore,
	oneTimeStore model.OneTimeTokenStore,
	notifier model.Notifier,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		oneTimeStore: oneTimeStore,
		notifier:     notifier,
		tokenService: tokenService,
		logger:       logger,
		bcryptCost:   bcrypt.DefaultCost,
		now:          time.Now,
	}
}

// Register creates an account and signs it in. The first account becomes admin.
func (a *Auth) Register(ctx context.Context, req model.Registration) (model.AuthResult, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", req.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.bcryptCost)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	a.registerMu.Lock()
	count, err := a.userStore.Count(ctx)
	if err != nil {
		a.registerMu.Unlock()
		return model.AuthResult{}, fmt.Errorf("failed to count users: %w", err)
	}

	role := model.RoleUser
	if count == 0 {
		role = model.RoleAdmin
	}

	now := a.now().UTC()
	account := model.Account{
		User: model.User{
			ID:        uuid.NewString(),
			Email:     req.Email,
			Name:      req.Name,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: hash,
	}

	err = a.userStore.Create(ctx, account)
	a.registerMu.Unlock()
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			a.logger.Info("Auth service: email already registered",
				"email", req.Email)
			return model.AuthResult{}, err
		}
		a.logger.Error("Auth service: failed to create user",
			"email", req.Email,
			"error", err.Error())
		return model.AuthResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.sendOneTimeToken(ctx, account.User, model.PurposeEmailVerification, verifyTokenTTL)

	result, err := a.signIn(ctx, account.User)
	if err != nil {
		return model.AuthResult{}, err
	}

	a.logger.Info("Auth service: user registered",
		"user_id", account.ID,
		"role", string(role))

	return result, nil
}

// Login checks credentials and issues an access token.
func (a *Auth) Login(ctx context.Context, req model.Credentials) (model.AuthResult, error) {
	a.logger.Debug("Auth service: starting login",
		"email", req.Email)

	account, err := a.userStore.GetByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrNotFound) {
		return model.AuthResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(req.Password)) != nil {
		a.logger.Info("Auth service: wrong password",
			"user_id", account.ID)
		return model.AuthResult{}, model.ErrInvalidCredentials
	}

	result, err := a.signIn(ctx, account.User)
	if err != nil {
		return model.AuthResult{}, err
	}

	a.logger.Info("Auth service: login completed",
		"user_id", account.ID)

	return result, nil
}

// Refresh rotates the caller's access token.
func (a *Auth) Refresh(ctx context.Context, caller model.Caller) (model.TokenResult, error) {
	if _, err := a.account(ctx, caller); err != nil {
		return model.TokenResult{}, err
	}

	token, err := a.tokenService.Rotate(ctx, caller)
	if err != nil {
		return model.TokenResult{}, fmt.Errorf("failed to rotate token: %w", err)
	}

	return model.TokenResult{Token: token}, nil
}

// Logout revokes the caller's access token.
func (a *Auth) Logout(ctx context.Context, caller model.Caller) error {
	if err := a.tokenService.Revoke(ctx, caller); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	a.logger.Info("Auth service: logged out",
		"user_id", caller.UserID.String())

	return nil
}

func (a *Auth) Profile(ctx context.Context, caller model.Caller) (model.User, error) {
	account, err := a.account(ctx, caller)
	if err != nil {
		return model.User{}, err
	}
	return account.User, nil
}

// UpdateProfile applies the fields that are set. A changed email has to be
// verified again.
func (a *Auth) UpdateProfile(ctx context.Context, caller model.Caller, req model.ProfileUpdate) (model.User, error) {
	account, err := a.account(ctx, caller)
	if err != nil {
		return model.User{}, err
	}

	emailChanged := false
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Email != nil && *req.Email != account.Email {
		account.Email = *req.Email
		account.EmailVerified = false
		emailChanged = true
	}
	account.UpdatedAt = a.now().UTC()

	if err := a.userStore.Update(ctx, account); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return model.User{}, err
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	if emailChanged {
		a.sendOneTimeToken(ctx, account.User, model.PurposeEmailVerification, verifyTokenTTL)
	}

	return account.User, nil
}

func (a *Auth) ChangePassword(ctx context.Context, caller model.Caller, req model.PasswordChange) error {
	account, err := a.account(ctx, caller)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(req.OldPassword)) != nil {
		return model.ErrWrongPassword
	}

	return a.setPassword(ctx, account, req.NewPassword)
}

// ForgotPassword sends a reset token. Unknown addresses succeed silently so
// the endpoint does not reveal which emails are registered.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	account, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Debug("Auth service: reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	a.sendOneTimeToken(ctx, account.User, model.PurposePasswordReset, resetTokenTTL)

	return nil
}

func (a *Auth) ResetPassword(ctx context.Context, req model.PasswordReset) error {
	userID, err := a.oneTimeStore.Consume(ctx, model.PurposePasswordReset, req.Token)
	if err != nil {
		return err
	}

	account, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	return a.setPassword(ctx, account, req.NewPassword)
}

func (a *Auth) VerifyEmail(ctx context.Context, token string) error {
	userID, err := a.oneTimeStore.Consume(ctx, model.PurposeEmailVerification, token)
	if err != nil {
		return err
	}

	account, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	account.EmailVerified = true
	account.UpdatedAt = a.now().UTC()
	if err := a.userStore.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	a.logger.Info("Auth service: email verified",
		"user_id", account.ID)

	return nil
}

// EnableTwoFactor generates a TOTP secret and returns it with its otpauth URI.
func (a *Auth) EnableTwoFactor(ctx context.Context, caller model.Caller) (model.TwoFactorSecret, error) {
	account, err := a.account(ctx, caller)
	if err != nil {
		return model.TwoFactorSecret{}, err
	}
	if account.TwoFactorSecret != "" {
		return model.TwoFactorSecret{}, model.ErrTwoFactorEnabled
	}

	raw := make([]byte, secretSize)
	if _, err := rand.Read(raw); err != nil {
		return model.TwoFactorSecret{}, fmt.Errorf("failed to generate secret: %w", err)
	}
	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw)

	account.TwoFactorSecret = secret
	account.UpdatedAt = a.now().UTC()
	if err := a.userStore.Update(ctx, account); err != nil {
		return model.TwoFactorSecret{}, fmt.Errorf("failed to update user: %w", err)
	}

	a.logger.Info("Auth service: two-factor enabled",
		"user_id", account.ID)

	return model.TwoFactorSecret{
		Secret: secret,
		QRCode: otpauthURI(account.Email, secret),
	}, nil
}

func (a *Auth) DisableTwoFactor(ctx context.Context, caller model.Caller, password string) error {
	account, err := a.account(ctx, caller)
	if err != nil {
		return err
	}
	if account.TwoFactorSecret == "" {
		return model.ErrTwoFactorDisabled
	}
	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		return model.ErrWrongPassword
	}

	account.TwoFactorSecret = ""
	account.UpdatedAt = a.now().UTC()
	if err := a.userStore.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	a.logger.Info("Auth service: two-factor disabled",
		"user_id", account.ID)

	return nil
}

func (a *Auth) signIn(ctx context.Context, user model.User) (model.AuthResult, error) {
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to parse user id: %w", err)
	}

	token, err := a.tokenService.Issue(ctx, id)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{User: user, Token: token}, nil
}

// account loads the caller's account. A token whose user is gone is invalid.
func (a *Auth) account(ctx context.Context, caller model.Caller) (model.Account, error) {
	account, err := a.userStore.GetByID(ctx, caller.UserID.String())
	if errors.Is(err, model.ErrNotFound) {
		return model.Account{}, model.ErrTokenInvalid
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return account, nil
}

func (a *Auth) setPassword(ctx context.Context, account model.Account, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	account.PasswordHash = hash
	account.UpdatedAt = a.now().UTC()
	if err := a.userStore.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	a.logger.Info("Auth service: password changed",
		"user_id", account.ID)

	return nil
}

// sendOneTimeToken issues and delivers a token. Delivery problems are logged
// and do not fail the calling operation.
func (a *Auth) sendOneTimeToken(ctx context.Context, user model.User, purpose model.TokenPurpose, ttl time.Duration) {
	token, err := a.oneTimeStore.Issue(ctx, purpose, user.ID, ttl)
	if err != nil {
		a.logger.Error("Auth service: failed to issue one-time token",
			"purpose", string(purpose),
			"error", err.Error())
		return
	}

	if err := a.notifier.Notify(ctx, user.Email, purpose, token); err != nil {
		a.logger.Error("Auth service: failed to deliver one-time token",
			"purpose", string(purpose),
			"error", err.Error())
	}
}

func otpauthURI(email, secret string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", Issuer)
	return "otpauth://totp/" + url.PathEscape(Issuer+":"+email) + "?" + v.Encode()
}
