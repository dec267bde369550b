package service

import (
	"context"
	"fmt"

	"github.com/dtroode/gophkeeper-session/internal/logger"
	"github.com/dtroode/gophkeeper-session/internal/model"
	"github.com/google/uuid"
)

// TokenService issues, rotates and revokes access tokens. It composes the
// TokenManager and RevocationStore.
type TokenService struct {
	manager model.TokenManager
	store   model.RevocationStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, store model.RevocationStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger}
}

func (s *TokenService) Issue(_ context.Context, userID uuid.UUID) (string, error) {
	token, _, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return "", fmt.Errorf("issue access: %w", err)
	}
	return token, nil
}

// Authenticate parses a bearer token and rejects revoked ones.
func (s *TokenService) Authenticate(ctx context.Context, token string) (model.Caller, error) {
	claims, err := s.manager.ParseAccessToken(token)
	if err != nil {
		return model.Caller{}, err
	}
	if claims.UserID == uuid.Nil {
		return model.Caller{}, model.ErrTokenInvalid
	}

	revoked, err := s.store.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return model.Caller{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return model.Caller{}, model.ErrTokenRevoked
	}

	return model.Caller{
		UserID:    claims.UserID,
		JTI:       claims.JTI,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Rotate revokes the caller's token and issues a new one.
func (s *TokenService) Rotate(ctx context.Context, caller model.Caller) (string, error) {
	if err := s.Revoke(ctx, caller); err != nil {
		return "", fmt.Errorf("revoke old access: %w", err)
	}

	token, err := s.Issue(ctx, caller.UserID)
	if err != nil {
		return "", err
	}

	s.logger.Debug("Token service: access token rotated",
		"user_id", caller.UserID.String())

	return token, nil
}

func (s *TokenService) Revoke(ctx context.Context, caller model.Caller) error {
	return s.store.Revoke(ctx, caller.JTI, caller.ExpiresAt)
}
