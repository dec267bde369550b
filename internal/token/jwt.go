package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

// DefaultTTL is the lifetime of an access token when none is configured.
const DefaultTTL = 15 * time.Minute

const typeAccess = "access"

var _ model.TokenManager = (*JWT)(nil)

// Claims represents JWT claims with token type and user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a new JWT token manager. A non-positive ttl means DefaultTTL.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// GenerateAccessToken creates an access token and returns it with its JTI.
// Every token gets a fresh JTI so it can be revoked on its own.
func (j *JWT) GenerateAccessToken(userID uuid.UUID) (string, string, error) {
	now := j.now()
	jti := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID:    userID,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, jti, nil
}

// ParseAccessToken validates an access token and returns its claims.
func (j *JWT) ParseAccessToken(tokenString string) (model.TokenClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("failed to parse access token: %w", errors.Join(model.ErrTokenInvalid, err))
	}
	if !token.Valid {
		return model.TokenClaims{}, model.ErrTokenInvalid
	}
	if claims.TokenType != typeAccess {
		return model.TokenClaims{}, fmt.Errorf("%w: %s", model.ErrTokenMismatch, claims.TokenType)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return model.TokenClaims{
		UserID:    claims.UserID,
		JTI:       claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}
