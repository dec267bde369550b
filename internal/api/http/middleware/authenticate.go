package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dtroode/gophkeeper-session/internal/api/http/handler"
	"github.com/dtroode/gophkeeper-session/internal/logger"
	"github.com/dtroode/gophkeeper-session/internal/model"
)

// Messages returned to unauthenticated callers.
const (
	MsgMissingToken = "missing authorization token"
	MsgInvalidToken = "invalid authorization token"
)

// TokenService resolves the caller behind a bearer token.
type TokenService interface {
	Authenticate(ctx context.Context, token string) (model.Caller, error)
}

// Authenticate validates bearer tokens and injects the caller into the context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid bearer token with 401.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r.Header.Get("Authorization"))
		if tokenString == "" {
			handler.WriteError(w, http.StatusUnauthorized, MsgMissingToken)
			return
		}

		caller, err := m.tokenService.Authenticate(r.Context(), tokenString)
		if err != nil {
			m.logger.Debug("Authenticate: rejected token",
				"path", r.URL.Path,
				"error", err.Error())
			handler.WriteError(w, http.StatusUnauthorized, MsgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetCallerToContext(r.Context(), caller)))
	})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
