package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"bad request", fmt.Errorf("%w: malformed JSON", errBadRequest), http.StatusBadRequest, "malformed JSON"},
		{"credentials", model.ErrInvalidCredentials, http.StatusUnauthorized, model.ErrInvalidCredentials.Error()},
		{"revoked", fmt.Errorf("wrap: %w", model.ErrTokenRevoked), http.StatusUnauthorized, "invalid authorization token"},
		{"email taken", model.ErrEmailTaken, http.StatusConflict, model.ErrEmailTaken.Error()},
		{"2fa enabled", model.ErrTwoFactorEnabled, http.StatusConflict, model.ErrTwoFactorEnabled.Error()},
		{"wrong password", model.ErrWrongPassword, http.StatusBadRequest, model.ErrWrongPassword.Error()},
		{"one-time token", model.ErrOneTimeTokenInvalid, http.StatusBadRequest, model.ErrOneTimeTokenInvalid.Error()},
		{"not found", model.ErrNotFound, http.StatusNotFound, "not found"},
		{"internal", errors.New("db exploded"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := handleError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
