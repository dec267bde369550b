package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

// handleError maps a service error to a status and a message that is safe to
// show to the client.
func handleError(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), errBadRequest.Error()+": ")
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, model.ErrInvalidCredentials.Error()
	case errors.Is(err, model.ErrTokenInvalid),
		errors.Is(err, model.ErrTokenRevoked),
		errors.Is(err, model.ErrTokenMismatch):
		return http.StatusUnauthorized, "invalid authorization token"
	case errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict, model.ErrEmailTaken.Error()
	case errors.Is(err, model.ErrTwoFactorEnabled):
		return http.StatusConflict, model.ErrTwoFactorEnabled.Error()
	case errors.Is(err, model.ErrTwoFactorDisabled):
		return http.StatusConflict, model.ErrTwoFactorDisabled.Error()
	case errors.Is(err, model.ErrWrongPassword):
		return http.StatusBadRequest, model.ErrWrongPassword.Error()
	case errors.Is(err, model.ErrOneTimeTokenInvalid):
		return http.StatusBadRequest, model.ErrOneTimeTokenInvalid.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
