package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

// newTestServer answers every request with status and body and records what it got.
func newTestServer(t *testing.T, status int, body string) (*Client, *recorded) {
	t.Helper()

	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return New(srv.URL + "/api"), rec
}

func TestClient_Login(t *testing.T) {
	ctx := context.Background()
	creds := model.Credentials{Email: "a@b.com", Password: "x"}

	t.Run("success", func(t *testing.T) {
		c, rec := newTestServer(t, http.StatusOK,
			`{"success":true,"data":{"user":{"id":"u1","email":"a@b.com","name":"A","role":"user"},"token":"T1"}}`)

		res, err := c.Login(ctx, creds)
		require.NoError(t, err)

		assert.Equal(t, "T1", res.Token)
		assert.Equal(t, "u1", res.User.ID)
		assert.Equal(t, model.RoleUser, res.User.Role)
		assert.Equal(t, http.MethodPost, rec.method)
		assert.Equal(t, "/api/auth/login", rec.path)
		assert.Equal(t, "a@b.com", rec.body["email"])
		assert.Equal(t, "x", rec.body["password"])
		assert.Empty(t, rec.auth)
	})

	t.Run("envelope failure with message", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusOK, `{"success":false,"message":"bad credentials"}`)

		_, err := c.Login(ctx, creds)
		require.Error(t, err)

		var apiErr *model.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "bad credentials", apiErr.Error())
		assert.Equal(t, http.StatusOK, apiErr.Status)
	})

	t.Run("envelope failure without message", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusOK, `{"success":false}`)

		_, err := c.Login(ctx, creds)
		require.Error(t, err)
		assert.Equal(t, model.MsgLoginFailed, err.Error())
	})

	t.Run("non-2xx with envelope", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusUnauthorized, `{"success":false,"message":"invalid email or password"}`)

		_, err := c.Login(ctx, creds)

		var apiErr *model.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "invalid email or password", apiErr.Message)
	})

	t.Run("non-2xx without envelope", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)

		_, err := c.Login(ctx, creds)

		var apiErr *model.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.Status)
		assert.Equal(t, model.MsgLoginFailed, apiErr.Message)
	})

	t.Run("success without token", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusOK, `{"success":true,"data":{"user":{"id":"u1"}}}`)

		_, err := c.Login(ctx, creds)

		var apiErr *model.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Contains(t, apiErr.Message, model.MsgLoginFailed)
	})

	t.Run("invalid request is not sent", func(t *testing.T) {
		c, rec := newTestServer(t, http.StatusOK, `{"success":true}`)

		_, err := c.Login(ctx, model.Credentials{Email: "not-an-email", Password: "x"})
		require.Error(t, err)
		assert.Empty(t, rec.path)
	})
}

func TestClient_Register(t *testing.T) {
	c, rec := newTestServer(t, http.StatusCreated,
		`{"success":true,"data":{"user":{"id":"u1","email":"a@b.com","name":"A"},"token":"R1"}}`)

	res, err := c.Register(context.Background(), model.Registration{Name: "A", Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, "R1", res.Token)
	assert.Equal(t, "/api/auth/register", rec.path)
	assert.Equal(t, "A", rec.body["name"])
}

func TestClient_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("sends bearer and returns token", func(t *testing.T) {
		c, rec := newTestServer(t, http.StatusOK, `{"success":true,"data":{"token":"T2"}}`)
		c.SetTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "T1", TokenType: "Bearer"}))

		res, err := c.RefreshToken(ctx)
		require.NoError(t, err)

		assert.Equal(t, "T2", res.Token)
		assert.Equal(t, "Bearer T1", rec.auth)
		assert.Equal(t, "/api/auth/refresh", rec.path)
	})

	t.Run("fallback message", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusUnauthorized, `{"success":false}`)

		_, err := c.RefreshToken(ctx)
		require.Error(t, err)
		assert.Equal(t, model.MsgRefreshFailed, err.Error())
	})
}

func TestClient_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("ignores envelope", func(t *testing.T) {
		c, rec := newTestServer(t, http.StatusOK, `{"success":false}`)

		require.NoError(t, c.Logout(ctx))
		assert.Equal(t, "/api/auth/logout", rec.path)
	})

	t.Run("non-2xx", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusInternalServerError, ``)

		err := c.Logout(ctx)
		var apiErr *model.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	})
}

func TestClient_Profile(t *testing.T) {
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		c, rec := newTestServer(t, http.StatusOK,
			`{"success":true,"data":{"id":"u1","email":"a@b.com","name":"A","role":"admin","createdAt":"2024-01-02T03:04:05Z"}}`)

		user, err := c.GetProfile(ctx)
		require.NoError(t, err)

		assert.Equal(t, http.MethodGet, rec.method)
		assert.True(t, user.IsAdmin())
		assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), user.CreatedAt.UTC())
	})

	t.Run("get fallback", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusOK, `{"success":false}`)

		_, err := c.GetProfile(ctx)
		assert.EqualError(t, err, model.MsgVerifyFailed)
	})

	t.Run("update sends only set fields", func(t *testing.T) {
		c, rec := newTestServer(t, http.StatusOK, `{"success":true,"data":{"id":"u1","name":"B"}}`)
		name := "B"

		user, err := c.UpdateProfile(ctx, model.ProfileUpdate{Name: &name})
		require.NoError(t, err)

		assert.Equal(t, "B", user.Name)
		assert.Equal(t, http.MethodPatch, rec.method)
		assert.Equal(t, map[string]any{"name": "B"}, rec.body)
	})

	t.Run("update without data", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusOK, `{"success":true}`)
		name := "B"

		user, err := c.UpdateProfile(ctx, model.ProfileUpdate{Name: &name})
		require.Error(t, err)
		assert.Contains(t, err.Error(), model.MsgUpdateProfileFailed)
		assert.Contains(t, err.Error(), ErrMissingData.Error())
		assert.Empty(t, user.ID)

		var apiErr *model.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusOK, apiErr.Status)
	})
}

func TestClient_AccountOperations(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		path     string
		call     func(c *Client) error
		body     map[string]any
		fallback string
	}{
		{
			name:     "change password",
			path:     "/api/auth/change-password",
			call:     func(c *Client) error { return c.ChangePassword(ctx, model.PasswordChange{OldPassword: "a", NewPassword: "b"}) },
			body:     map[string]any{"oldPassword": "a", "newPassword": "b"},
			fallback: model.MsgChangePasswordFailed,
		},
		{
			name:     "forgot password",
			path:     "/api/auth/forgot-password",
			call:     func(c *Client) error { return c.ForgotPassword(ctx, "a@b.com") },
			body:     map[string]any{"email": "a@b.com"},
			fallback: model.MsgForgotPasswordFailed,
		},
		{
			name:     "reset password",
			path:     "/api/auth/reset-password",
			call:     func(c *Client) error { return c.ResetPassword(ctx, model.PasswordReset{Token: "r", NewPassword: "n"}) },
			body:     map[string]any{"token": "r", "newPassword": "n"},
			fallback: model.MsgResetPasswordFailed,
		},
		{
			name:     "verify email",
			path:     "/api/auth/verify-email",
			call:     func(c *Client) error { return c.VerifyEmail(ctx, "v") },
			body:     map[string]any{"token": "v"},
			fallback: model.MsgVerifyEmailFailed,
		},
		{
			name:     "disable 2fa",
			path:     "/api/auth/2fa/disable",
			call:     func(c *Client) error { return c.DisableTwoFactor(ctx, "pw") },
			body:     map[string]any{"password": "pw"},
			fallback: model.MsgDisableTwoFactorFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestServer(t, http.StatusOK, `{"success":true}`)

			require.NoError(t, tt.call(c))
			assert.Equal(t, tt.path, rec.path)
			assert.Equal(t, tt.body, rec.body)
		})

		t.Run(tt.name+" fallback", func(t *testing.T) {
			c, _ := newTestServer(t, http.StatusOK, `{"success":false}`)

			assert.EqualError(t, tt.call(c), tt.fallback)
		})
	}
}

func TestClient_EnableTwoFactor(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, `{"success":true,"data":{"secret":"S","qrCode":"otpauth://x"}}`)

	secret, err := c.EnableTwoFactor(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.TwoFactorSecret{Secret: "S", QRCode: "otpauth://x"}, secret)
	assert.Equal(t, "/api/auth/2fa/enable", rec.path)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithTimeout(50*time.Millisecond))

	_, err := c.GetProfile(context.Background())
	require.Error(t, err)

	var apiErr *model.APIError
	assert.False(t, errors.As(err, &apiErr))
}
