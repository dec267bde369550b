package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophkeeper-session/internal/mocks"
	"github.com/dtroode/gophkeeper-session/internal/model"
	"github.com/dtroode/gophkeeper-session/internal/session"
	"github.com/dtroode/gophkeeper-session/internal/storage/memory"
	"github.com/dtroode/gophkeeper-session/internal/testutil"
)

var alice = model.User{ID: "u-1", Email: "alice@example.com", Name: "Alice", Role: model.RoleAdmin}

func newManager(t *testing.T) (*session.Manager, *mocks.IdentityAPI) {
	t.Helper()
	api := mocks.NewIdentityAPI(t)
	return session.NewManager(api, memory.NewStore(), testutil.MakeNoopLogger()), api
}

func TestRun_Login(t *testing.T) {
	ctx := context.Background()
	creds := model.Credentials{Email: alice.Email, Password: "pw"}

	t.Run("success", func(t *testing.T) {
		mgr, api := newManager(t)
		api.On("Login", mock.Anything, creds).
			Return(model.AuthResult{User: alice, Token: "T1"}, nil).Once()

		var out bytes.Buffer
		err := run(ctx, mgr, "login", []string{"-email", alice.Email, "-password", "pw"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "Logged in as Alice\n", out.String())
		assert.True(t, mgr.IsAuthenticated())
	})

	t.Run("server message is reported", func(t *testing.T) {
		mgr, api := newManager(t)
		api.On("Login", mock.Anything, creds).
			Return(model.AuthResult{}, errors.New("Invalid credentials")).Once()

		err := run(ctx, mgr, "login", []string{"-email", alice.Email, "-password", "pw"}, &bytes.Buffer{})
		assert.EqualError(t, err, "Invalid credentials")
	})

	t.Run("invalid input never reaches the api", func(t *testing.T) {
		mgr, _ := newManager(t)

		err := run(ctx, mgr, "login", []string{"-email", "not-an-email"}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestRun_Whoami(t *testing.T) {
	ctx := context.Background()

	t.Run("not logged in", func(t *testing.T) {
		mgr, _ := newManager(t)

		err := run(ctx, mgr, "whoami", nil, &bytes.Buffer{})
		assert.ErrorIs(t, err, model.ErrNotAuthenticated)
	})

	t.Run("prints user", func(t *testing.T) {
		mgr, api := newManager(t)
		api.On("Login", mock.Anything, mock.Anything).
			Return(model.AuthResult{User: alice, Token: "T1"}, nil).Once()
		require.NoError(t, mgr.Login(ctx, model.Credentials{Email: alice.Email, Password: "pw"}))

		var out bytes.Buffer
		require.NoError(t, run(ctx, mgr, "whoami", nil, &out))
		assert.Contains(t, out.String(), "Email: alice@example.com")
		assert.Contains(t, out.String(), "Admin: true")
	})
}

func TestRun_Status(t *testing.T) {
	ctx := context.Background()
	mgr, api := newManager(t)

	var out bytes.Buffer
	require.NoError(t, run(ctx, mgr, "status", nil, &out))
	assert.Equal(t, "Status: unauthenticated\n", out.String())

	api.On("Login", mock.Anything, mock.Anything).
		Return(model.AuthResult{User: alice, Token: "T1"}, nil).Once()
	require.NoError(t, mgr.Login(ctx, model.Credentials{Email: alice.Email, Password: "pw"}))

	out.Reset()
	require.NoError(t, run(ctx, mgr, "status", nil, &out))
	assert.Contains(t, out.String(), "Status: authenticated")
	assert.Contains(t, out.String(), "User:   Alice")
}

func TestRun_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("without session reports the failure", func(t *testing.T) {
		mgr, _ := newManager(t)

		err := run(ctx, mgr, "refresh", nil, &bytes.Buffer{})
		require.Error(t, err)
		assert.Equal(t, model.ErrNoToken.Error(), err.Error())
	})
}

func TestRun_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a field", func(t *testing.T) {
		mgr, _ := newManager(t)

		err := run(ctx, mgr, "update-profile", nil, &bytes.Buffer{})
		assert.ErrorContains(t, err, "nothing to update")
	})

	t.Run("sends only set fields", func(t *testing.T) {
		mgr, api := newManager(t)
		name := "Alicia"
		updated := alice
		updated.Name = name
		api.On("UpdateProfile", mock.Anything, model.ProfileUpdate{Name: &name}).
			Return(updated, nil).Once()

		var out bytes.Buffer
		require.NoError(t, run(ctx, mgr, "update-profile", []string{"-name", name}, &out))
		assert.Equal(t, "Profile updated\n", out.String())
	})
}

func TestRun_TwoFactor(t *testing.T) {
	ctx := context.Background()
	mgr, api := newManager(t)
	api.On("EnableTwoFactor", mock.Anything).
		Return(model.TwoFactorSecret{Secret: "ABC", QRCode: "otpauth://totp/x"}, nil).Once()
	api.On("DisableTwoFactor", mock.Anything, "pw").Return(nil).Once()

	var out bytes.Buffer
	require.NoError(t, run(ctx, mgr, "2fa-enable", nil, &out))
	assert.Contains(t, out.String(), "Secret: ABC")

	require.NoError(t, run(ctx, mgr, "2fa-disable", []string{"-password", "pw"}, &bytes.Buffer{}))
	assert.Error(t, run(ctx, mgr, "2fa-disable", nil, &bytes.Buffer{}))
}

func TestRun_UnknownCommand(t *testing.T) {
	mgr, _ := newManager(t)

	err := run(context.Background(), mgr, "teleport", nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, errUnknownCommand)
}
