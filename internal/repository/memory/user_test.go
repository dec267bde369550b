package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophkeeper-session/internal/model"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	alice := model.Account{User: model.User{ID: "1", Email: "Alice@Example.com", Name: "Alice"}}
	require.NoError(t, r.Create(ctx, alice))

	t.Run("duplicate email is case-insensitive", func(t *testing.T) {
		err := r.Create(ctx, model.Account{User: model.User{ID: "2", Email: "alice@example.com"}})
		require.ErrorIs(t, err, model.ErrEmailTaken)
	})

	t.Run("lookups", func(t *testing.T) {
		got, err := r.GetByEmail(ctx, "ALICE@example.com")
		require.NoError(t, err)
		assert.Equal(t, "1", got.ID)

		got, err = r.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)

		_, err = r.GetByID(ctx, "missing")
		require.ErrorIs(t, err, model.ErrNotFound)
		_, err = r.GetByEmail(ctx, "missing@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("update moves email index", func(t *testing.T) {
		bob := model.Account{User: model.User{ID: "3", Email: "bob@example.com"}}
		require.NoError(t, r.Create(ctx, bob))

		bob.Email = "robert@example.com"
		require.NoError(t, r.Update(ctx, bob))

		_, err := r.GetByEmail(ctx, "bob@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)
		got, err := r.GetByEmail(ctx, "robert@example.com")
		require.NoError(t, err)
		assert.Equal(t, "3", got.ID)

		bob.Email = "alice@example.com"
		require.ErrorIs(t, r.Update(ctx, bob), model.ErrEmailTaken)
	})

	t.Run("update unknown", func(t *testing.T) {
		err := r.Update(ctx, model.Account{User: model.User{ID: "nope"}})
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("count", func(t *testing.T) {
		n, err := r.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}
