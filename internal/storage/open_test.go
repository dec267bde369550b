package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophkeeper-session/internal/config"
	"github.com/dtroode/gophkeeper-session/internal/model"
	"github.com/dtroode/gophkeeper-session/internal/storage/file"
	"github.com/dtroode/gophkeeper-session/internal/storage/memory"
	"github.com/dtroode/gophkeeper-session/internal/storage/redis"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("none disables persistence", func(t *testing.T) {
		cfg := &config.Config{Storage: config.Storage{Driver: config.DriverNone}}

		kv, closeFn, err := Open(ctx, cfg)
		require.NoError(t, err)
		assert.Nil(t, kv)
		assert.NoError(t, closeFn())
	})

	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{Storage: config.Storage{Driver: config.DriverMemory}}

		kv, _, err := Open(ctx, cfg)
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, kv)
	})

	t.Run("file at configured path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		cfg := &config.Config{Storage: config.Storage{Driver: config.DriverFile, FilePath: path}}

		kv, _, err := Open(ctx, cfg)
		require.NoError(t, err)
		require.IsType(t, &file.Store{}, kv)
		assert.Equal(t, path, kv.(*file.Store).Path())

		require.NoError(t, kv.Set(ctx, model.StorageKeyToken, "T1"))
		assert.FileExists(t, path)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{
			Storage: config.Storage{Driver: config.DriverRedis},
			Redis:   config.Redis{Addr: mr.Addr(), Prefix: "test:"},
		}

		kv, closeFn, err := Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = closeFn() })
		require.IsType(t, &redis.Store{}, kv)

		require.NoError(t, kv.Set(ctx, model.StorageKeyToken, "T1"))
		got, err := mr.Get("test:" + model.StorageKeyToken)
		require.NoError(t, err)
		assert.Equal(t, "T1", got)
	})

	t.Run("redis unreachable", func(t *testing.T) {
		cfg := &config.Config{
			Storage: config.Storage{Driver: config.DriverRedis},
			Redis:   config.Redis{Addr: "127.0.0.1:1"},
		}

		_, _, err := Open(ctx, cfg)
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &config.Config{Storage: config.Storage{Driver: "floppy"}}

		_, _, err := Open(ctx, cfg)
		assert.ErrorContains(t, err, "floppy")
	})
}
