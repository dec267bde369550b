// Package storage selects the persistence medium of the session record.
package storage

import (
	"context"
	"fmt"

	"github.com/dtroode/gophkeeper-session/internal/config"
	"github.com/dtroode/gophkeeper-session/internal/model"
	"github.com/dtroode/gophkeeper-session/internal/storage/file"
	"github.com/dtroode/gophkeeper-session/internal/storage/memory"
	"github.com/dtroode/gophkeeper-session/internal/storage/minio"
	"github.com/dtroode/gophkeeper-session/internal/storage/postgres"
	"github.com/dtroode/gophkeeper-session/internal/storage/redis"
)

// CloseFunc releases the connections held by a store.
type CloseFunc func() error

func noopClose() error { return nil }

// Open builds the KeyValueStore selected by cfg.Storage.Driver.
// DriverNone returns a nil store, which disables persistence.
func Open(ctx context.Context, cfg *config.Config) (model.KeyValueStore, CloseFunc, error) {
	switch cfg.Storage.Driver {
	case config.DriverNone:
		return nil, noopClose, nil

	case config.DriverMemory:
		return memory.NewStore(), noopClose, nil

	case config.DriverFile, "":
		path := cfg.Storage.FilePath
		if path == "" {
			p, err := file.DefaultPath(cfg.AppName)
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		s, err := file.NewStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open session file: %w", err)
		}
		return s, noopClose, nil

	case config.DriverRedis:
		client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewStore(client, cfg.Redis.Prefix), client.Close, nil

	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewStore(conn.DB), conn.Close, nil

	case config.DriverMinio:
		c, err := minio.New(ctx, minio.Options{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			Prefix:    cfg.Minio.Prefix,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, noopClose, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
