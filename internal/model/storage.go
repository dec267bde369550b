package model

import "context"

// Keys of the persisted session record.
const (
	StorageKeyToken = "auth_token"
	StorageKeyUser  = "auth_user"
)

// KeyValueStore is the durable storage collaborator.
// Get returns ErrNotFound for absent keys; Delete of an absent key succeeds.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
