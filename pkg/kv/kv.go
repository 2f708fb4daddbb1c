// Package kv provides the durable key-value storage behind persisted client
// state. Each state slice (session, onboarding draft, theme) owns a
// namespaced key and is rehydrated independently at startup.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has never been written or was deleted.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence contract shared by all backends.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
