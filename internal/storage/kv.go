// Package storage persists named slots of structured data in a local
// key-value store.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by KV.Get when the key has never been written.
	ErrNotFound = errors.New("key not found")

	// ErrLocked is returned when another process already holds the store lock.
	ErrLocked = errors.New("store is locked by another process")
)

// KV is a durable key-value store. Each Set is written immediately.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
