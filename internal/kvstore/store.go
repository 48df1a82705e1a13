package kvstore

import (
	"context"
	"errors"
	"time"
)

// Common errors for key-value store operations.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrEmptyKey    = errors.New("key cannot be empty")
	ErrClosed      = errors.New("store is closed")
)

// Store is a minimal key-value persistence interface.
//
// A zero TTL on Put means the entry never expires. Expired entries behave
// as if they were never written: Get returns ErrKeyNotFound and List omits
// them.
type Store interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key with an optional TTL (0 = no expiry).
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all live keys with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases underlying resources.
	Close() error
}
