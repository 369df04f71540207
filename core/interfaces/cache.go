// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache defines the byte-level backend shared by the response cache and the
// key-value store. Implementations can be go-cache, Redis, SQLite or anything
// that can enumerate its keys.
//
// Example usage:
//
//	backend := someCache // implements Cache interface
//
//	// Store a page for five minutes
//	err := backend.Set(ctx, "http:/posts?type=top", payload, 5*time.Minute)
//
//	// Store a preference with no expiry
//	err = backend.Set(ctx, "kv:app_theme", []byte(`"dark"`), 0)
//
//	// Enumerate everything under a namespace
//	keys, err := backend.Keys(ctx, "http:")
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Keys lists the live keys starting with prefix. An empty prefix lists all keys.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
