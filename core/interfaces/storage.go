// ABOUTME: Storage interfaces for persisting domain entities
// ABOUTME: Defines the key-value contract the favorites, history and preference managers write through

package interfaces

import "context"

// KVStore is a JSON key-value store that never fails loudly.
// Reads of absent or corrupt keys report false; write failures are logged and dropped.
type KVStore interface {
	// Get decodes the value at key into dest and reports whether it was present and valid
	Get(ctx context.Context, key string, dest interface{}) bool

	// Set encodes value as JSON under key
	Set(ctx context.Context, key string, value interface{})

	// Remove deletes key
	Remove(ctx context.Context, key string)

	// Has reports whether key holds a value
	Has(ctx context.Context, key string) bool

	// Clear removes every key the store owns
	Clear(ctx context.Context)
}
