// ABOUTME: JSON key-value store layered over a cache backend with no expiry
// ABOUTME: Never surfaces an error; failures are logged at warn level and reads report absence

package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"newshub-core/core/interfaces"
)

// DefaultNamespace separates stored keys from cached responses on a shared backend
const DefaultNamespace = "kv:"

// Store implements interfaces.KVStore
type Store struct {
	backend   interfaces.Cache
	logger    interfaces.Logger
	namespace string
}

// New creates a store under DefaultNamespace
func New(backend interfaces.Cache, logger interfaces.Logger) *Store {
	return NewWithNamespace(backend, logger, DefaultNamespace)
}

// NewWithNamespace creates a store whose keys are prefixed with namespace
func NewWithNamespace(backend interfaces.Cache, logger interfaces.Logger, namespace string) *Store {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Store{backend: backend, logger: logger, namespace: namespace}
}

func (s *Store) key(k string) string {
	return s.namespace + k
}

// Get decodes the value at key into dest.
// Absent keys, backend errors and corrupt JSON all report false and leave dest untouched.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) bool {
	data, err := s.backend.Get(ctx, s.key(key))
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			s.warn("Storage read failed", key, err)
		}
		return false
	}

	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		s.warn("Storage read needs a non-nil pointer", key, errors.New("invalid destination"))
		return false
	}

	// Decode into a scratch value so a partial decode never reaches dest
	scratch := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(data, scratch.Interface()); err != nil {
		s.warn("Stored value is corrupt", key, err)
		return false
	}
	target.Elem().Set(scratch.Elem())
	return true
}

// Set encodes value under key
func (s *Store) Set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		s.warn("Storage encode failed", key, err)
		return
	}
	if err := s.backend.Set(ctx, s.key(key), data, 0); err != nil {
		s.warn("Storage write failed", key, err)
	}
}

// Remove deletes key
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, s.key(key)); err != nil {
		s.warn("Storage remove failed", key, err)
	}
}

// Has reports whether key holds a value
func (s *Store) Has(ctx context.Context, key string) bool {
	_, err := s.backend.Get(ctx, s.key(key))
	if err != nil && !errors.Is(err, interfaces.ErrCacheMiss) {
		s.warn("Storage read failed", key, err)
	}
	return err == nil
}

// Clear removes every key under the store's namespace
func (s *Store) Clear(ctx context.Context) {
	keys, err := s.backend.Keys(ctx, s.namespace)
	if err != nil {
		s.warn("Storage clear failed", "*", err)
		return
	}
	for _, k := range keys {
		if err := s.backend.Delete(ctx, k); err != nil {
			s.warn("Storage remove failed", strings.TrimPrefix(k, s.namespace), err)
		}
	}
}

func (s *Store) warn(msg, key string, err error) {
	s.logger.Warn(msg, map[string]interface{}{
		"key":   key,
		"error": err.Error(),
	})
}
