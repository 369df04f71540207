// ABOUTME: Response cache keyed by request signature with a fixed freshness window
// ABOUTME: Entries are stamped on write and treated as absent once older than the TTL

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"newshub-core/core/interfaces"
)

const (
	// DefaultTTL is how long a cached response stays fresh
	DefaultTTL = 5 * time.Minute

	// DefaultSweepInterval is how often StartSweeper purges expired entries
	DefaultSweepInterval = 60 * time.Second

	// DefaultNamespace prefixes every backend key the manager owns
	DefaultNamespace = "http:"
)

// entry is the stored envelope
type entry struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt int64           `json:"storedAt"`
}

// Manager caches decoded provider responses
type Manager struct {
	backend   interfaces.Cache
	logger    interfaces.Logger
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithTTL overrides the freshness window
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger used for swallowed backend failures
func WithLogger(logger interfaces.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithNamespace changes the backend key prefix
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		m.namespace = ns
	}
}

// NewManager creates a cache manager over backend
func NewManager(backend interfaces.Cache, opts ...Option) *Manager {
	m := &Manager{
		backend:   backend,
		logger:    interfaces.NopLogger{},
		ttl:       DefaultTTL,
		namespace: DefaultNamespace,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the freshness window
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Key builds the canonical signature for endpoint and params.
// Parameters are sorted by name so insertion order never changes the key.
func Key(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return endpoint + "?" + values.Encode()
}

// Key is a convenience for the package-level Key
func (m *Manager) Key(endpoint string, params map[string]string) string {
	return Key(endpoint, params)
}

// Get decodes a fresh entry into dest. Stale entries are evicted and reported absent.
func (m *Manager) Get(ctx context.Context, sig string, dest interface{}) bool {
	e, ok := m.load(ctx, sig)
	if !ok {
		return false
	}

	if !m.fresh(e) {
		m.Clear(ctx, sig)
		return false
	}

	if err := json.Unmarshal(e.Payload, dest); err != nil {
		m.logger.Warn("Cached payload has unexpected shape", map[string]interface{}{
			"signature": sig,
			"error":     err.Error(),
		})
		m.Clear(ctx, sig)
		return false
	}
	return true
}

// Set stores payload under sig stamped with the current time, replacing any existing entry
func (m *Manager) Set(ctx context.Context, sig string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		m.logger.Warn("Cache payload encode failed", map[string]interface{}{
			"signature": sig,
			"error":     err.Error(),
		})
		return
	}

	raw, _ := json.Marshal(entry{Payload: data, StoredAt: m.now().UnixMilli()})
	if err := m.backend.Set(ctx, m.namespace+sig, raw, m.ttl); err != nil {
		m.logger.Warn("Cache write failed", map[string]interface{}{
			"signature": sig,
			"error":     err.Error(),
		})
	}
}

// Clear removes one entry
func (m *Manager) Clear(ctx context.Context, sig string) {
	if err := m.backend.Delete(ctx, m.namespace+sig); err != nil {
		m.logger.Warn("Cache delete failed", map[string]interface{}{
			"signature": sig,
			"error":     err.Error(),
		})
	}
}

// ClearAll removes every entry the manager owns
func (m *Manager) ClearAll(ctx context.Context) int {
	return m.ClearWhere(ctx, func(string) bool { return true })
}

// ClearWhere removes entries whose signature satisfies match and returns how many were removed
func (m *Manager) ClearWhere(ctx context.Context, match func(sig string) bool) int {
	sigs, err := m.signatures(ctx)
	if err != nil {
		return 0
	}
	removed := 0
	for _, sig := range sigs {
		if match(sig) {
			m.Clear(ctx, sig)
			removed++
		}
	}
	return removed
}

// Sweep evicts every stale entry and returns how many were removed
func (m *Manager) Sweep(ctx context.Context) int {
	sigs, err := m.signatures(ctx)
	if err != nil {
		return 0
	}
	removed := 0
	for _, sig := range sigs {
		e, ok := m.load(ctx, sig)
		if ok && m.fresh(e) {
			continue
		}
		m.Clear(ctx, sig)
		removed++
	}
	if removed > 0 {
		m.logger.Debug("Swept expired cache entries", map[string]interface{}{"removed": removed})
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is done
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Sweep(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stats reports the live entry count and signatures
func (m *Manager) Stats(ctx context.Context) (interfaces.CacheStats, error) {
	sigs, err := m.signatures(ctx)
	if err != nil {
		return interfaces.CacheStats{}, err
	}
	if sigs == nil {
		sigs = []string{}
	}
	return interfaces.CacheStats{Entries: len(sigs), Keys: sigs}, nil
}

func (m *Manager) fresh(e entry) bool {
	age := m.now().Sub(time.UnixMilli(e.StoredAt))
	return age < m.ttl
}

func (m *Manager) load(ctx context.Context, sig string) (entry, bool) {
	data, err := m.backend.Get(ctx, m.namespace+sig)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			m.logger.Warn("Cache read failed", map[string]interface{}{
				"signature": sig,
				"error":     err.Error(),
			})
		}
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		m.Clear(ctx, sig)
		return entry{}, false
	}
	return e, true
}

func (m *Manager) signatures(ctx context.Context) ([]string, error) {
	keys, err := m.backend.Keys(ctx, m.namespace)
	if err != nil {
		m.logger.Warn("Cache key listing failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	sigs := make([]string, 0, len(keys))
	for _, k := range keys {
		sigs = append(sigs, strings.TrimPrefix(k, m.namespace))
	}
	return sigs, nil
}
