// ABOUTME: Favorites manager keeps the user's saved articles and persists them to the KV store
// ABOUTME: Records are snapshots taken at save time, newest first, at most one per article id

package favorites

import (
	"context"
	"sync"
	"time"

	"newshub-core/core/domain"
	"newshub-core/core/interfaces"
)

// StorageKey is where favorites are persisted
const StorageKey = "news_favorites"

// Result says what a favorite operation did
type Result string

const (
	Added           Result = "added"
	Removed         Result = "removed"
	AlreadyFavorite Result = "already-favorite"
)

// Option configures a Manager
type Option func(*Manager)

// WithClock sets the time source for FavoritedAt
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager owns the favorites list. The in-memory list is authoritative for
// the session; every mutation is written through to the store.
type Manager struct {
	mu      sync.Mutex
	store   interfaces.KVStore
	now     func() time.Time
	records []domain.FavoriteRecord
	loaded  bool
}

// NewManager creates a manager over store
func NewManager(store interfaces.KVStore, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads persisted favorites, replacing what is in memory
func (m *Manager) Load(ctx context.Context) []domain.FavoriteRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.load(ctx)
	return domain.CloneFavorites(m.records)
}

func (m *Manager) load(ctx context.Context) {
	var records []domain.FavoriteRecord
	if !m.store.Get(ctx, StorageKey, &records) || records == nil {
		records = []domain.FavoriteRecord{}
	}
	m.records = dedupe(records)
	m.loaded = true
}

func (m *Manager) ensureLoaded(ctx context.Context) {
	if !m.loaded {
		m.load(ctx)
	}
}

// Add saves a snapshot of article at the front. It is a no-op returning
// AlreadyFavorite when the id is already saved.
func (m *Manager) Add(ctx context.Context, article domain.Article) (domain.FavoriteRecord, Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)

	if i := m.indexOf(article.ID); i >= 0 {
		return m.records[i], AlreadyFavorite
	}

	record := domain.NewFavoriteRecord(article, m.now())
	records := make([]domain.FavoriteRecord, 0, len(m.records)+1)
	records = append(records, record)
	m.records = append(records, m.records...)
	m.persist(ctx)
	return record, Added
}

// Remove deletes the record for id and reports whether one existed
func (m *Manager) Remove(ctx context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)

	kept := make([]domain.FavoriteRecord, 0, len(m.records))
	for _, r := range m.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	removed := len(kept) != len(m.records)
	m.records = kept
	m.persist(ctx)
	return removed
}

// Toggle removes article if saved and adds it otherwise
func (m *Manager) Toggle(ctx context.Context, article domain.Article) (domain.FavoriteRecord, Result) {
	if m.IsFavorite(ctx, article.ID) {
		m.Remove(ctx, article.ID)
		return domain.FavoriteRecord{Article: article.Clone()}, Removed
	}
	return m.Add(ctx, article)
}

// IsFavorite reports whether id is saved
func (m *Manager) IsFavorite(ctx context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
	return m.indexOf(id) >= 0
}

// All returns a copy of the saved records, newest first
func (m *Manager) All(ctx context.Context) []domain.FavoriteRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
	return domain.CloneFavorites(m.records)
}

// Count returns how many records are saved
func (m *Manager) Count(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLoaded(ctx)
	return len(m.records)
}

// Clear removes every record
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = []domain.FavoriteRecord{}
	m.loaded = true
	m.persist(ctx)
}

func (m *Manager) indexOf(id string) int {
	for i, r := range m.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) persist(ctx context.Context) {
	m.store.Set(ctx, StorageKey, m.records)
}

// dedupe keeps the first record per id
func dedupe(records []domain.FavoriteRecord) []domain.FavoriteRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.FavoriteRecord, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
