// ABOUTME: Bounded most-recent-first string lists persisted to the KV store
// ABOUTME: Backs the search keyword history and the read article log

package history

import (
	"context"
	"strings"
	"sync"

	"newshub-core/core/interfaces"
)

// Storage keys and retention limits
const (
	SearchHistoryKey = "search_history"
	MaxSearchHistory = 10

	ReadHistoryKey = "read_articles"
	MaxReadHistory = 100
)

// list is a capped, deduplicated, most-recent-first list of strings
type list struct {
	mu     sync.Mutex
	store  interfaces.KVStore
	key    string
	limit  int
	items  []string
	loaded bool
}

func newList(store interfaces.KVStore, key string, limit int) *list {
	return &list{store: store, key: key, limit: limit}
}

func (l *list) load(ctx context.Context) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.read(ctx)
	return l.snapshot()
}

func (l *list) read(ctx context.Context) {
	var items []string
	if !l.store.Get(ctx, l.key, &items) {
		items = nil
	}
	l.items = l.normalize(items)
	l.loaded = true
}

func (l *list) ensureLoaded(ctx context.Context) {
	if !l.loaded {
		l.read(ctx)
	}
}

// normalize drops duplicates after the first occurrence and applies the cap
func (l *list) normalize(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	if len(out) > l.limit {
		out = out[:l.limit]
	}
	return out
}

// pushFront inserts value at the front. When moveExisting is false an existing
// value leaves the list unchanged; otherwise it is moved to the front.
func (l *list) pushFront(ctx context.Context, value string, moveExisting bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)

	if !moveExisting && l.indexOf(value) >= 0 {
		return
	}

	items := make([]string, 0, len(l.items)+1)
	items = append(items, value)
	for _, item := range l.items {
		if item != value {
			items = append(items, item)
		}
	}
	if len(items) > l.limit {
		items = items[:l.limit]
	}
	l.items = items
	l.persist(ctx)
}

func (l *list) remove(ctx context.Context, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)

	items := make([]string, 0, len(l.items))
	for _, item := range l.items {
		if item != value {
			items = append(items, item)
		}
	}
	l.items = items
	l.persist(ctx)
}

func (l *list) contains(ctx context.Context, value string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	return l.indexOf(value) >= 0
}

func (l *list) all(ctx context.Context) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	return l.snapshot()
}

func (l *list) clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = []string{}
	l.loaded = true
	l.persist(ctx)
}

func (l *list) indexOf(value string) int {
	for i, item := range l.items {
		if item == value {
			return i
		}
	}
	return -1
}

func (l *list) snapshot() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

func (l *list) persist(ctx context.Context) {
	l.store.Set(ctx, l.key, l.items)
}

// SearchHistory remembers the last MaxSearchHistory keywords.
// Searching an existing keyword again moves it to the front.
type SearchHistory struct {
	list *list
}

// NewSearchHistory creates a search history over store
func NewSearchHistory(store interfaces.KVStore) *SearchHistory {
	return &SearchHistory{list: newList(store, SearchHistoryKey, MaxSearchHistory)}
}

// Load reads the persisted history
func (h *SearchHistory) Load(ctx context.Context) []string {
	return h.list.load(ctx)
}

// Add records keyword as the most recent search. Blank keywords are ignored.
func (h *SearchHistory) Add(ctx context.Context, keyword string) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return
	}
	h.list.pushFront(ctx, keyword, true)
}

// Remove deletes keyword from the history
func (h *SearchHistory) Remove(ctx context.Context, keyword string) {
	h.list.remove(ctx, keyword)
}

// All returns the keywords, most recent first
func (h *SearchHistory) All(ctx context.Context) []string {
	return h.list.all(ctx)
}

// Clear empties the history
func (h *SearchHistory) Clear(ctx context.Context) {
	h.list.clear(ctx)
}

// ReadHistory logs the last MaxReadHistory article ids opened.
// Marking an already-read id keeps its original position.
type ReadHistory struct {
	list *list
}

// NewReadHistory creates a read log over store
func NewReadHistory(store interfaces.KVStore) *ReadHistory {
	return &ReadHistory{list: newList(store, ReadHistoryKey, MaxReadHistory)}
}

// Load reads the persisted log
func (h *ReadHistory) Load(ctx context.Context) []string {
	return h.list.load(ctx)
}

// MarkAsRead records id
func (h *ReadHistory) MarkAsRead(ctx context.Context, id string) {
	if id == "" {
		return
	}
	h.list.pushFront(ctx, id, false)
}

// IsRead reports whether id has been read
func (h *ReadHistory) IsRead(ctx context.Context, id string) bool {
	return h.list.contains(ctx, id)
}

// All returns read ids, most recent first
func (h *ReadHistory) All(ctx context.Context) []string {
	return h.list.all(ctx)
}

// Clear empties the log
func (h *ReadHistory) Clear(ctx context.Context) {
	h.list.clear(ctx)
}
