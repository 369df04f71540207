package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"newshub-core/infrastructure/cache/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestManager() (*Manager, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	return NewManager(memory.NewMemoryCache(), WithClock(clock.Now)), clock
}

func TestKey_OrderIndependent(t *testing.T) {
	a := Key("/posts", map[string]string{"type": "top", "_page": "1", "_limit": "20"})
	b := Key("/posts", map[string]string{"_limit": "20", "type": "top", "_page": "1"})

	assert.Equal(t, a, b)
	assert.Equal(t, "/posts?_limit=20&_page=1&type=top", a)
	assert.Equal(t, "/posts", Key("/posts", nil))
	assert.NotEqual(t, a, Key("/posts", map[string]string{"type": "keji", "_page": "1", "_limit": "20"}))
}

func TestManager_FreshnessWindow(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager()
	sig := Key("/posts", map[string]string{"type": "top"})

	m.Set(ctx, sig, []string{"a", "b"})

	clock.Advance(DefaultTTL - time.Millisecond)
	var got []string
	require.True(t, m.Get(ctx, sig, &got), "entry should be fresh just before the TTL")
	assert.Equal(t, []string{"a", "b"}, got)

	clock.Advance(time.Millisecond)
	assert.False(t, m.Get(ctx, sig, &got), "entry should be stale at exactly the TTL")

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries, "stale entry should be evicted on read")
}

func TestManager_SetOverwritesAndRestamps(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager()

	m.Set(ctx, "/posts", 1)
	clock.Advance(4 * time.Minute)
	m.Set(ctx, "/posts", 2)
	clock.Advance(4 * time.Minute)

	var got int
	require.True(t, m.Get(ctx, "/posts", &got))
	assert.Equal(t, 2, got)
}

func TestManager_ClearVariants(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	top := Key("/posts", map[string]string{"type": "top", "_page": "1"})
	top2 := Key("/posts", map[string]string{"type": "top", "_page": "2"})
	keji := Key("/posts", map[string]string{"type": "keji", "_page": "1"})
	for _, sig := range []string{top, top2, keji} {
		m.Set(ctx, sig, "page")
	}

	m.Clear(ctx, top2)
	var v string
	assert.False(t, m.Get(ctx, top2, &v))

	removed := m.ClearWhere(ctx, func(sig string) bool { return strings.Contains(sig, "type=top") })
	assert.Equal(t, 1, removed)
	assert.True(t, m.Get(ctx, keji, &v))

	assert.Equal(t, 1, m.ClearAll(ctx))
	stats, _ := m.Stats(ctx)
	assert.Equal(t, 0, stats.Entries)
	assert.NotNil(t, stats.Keys)
}

func TestManager_SweepRemovesOnlyStale(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager()

	m.Set(ctx, "old", 1)
	clock.Advance(3 * time.Minute)
	m.Set(ctx, "new", 2)
	clock.Advance(3 * time.Minute)

	assert.Equal(t, 1, m.Sweep(ctx))

	stats, _ := m.Stats(ctx)
	assert.Equal(t, []string{"new"}, stats.Keys)
}

func TestManager_DoesNotTouchOtherNamespaces(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewMemoryCache()
	m := NewManager(backend)

	backend.Set(ctx, "kv:app_theme", []byte(`"dark"`), 0)
	m.Set(ctx, "/posts", 1)
	m.ClearAll(ctx)

	_, err := backend.Get(ctx, "kv:app_theme")
	assert.NoError(t, err)
}

func TestManager_ShapeMismatchIsAbsent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	m.Set(ctx, "/posts", "not a list")

	var got []int
	assert.False(t, m.Get(ctx, "/posts", &got))
}

func TestManager_WithTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	m := NewManager(memory.NewMemoryCache(), WithClock(clock.Now), WithTTL(time.Second))

	m.Set(ctx, "/posts", 1)
	clock.Advance(time.Second)

	var got int
	assert.Equal(t, time.Second, m.TTL())
	assert.False(t, m.Get(ctx, "/posts", &got))
}

func TestManager_StartSweeperStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m, clock := newTestManager()

	m.Set(ctx, "old", 1)
	clock.Advance(DefaultTTL)
	m.StartSweeper(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		stats, _ := m.Stats(context.Background())
		return stats.Entries == 0
	}, time.Second, 5*time.Millisecond)
	cancel()
}
