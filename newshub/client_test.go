package newshub

import (
	"context"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"newshub-core/core/interfaces"
	"newshub-core/core/state"
	"newshub-core/pkg/config"
	"newshub-core/pkg/featureflags"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	calls atomic.Int32
}

func (s *stubProvider) Get(context.Context, string, url.Values) (interfaces.Response, error) {
	s.calls.Add(1)
	return stubResponse(`[{"id":1,"userId":1,"title":"hello","body":"world"}]`), nil
}

func (s *stubProvider) Post(context.Context, string, io.Reader) (interfaces.Response, error) {
	return nil, nil
}

type stubResponse string

func (r stubResponse) StatusCode() int      { return 200 }
func (r stubResponse) Body() io.ReadCloser  { return io.NopCloser(strings.NewReader(string(r))) }
func (r stubResponse) Header(string) string { return "" }

func TestNewClient_Defaults(t *testing.T) {
	provider := &stubProvider{}
	client, err := NewClient(WithHTTPClient(provider), WithQuietMode())
	require.NoError(t, err)
	defer client.Close()

	ctx := client.Context(context.Background())
	require.NoError(t, client.Session().FetchNews(ctx, "top", false))
	assert.Len(t, client.Session().Articles("top"), 1)
	assert.EqualValues(t, 1, provider.calls.Load())

	stats, err := client.News().CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
}

func TestNewClient_StoragePersistsAcrossClients(t *testing.T) {
	dir := t.TempDir()
	storage := BackendOption{Type: BackendSQLite, SQLite: config.SQLiteConfig{Path: filepath.Join(dir, "kv.db")}}
	memoryCache := BackendOption{Type: BackendMemory}

	first, err := NewClient(WithQuietMode(), WithHTTPClient(&stubProvider{}), WithBackends(memoryCache, storage))
	require.NoError(t, err)
	ctx := first.Context(context.Background())
	require.NoError(t, first.Session().SetTheme(ctx, state.ThemeDark))
	first.Session().MarkAsRead(ctx, "news_1_top")
	require.NoError(t, first.Close())

	second, err := NewClient(WithQuietMode(), WithHTTPClient(&stubProvider{}), WithBackends(memoryCache, storage))
	require.NoError(t, err)
	defer second.Close()
	ctx = second.Context(context.Background())
	assert.Equal(t, state.ThemeDark, second.Session().Theme())
	assert.True(t, second.Session().IsRead(ctx, "news_1_top"))
}

func TestNewClient_FeatureFlagsReachServices(t *testing.T) {
	provider := &stubProvider{}
	flags := featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{})
	client, err := NewClient(WithQuietMode(), WithHTTPClient(provider), WithFeatureFlags(flags))
	require.NoError(t, err)
	defer client.Close()

	ctx := client.Context(context.Background())
	params := interfaces.ListParams{Category: "top", UseCache: true}
	_, err = client.News().GetList(ctx, params)
	require.NoError(t, err)
	_, err = client.News().GetList(ctx, params)
	require.NoError(t, err)

	assert.EqualValues(t, 2, provider.calls.Load(), "response cache disabled by flag")
}

func TestNewClient_OptionErrors(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		isValid func(error) bool
	}{
		{"bad backend", WithBackends(BackendOption{Type: "tape"}, BackendOption{}), IsConfigurationError},
		{"bad ttl", WithCacheTTL(0), IsValidationError},
		{"bad page size", WithPageSize(0), IsValidationError},
		{"bad retry", WithRetry(-1, 0), IsValidationError},
		{"bad app config", WithAppConfig(&config.Config{}), IsConfigurationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(WithQuietMode(), tt.opt)
			require.Error(t, err)
			if !tt.isValid(err) {
				t.Errorf("unexpected error type: %v", err)
			}
		})
	}
}

func TestNewClient_WithAppConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Type = "memory"
	cfg.Storage.Type = "sqlite"
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "store.db")
	cfg.Log.Level = "error"
	cfg.News.PageSize = 5

	client, err := NewClient(WithAppConfig(cfg), WithHTTPClient(&stubProvider{}))
	require.NoError(t, err)
	assert.Equal(t, 5, client.News().PageSize())
	require.NoError(t, client.Close())
}

func TestClient_CloseTwice(t *testing.T) {
	client, err := NewClient(WithQuietMode(), WithHTTPClient(&stubProvider{}))
	require.NoError(t, err)

	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Close(), ErrClientClosed)
}

func TestClient_PrefetchWarmsCache(t *testing.T) {
	provider := &stubProvider{}
	client, err := NewClient(WithQuietMode(), WithHTTPClient(provider), WithPrefetchWorkers(2))
	require.NoError(t, err)
	defer client.Close()

	ctx := client.Context(context.Background())
	results := client.Prefetch(ctx, "top", "keji")
	require.Len(t, results, 2)
	assert.Equal(t, "top", results[0].Category)
	assert.Equal(t, "keji", results[1].Category)
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, 1, r.Articles)
		assert.False(t, r.FromCache)
	}
	assert.EqualValues(t, 2, provider.calls.Load())

	require.NoError(t, client.Session().FetchNews(ctx, "keji", false))
	assert.Len(t, client.Session().Articles("keji"), 1)
	assert.EqualValues(t, 2, provider.calls.Load(), "warmed page served from cache")
}

func TestClient_PrefetchAfterClose(t *testing.T) {
	client, err := NewClient(WithQuietMode(), WithHTTPClient(&stubProvider{}))
	require.NoError(t, err)
	require.NoError(t, client.Close())

	results := client.Prefetch(context.Background(), "top")
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}
