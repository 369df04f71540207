package news

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"newshub-core/core/cache"
	coreerrors "newshub-core/core/errors"
	"newshub-core/core/interfaces"
	"newshub-core/infrastructure/cache/memory"
	"newshub-core/pkg/featureflags"
	"newshub-core/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(client *mockHTTPClient, sleeper *sleepRecorder) *Service {
	if sleeper == nil {
		sleeper = &sleepRecorder{}
	}
	deps := interfaces.Dependencies{
		Cache:      memory.NewMemoryCache(),
		HTTPClient: client,
		Logger:     interfaces.NopLogger{},
	}
	return NewService(deps, nil, Options{
		Retry: retry.Policy{MaxRetries: 2, BaseDelay: time.Second, Sleep: sleeper.Sleep},
		Now:   func() time.Time { return testNow },
	})
}

func TestService_GetList_TransformsPosts(t *testing.T) {
	client := &mockHTTPClient{getFunc: pagedPosts(50, defaultTitle)}
	svc := newTestService(client, nil)

	result, err := svc.GetList(context.Background(), interfaces.ListParams{Category: "keji", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, result.Articles, 10)
	assert.False(t, result.FromCache)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.PageSize)

	a := result.Articles[0]
	assert.Equal(t, "news_1_keji", a.ID)
	assert.Equal(t, "post 1", a.Title)
	assert.Equal(t, "科技", a.Category)
	assert.Equal(t, "keji", a.CategoryKey)
	assert.Equal(t, "李四", a.AuthorName)
	assert.Equal(t, "https://jsonplaceholder.typicode.com/posts/1", a.SourceURL)
	assert.Equal(t, []string{"https://picsum.photos/400/300?random=1"}, a.Images)
	assert.Equal(t, "body of post 1", a.BodyPreview)
	assert.True(t, a.IsValid())
	assert.False(t, a.PublishedAt.After(testNow))
	assert.True(t, a.PublishedAt.After(testNow.Add(-publishWindow)))

	// id 7 falls in the multi-image band
	assert.Len(t, result.Articles[6].Images, 2)
}

func TestService_GetList_SendsOnlyPagingToProvider(t *testing.T) {
	client := &mockHTTPClient{getFunc: pagedPosts(50, defaultTitle)}
	svc := newTestService(client, nil)

	_, err := svc.GetList(context.Background(), interfaces.ListParams{Category: "tiyu", Page: 3, PageSize: 5})
	require.NoError(t, err)

	assert.Equal(t, []string{"/posts"}, client.paths)
	q := client.LastQuery()
	assert.Equal(t, "3", q.Get("_page"))
	assert.Equal(t, "5", q.Get("_limit"))
	assert.Empty(t, q.Get("type"))
}

func TestService_GetList_Defaults(t *testing.T) {
	client := &mockHTTPClient{getFunc: pagedPosts(50, defaultTitle)}
	svc := newTestService(client, nil)

	result, err := svc.GetList(context.Background(), interfaces.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, result.PageSize)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, "news_1_top", result.Articles[0].ID)
	assert.Equal(t, "头条", result.Articles[0].Category)
}

func TestService_GetList_FreshCacheSkipsNetwork(t *testing.T) {
	client := &mockHTTPClient{getFunc: pagedPosts(50, defaultTitle)}
	svc := newTestService(client, nil)
	ctx := context.Background()
	params := interfaces.ListParams{Category: "top", Page: 1, PageSize: 10, UseCache: true}

	first, err := svc.GetList(ctx, params)
	require.NoError(t, err)
	second, err := svc.GetList(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, 1, client.Calls())
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Articles, second.Articles)
}

func TestService_GetList_StaleCacheRefetches(t *testing.T) {
	client := &mockHTTPClient{getFunc: pagedPosts(50, defaultTitle)}
	now := testNow
	deps := interfaces.Dependencies{Cache: memory.NewMemoryCache(), HTTPClient: client}
	manager := cache.NewManager(deps.Cache, cache.WithClock(func() time.Time { return now }))
	svc := NewService(deps, manager, Options{Now: func() time.Time { return now }})
	ctx := context.Background()
	params := interfaces.ListParams{Category: "top", Page: 1, PageSize: 10, UseCache: true}

	_, err := svc.GetList(ctx, params)
	require.NoError(t, err)

	now = now.Add(cache.DefaultTTL)
	result, err := svc.GetList(ctx, params)
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 2, client.Calls())
}

func TestService_GetList_BypassStillWritesCache(t *testing.T) {
	client := &mockHTTPClient{getFunc: pagedPosts(50, defaultTitle)}
	svc := newTestService(client, nil)
	ctx := context.Background()

	_, err := svc.GetList(ctx, interfaces.ListParams{Category: "top", Page: 1, PageSize: 10})
	require.NoError(t, err)
	_, err = svc.GetList(ctx, interfaces.ListParams{Category: "top", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, client.Calls(), "bypassing requests always reach the provider")

	cached, err := svc.GetList(ctx, interfaces.ListParams{Category: "top", Page: 1, PageSize: 10, UseCache: true})
	require.NoError(t, err)
	assert.True(t, cached.FromCache)
	assert.Equal(t, 2, client.Calls())
}

func TestService_GetList_CacheFlagOff(t *testing.T) {
	client := &mockHTTPClient{getFunc: pagedPosts(50, defaultTitle)}
	svc := newTestService(client, nil)
	ctx := featureflags.WithManager(context.Background(), featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{
		featureflags.RequestCoalescing: true,
	}))
	params := interfaces.ListParams{Category: "top", Page: 1, PageSize: 10, UseCache: true}

	_, err := svc.GetList(ctx, params)
	require.NoError(t, err)
	_, err = svc.GetList(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, 2, client.Calls())
	stats, err := svc.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestService_GetList_RetriesWithBackoff(t *testing.T) {
	client := &mockHTTPClient{
		getFunc: func(context.Context, string, url.Values) (interfaces.Response, error) {
			return nil, &coreerrors.NetworkError{URL: "/posts", Err: assert.AnError}
		},
	}
	sleeper := &sleepRecorder{}
	svc := newTestService(client, sleeper)

	_, err := svc.GetList(context.Background(), interfaces.ListParams{Category: "top"})
	require.Error(t, err)

	assert.True(t, coreerrors.IsNetwork(err))
	assert.Equal(t, coreerrors.MsgNetworkError, coreerrors.UserMessage(err, ""))
	assert.Equal(t, 3, client.Calls())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.delays)
}

func TestService_GetList_RecoversAfterTransientFailure(t *testing.T) {
	serve := pagedPosts(50, defaultTitle)
	var n int
	client := &mockHTTPClient{}
	client.getFunc = func(ctx context.Context, path string, q url.Values) (interfaces.Response, error) {
		n++
		if n == 1 {
			return nil, coreerrors.NewHTTPStatusError(500, path)
		}
		return serve(ctx, path, q)
	}
	sleeper := &sleepRecorder{}
	svc := newTestService(client, sleeper)

	result, err := svc.GetList(context.Background(), interfaces.ListParams{Category: "top", PageSize: 5})
	require.NoError(t, err)
	assert.Len(t, result.Articles, 5)
	assert.Equal(t, 2, client.Calls())
	assert.Equal(t, []time.Duration{time.Second}, sleeper.delays)
}

func TestService_GetList_UnauthorizedIsNotRetried(t *testing.T) {
	for _, code := range []int{401, 403} {
		client := &mockHTTPClient{
			getFunc: func(_ context.Context, path string, _ url.Values) (interfaces.Response, error) {
				return nil, coreerrors.NewHTTPStatusError(code, path)
			},
		}
		sleeper := &sleepRecorder{}
		svc := newTestService(client, sleeper)

		_, err := svc.GetList(context.Background(), interfaces.ListParams{Category: "top"})
		require.Error(t, err)
		assert.Equal(t, 1, client.Calls(), "status %d", code)
		assert.Empty(t, sleeper.delays)
		assert.Equal(t, code, coreerrors.StatusCode(err))
	}
}

func TestService_GetList_UserMessageFor401(t *testing.T) {
	client := &mockHTTPClient{
		getFunc: func(_ context.Context, path string, _ url.Values) (interfaces.Response, error) {
			return nil, coreerrors.NewHTTPStatusError(401, path)
		},
	}
	svc := newTestService(client, nil)

	_, err := svc.GetList(context.Background(), interfaces.ListParams{})
	assert.Equal(t, "API密钥无效", coreerrors.UserMessage(err, coreerrors.MsgAPIError))
}

func TestService_GetList_MalformedPayload(t *testing.T) {
	client := &mockHTTPClient{
		getFunc: func(context.Context, string, url.Values) (interfaces.Response, error) {
			return &mockResponse{statusCode: 200, body: `{"id": 1}`}, nil
		},
	}
	svc := newTestService(client, nil)

	_, err := svc.GetList(context.Background(), interfaces.ListParams{})
	require.Error(t, err)
	assert.True(t, coreerrors.IsNoData(err))
}

func TestService_GetList_EmptyPageIsNotAnError(t *testing.T) {
	client := &mockHTTPClient{getFunc: pagedPosts(10, defaultTitle)}
	svc := newTestService(client, nil)

	result, err := svc.GetList(context.Background(), interfaces.ListParams{Page: 5, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Articles)
	assert.Equal(t, 0, result.Total)
}

func TestService_GetList_CancelledContext(t *testing.T) {
	client := &mockHTTPClient{getFunc: pagedPosts(10, defaultTitle)}
	svc := newTestService(client, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GetList(ctx, interfaces.ListParams{})
	require.Error(t, err)
	assert.True(t, coreerrors.IsCancelled(err))
	assert.Equal(t, 0, client.Calls())
}

func TestService_GetList_CoalescesConcurrentFetches(t *testing.T) {
	serve := pagedPosts(50, defaultTitle)
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	client := &mockHTTPClient{}
	client.getFunc = func(ctx context.Context, path string, q url.Values) (interfaces.Response, error) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		return serve(ctx, path, q)
	}
	svc := newTestService(client, nil)
	params := interfaces.ListParams{Category: "top", Page: 1, PageSize: 10, UseCache: true}

	var wg sync.WaitGroup
	results := make([][]string, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.GetList(context.Background(), params)
			if err != nil {
				t.Errorf("GetList() error = %v", err)
				return
			}
			for _, a := range res.Articles {
				results[i] = append(results[i], a.ID)
			}
		}(i)
	}

	<-entered
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, client.Calls())
	for i := 1; i < len(results); i++ {
		assert.Equal(t, results[0], results[i])
	}
}

func TestService_GetList_CancelledCallerLeavesOthersCoalesced(t *testing.T) {
	serve := pagedPosts(50, defaultTitle)
	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once
	client := &mockHTTPClient{}
	client.getFunc = func(ctx context.Context, path string, q url.Values) (interfaces.Response, error) {
		once.Do(func() { close(entered) })
		select {
		case <-release:
		case <-ctx.Done():
			return nil, &coreerrors.CancelledError{Err: ctx.Err()}
		}
		return serve(ctx, path, q)
	}
	svc := newTestService(client, nil)
	params := interfaces.ListParams{Category: "top", Page: 1, PageSize: 10}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.GetList(ctxA, params)
		errA <- err
	}()
	<-entered

	type outcome struct {
		articles int
		err      error
	}
	doneB := make(chan outcome, 1)
	go func() {
		res, err := svc.GetList(context.Background(), params)
		if err != nil {
			doneB <- outcome{err: err}
			return
		}
		doneB <- outcome{articles: len(res.Articles)}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		assert.True(t, coreerrors.IsCancelled(err), "cancelled caller returns at once: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller kept waiting on the shared fetch")
	}

	close(release)
	b := <-doneB
	require.NoError(t, b.err)
	assert.Equal(t, 10, b.articles)
	assert.Equal(t, 1, client.Calls())
}

func TestService_GetList_CoalescingDisabled(t *testing.T) {
	client := &mockHTTPClient{getFunc: pagedPosts(50, defaultTitle)}
	svc := newTestService(client, nil)
	ctx := featureflags.WithManager(context.Background(), featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{
		featureflags.ResponseCache: true,
	}))

	_, err := svc.GetList(ctx, interfaces.ListParams{PageSize: 10})
	require.NoError(t, err)
	_, err = svc.GetList(ctx, interfaces.ListParams{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, client.Calls())
}

func TestService_GetList_LogsFailure(t *testing.T) {
	logger := new(MockLogger)
	logger.On("Warn", "Provider request failed, retrying", mock.Anything).Return()
	logger.On("Error", "News list fetch failed", mock.MatchedBy(func(f map[string]interface{}) bool {
		return f["category"] == "top" && f["page"] == 1
	})).Return()

	client := &mockHTTPClient{
		getFunc: func(_ context.Context, path string, _ url.Values) (interfaces.Response, error) {
			return nil, coreerrors.NewHTTPStatusError(500, path)
		},
	}
	deps := interfaces.Dependencies{Cache: memory.NewMemoryCache(), HTTPClient: client, Logger: logger}
	svc := NewService(deps, nil, Options{Retry: retry.Policy{MaxRetries: 1, BaseDelay: time.Millisecond, Sleep: (&sleepRecorder{}).Sleep}})

	_, err := svc.GetList(context.Background(), interfaces.ListParams{})
	require.Error(t, err)

	logger.AssertNumberOfCalls(t, "Warn", 1)
	logger.AssertNumberOfCalls(t, "Error", 1)
}

func TestService_ClearCache(t *testing.T) {
	client := &mockHTTPClient{getFunc: pagedPosts(50, defaultTitle)}
	svc := newTestService(client, nil)
	ctx := context.Background()

	for _, cat := range []string{"top", "keji", "tiyu"} {
		_, err := svc.GetList(ctx, interfaces.ListParams{Category: cat, PageSize: 5})
		require.NoError(t, err)
	}

	stats, err := svc.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)

	require.NoError(t, svc.ClearCache(ctx, "keji"))
	stats, err = svc.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	for _, key := range stats.Keys {
		assert.NotContains(t, key, "type=keji")
	}

	require.NoError(t, svc.ClearCache(ctx, ""))
	stats, err = svc.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
	assert.NotNil(t, stats.Keys)
}

func TestService_GetDetail(t *testing.T) {
	client := &mockHTTPClient{
		getFunc: func(_ context.Context, path string, _ url.Values) (interfaces.Response, error) {
			if path != "/posts/3" {
				return nil, coreerrors.NewHTTPStatusError(404, path)
			}
			return &mockResponse{statusCode: 200, body: `{"id":3,"userId":1,"title":"third","body":"<p>hello</p>"}`}, nil
		},
	}
	svc := newTestService(client, nil)
	ctx := context.Background()

	article, err := svc.GetDetail(ctx, "news_3_keji")
	require.NoError(t, err)
	assert.Equal(t, "news_3_keji", article.ID)
	assert.Equal(t, "third", article.Title)
	assert.Equal(t, "科技", article.Category)
	assert.Equal(t, "hello", article.BodyPreview)

	_, err = svc.GetDetail(ctx, "news_3_keji")
	require.NoError(t, err)
	assert.Equal(t, 1, client.Calls(), "second lookup should come from cache")
}

func TestService_GetDetail_InvalidIDs(t *testing.T) {
	client := &mockHTTPClient{}
	svc := newTestService(client, nil)
	ctx := context.Background()

	_, err := svc.GetDetail(ctx, "  ")
	assert.True(t, coreerrors.IsValidation(err))

	for _, id := range []string{"abc", "news_", "news_x_keji", "news_3"} {
		_, err := svc.GetDetail(ctx, id)
		assert.True(t, coreerrors.IsNotFound(err), "id %q", id)
	}
	assert.Equal(t, 0, client.Calls())
}
