package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"newshub-core/core/interfaces"
	"newshub-core/core/news"
	"newshub-core/infrastructure/cache/memory"
	"newshub-core/pkg/kvstore"
	"newshub-core/pkg/retry"
)

// mockProvider serves json-server style pages and records every request
type mockProvider struct {
	mu    sync.Mutex
	total int
	title func(id int) string
	fail  error
	pages []int
}

func (m *mockProvider) Get(_ context.Context, _ string, query url.Values) (interfaces.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	page, _ := strconv.Atoi(query.Get("_page"))
	limit, _ := strconv.Atoi(query.Get("_limit"))
	m.pages = append(m.pages, page)
	if m.fail != nil {
		return nil, m.fail
	}

	type post struct {
		ID     int    `json:"id"`
		UserID int    `json:"userId"`
		Title  string `json:"title"`
		Body   string `json:"body"`
	}
	posts := []post{}
	for id := (page-1)*limit + 1; id <= page*limit && id <= m.total; id++ {
		title := fmt.Sprintf("post %d", id)
		if m.title != nil {
			title = m.title(id)
		}
		posts = append(posts, post{ID: id, UserID: 1, Title: title, Body: "body"})
	}
	data, _ := json.Marshal(posts)
	return &mockResponse{body: string(data)}, nil
}

func (m *mockProvider) Post(context.Context, string, io.Reader) (interfaces.Response, error) {
	return nil, nil
}

func (m *mockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pages)
}

func (m *mockProvider) Pages() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.pages))
	copy(out, m.pages)
	return out
}

func (m *mockProvider) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

type mockResponse struct {
	body string
}

func (m *mockResponse) StatusCode() int      { return 200 }
func (m *mockResponse) Body() io.ReadCloser  { return io.NopCloser(strings.NewReader(m.body)) }
func (m *mockResponse) Header(string) string { return "" }

type fixture struct {
	provider *mockProvider
	storage  *kvstore.Store
	session  *Session
}

func newFixture(total int) *fixture {
	provider := &mockProvider{total: total}
	storage := kvstore.New(memory.NewMemoryCache(), nil)
	return newFixtureWith(provider, storage)
}

func newFixtureWith(provider *mockProvider, storage *kvstore.Store) *fixture {
	deps := interfaces.Dependencies{
		Cache:      memory.NewMemoryCache(),
		HTTPClient: provider,
		Logger:     interfaces.NopLogger{},
	}
	svc := news.NewService(deps, nil, news.Options{
		Retry: retry.Policy{
			MaxRetries: 2,
			BaseDelay:  time.Second,
			Sleep:      func(context.Context, time.Duration) error { return nil },
		},
	})
	sess := New(context.Background(), Dependencies{News: svc, Storage: storage}, Options{PageSize: 20})
	return &fixture{provider: provider, storage: storage, session: sess}
}
