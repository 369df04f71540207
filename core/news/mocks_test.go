package news

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
	"newshub-core/infrastructure/cache/memory"

	"github.com/stretchr/testify/mock"
)

// mockHTTPClient is a mock implementation of the HTTPClient interface
type mockHTTPClient struct {
	mu       sync.Mutex
	calls    int
	paths    []string
	queries  []url.Values
	getFunc  func(ctx context.Context, path string, query url.Values) (interfaces.Response, error)
	postFunc func(ctx context.Context, path string, body io.Reader) (interfaces.Response, error)
}

func (m *mockHTTPClient) Get(ctx context.Context, path string, query url.Values) (interfaces.Response, error) {
	m.mu.Lock()
	m.calls++
	m.paths = append(m.paths, path)
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.getFunc != nil {
		return m.getFunc(ctx, path, query)
	}
	return nil, nil
}

func (m *mockHTTPClient) Post(ctx context.Context, path string, body io.Reader) (interfaces.Response, error) {
	if m.postFunc != nil {
		return m.postFunc(ctx, path, body)
	}
	return nil, nil
}

func (m *mockHTTPClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockHTTPClient) LastQuery() url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queries) == 0 {
		return nil
	}
	return m.queries[len(m.queries)-1]
}

// mockResponse is a mock implementation of the Response interface
type mockResponse struct {
	statusCode int
	body       string
	headers    map[string]string
}

func (m *mockResponse) StatusCode() int {
	return m.statusCode
}

func (m *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(strings.NewReader(m.body))
}

func (m *mockResponse) Header(key string) string {
	if m.headers != nil {
		return m.headers[key]
	}
	return ""
}

// MockLogger is a testify mock of the Logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func testDeps() interfaces.Dependencies {
	return interfaces.Dependencies{
		Cache:      memory.NewMemoryCache(),
		HTTPClient: &mockHTTPClient{},
		Logger:     interfaces.NopLogger{},
	}
}

type testPost struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// postsJSON renders posts first..first+n-1 titled by title
func postsJSON(first, n int, title func(id int) string) string {
	posts := make([]testPost, 0, n)
	for id := first; id < first+n; id++ {
		posts = append(posts, testPost{
			ID:     id,
			UserID: id%10 + 1,
			Title:  title(id),
			Body:   fmt.Sprintf("body of post %d", id),
		})
	}
	data, _ := json.Marshal(posts)
	return string(data)
}

func defaultTitle(id int) string {
	return fmt.Sprintf("post %d", id)
}

// pagedPosts serves a json-server style paginated collection of total posts
func pagedPosts(total int, title func(id int) string) func(context.Context, string, url.Values) (interfaces.Response, error) {
	return func(_ context.Context, _ string, query url.Values) (interfaces.Response, error) {
		page, _ := strconv.Atoi(query.Get("_page"))
		limit, _ := strconv.Atoi(query.Get("_limit"))
		first := (page-1)*limit + 1
		n := limit
		if first > total {
			n = 0
		} else if first+n-1 > total {
			n = total - first + 1
		}
		return &mockResponse{statusCode: 200, body: postsJSON(first, n, title)}, nil
	}
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) Sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}
