package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"newshub-core/newshub"
	"newshub-core/pkg/config"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// providerServer is a json-server style /posts endpoint
type providerServer struct {
	*httptest.Server
	total  int
	status atomic.Int32
	mu     sync.Mutex
	paths  []string
}

func newProviderServer(t *testing.T, total int) *providerServer {
	p := &providerServer{total: total}
	p.Server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.Close)
	return p
}

func (p *providerServer) serve(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.paths = append(p.paths, r.URL.Path)
	p.mu.Unlock()

	if code := p.status.Load(); code != 0 {
		w.WriteHeader(int(code))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if id, ok := strings.CutPrefix(r.URL.Path, "/posts/"); ok {
		n, _ := strconv.Atoi(id)
		if n < 1 || n > p.total {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{}`))
			return
		}
		json.NewEncoder(w).Encode(post(n))
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("_page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("_limit"))
	posts := []map[string]interface{}{}
	for id := (page-1)*limit + 1; id <= page*limit && id <= p.total; id++ {
		posts = append(posts, post(id))
	}
	json.NewEncoder(w).Encode(posts)
}

func (p *providerServer) Requests() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.paths)
}

func post(id int) map[string]interface{} {
	title := fmt.Sprintf("post %d", id)
	if id%25 == 0 {
		title = fmt.Sprintf("Golang weekly %d", id)
	}
	return map[string]interface{}{"id": id, "userId": 1, "title": title, "body": "<p>body</p>"}
}

type testEnv struct {
	handler  http.Handler
	client   *newshub.Client
	provider *providerServer
}

func newTestEnv(t *testing.T, total int) *testEnv {
	provider := newProviderServer(t, total)
	httpClient := newshub.HTTPClientFromConfig(config.APIConfig{BaseURL: provider.URL, TimeoutMS: 2000}, newshub.QuietLogger())

	client, err := newshub.NewClient(
		newshub.WithQuietMode(),
		newshub.WithHTTPClient(httpClient),
		newshub.WithRetry(0, time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("test", "1.0.0"))
	NewNewsHandler(client.Session(), client.News()).RegisterRoutes(api)
	NewLibraryHandler(client.Session()).RegisterRoutes(api)
	NewCacheHandler(client.News(), client).RegisterRoutes(api)

	return &testEnv{handler: router, client: client, provider: provider}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
