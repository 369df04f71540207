// ABOUTME: Provider HTTP client with per-request timeout, cache-busting and status classification
// ABOUTME: Every failure leaves this package as one of the core/errors transport types

package standard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	coreerrors "newshub-core/core/errors"
	"newshub-core/core/interfaces"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds every request
	DefaultTimeout = 10 * time.Second

	// CacheBustParam is stamped on every GET so intermediaries never serve a stale copy
	CacheBustParam = "_t"

	userAgent   = "NewsHub/1.0"
	maxBodySize = 10 << 20
)

// Options configures a Client
type Options struct {
	// BaseURL is prefixed to relative paths
	BaseURL string

	// Timeout is the fixed per-request deadline; zero means DefaultTimeout
	Timeout time.Duration

	// Limiter throttles outgoing requests when set
	Limiter *rate.Limiter

	// Transport overrides the round tripper
	Transport http.RoundTripper

	// Logger receives one debug line per request
	Logger interfaces.Logger

	// Now supplies the cache-busting timestamp
	Now func() time.Time
}

// StandardHTTPClient implements the HTTPClient interface using net/http
type StandardHTTPClient struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	logger  interfaces.Logger
	now     func() time.Time
}

// NewStandardHTTPClient creates a client with the given timeout and no base URL
func NewStandardHTTPClient(timeout time.Duration) *StandardHTTPClient {
	return NewClient(Options{Timeout: timeout})
}

// NewClient creates a provider client from options
func NewClient(opts Options) *StandardHTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = interfaces.NopLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &StandardHTTPClient{
		client:  &http.Client{Transport: opts.Transport},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		limiter: opts.Limiter,
		logger:  opts.Logger,
		now:     opts.Now,
	}
}

// Get performs a cache-busted GET and classifies the outcome
func (c *StandardHTTPClient) Get(ctx context.Context, path string, query url.Values) (interfaces.Response, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set(CacheBustParam, strconv.FormatInt(c.now().UnixMilli(), 10))

	return c.do(ctx, http.MethodGet, c.resolve(path, q), nil)
}

// Post performs a JSON POST and classifies the outcome
func (c *StandardHTTPClient) Post(ctx context.Context, path string, body io.Reader) (interfaces.Response, error) {
	return c.do(ctx, http.MethodPost, c.resolve(path, nil), body)
}

func (c *StandardHTTPClient) resolve(path string, query url.Values) string {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	if len(query) == 0 {
		return target
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + query.Encode()
}

func (c *StandardHTTPClient) do(ctx context.Context, method, target string, body io.Reader) (interfaces.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &coreerrors.CancelledError{Err: err}
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, target, body)
	if err != nil {
		return nil, &coreerrors.NetworkError{URL: target, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, application/rss+xml, application/atom+xml;q=0.9, */*;q=0.8")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.classify(ctx, reqCtx, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, c.classify(ctx, reqCtx, target, err)
	}

	c.logger.Debug("Provider request completed", map[string]interface{}{
		"method":      method,
		"url":         target,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, coreerrors.NewHTTPStatusError(resp.StatusCode, target)
	}

	if err := checkEnvelope(req.URL.Host, resp.Header.Get("Content-Type"), data); err != nil {
		return nil, err
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       io.NopCloser(bytes.NewReader(data)),
		headers:    resp.Header,
	}, nil
}

// classify maps a transport failure onto the error taxonomy.
// Caller cancellation wins over the per-request deadline.
func (c *StandardHTTPClient) classify(parent, reqCtx context.Context, target string, err error) error {
	if parent.Err() != nil {
		return &coreerrors.CancelledError{Err: parent.Err()}
	}
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &coreerrors.TimeoutError{URL: target, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &coreerrors.TimeoutError{URL: target, Err: err}
	}
	return &coreerrors.NetworkError{URL: target, Err: err}
}

// envelope is the wrapper some providers put around every payload
type envelope struct {
	ErrorCode *int   `json:"error_code"`
	Reason    string `json:"reason"`
}

// checkEnvelope turns a 2xx response carrying a non-zero error_code into an ExternalAPIError
func checkEnvelope(host, contentType string, data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	if contentType != "" && !strings.Contains(contentType, "json") {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil || env.ErrorCode == nil || *env.ErrorCode == 0 {
		return nil
	}

	msg := env.Reason
	if msg == "" {
		msg = coreerrors.MsgAPIError
	}
	return &coreerrors.ExternalAPIError{
		StatusCode: *env.ErrorCode,
		Message:    msg,
		API:        host,
	}
}

// httpResponse implements the Response interface over a fully read body
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
