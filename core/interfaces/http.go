package interfaces

import (
	"context"
	"io"
	"net/url"
)

// HTTPClient defines the interface for making HTTP requests against the news provider.
// Implementations own the base URL, timeouts and status classification so callers
// only ever see a successful response or a classified error.
type HTTPClient interface {
	// Get performs an HTTP GET request to path with the given query parameters.
	// path may be absolute or relative to the client's base URL.
	Get(ctx context.Context, path string, query url.Values) (Response, error)

	// Post performs an HTTP POST request to path with a JSON body.
	// The response body should be closed by the caller after use.
	Post(ctx context.Context, path string, body io.Reader) (Response, error)
}

// Response defines the interface for HTTP responses.
// This abstraction allows different HTTP client implementations to provide
// their own response types while maintaining a consistent interface.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body as an io.ReadCloser.
	// The caller is responsible for closing the body when done.
	Body() io.ReadCloser

	// Header returns the value of the specified header.
	// Returns an empty string if the header is not present.
	// Header names are case-insensitive.
	Header(key string) string
}
