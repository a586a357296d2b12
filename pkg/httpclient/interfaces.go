package httpclient

import "context"

// Response exposes the parts of an HTTP response the fetch path inspects.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client issues GET requests. Implementations must not retry on their own.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// IsSuccess reports whether code is in the 200-299 range.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}
