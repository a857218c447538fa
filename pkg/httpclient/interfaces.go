package httpclient

import "context"

// Response is the minimal response surface callers need.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts the HTTP transport so callers can swap in stubs or a
// differently tuned client.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
