package httputil

import (
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/matzehuels/stayscout/pkg/observability"
)

// DefaultTimeout is the per-attempt timeout used when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Options configures [NewClient].
type Options struct {
	BaseURL   string            // Prepended to relative request URLs
	UserAgent string            // Sent on every request when non-empty
	Timeout   time.Duration     // Per-attempt timeout; zero means DefaultTimeout
	Headers   map[string]string // Extra default headers
}

// NewClient returns a resty client with the shared defaults and the
// observability HTTP hooks attached. resty's own retry is left disabled;
// callers decide retry policy with [Retry].
func NewClient(opts Options) *resty.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept-Language", "en-US,en;q=0.9")
	if opts.BaseURL != "" {
		client.SetBaseURL(opts.BaseURL)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	for k, v := range opts.Headers {
		client.SetHeader(k, v)
	}

	instrument(client)
	return client
}

func instrument(client *resty.Client) {
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		host, path := target(req)
		observability.HTTP().OnRequest(req.Context(), req.Method, host, path)
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		req := res.Request
		host, path := target(req)
		observability.HTTP().OnResponse(req.Context(), req.Method, host, path, res.StatusCode(), res.Time())
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		host, path := target(req)
		observability.HTTP().OnError(req.Context(), req.Method, host, path, err)
	})
}

// target returns host and path of the outgoing request. RawRequest is only
// populated once resty has built it, so the configured URL is the fallback.
func target(req *resty.Request) (host, path string) {
	if req.RawRequest != nil && req.RawRequest.URL != nil {
		return req.RawRequest.URL.Host, req.RawRequest.URL.Path
	}
	return "", req.URL
}
