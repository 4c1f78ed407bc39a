package integrations

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"

	"github.com/matzehuels/stayscout/pkg/cache"
	"github.com/matzehuels/stayscout/pkg/errors"
	"github.com/matzehuels/stayscout/pkg/httputil"
	"github.com/matzehuels/stayscout/pkg/listing"
	"github.com/matzehuels/stayscout/pkg/observability"
	"github.com/matzehuels/stayscout/pkg/ratelimit"
)

// Client provides shared HTTP functionality for the source clients: the
// transport, a rate limiter owned by this client alone, a response cache
// and per-operation lifetimes.
type Client struct {
	Name    string
	HTTP    *resty.Client
	Limiter *ratelimit.Limiter
	Cache   cache.Cache
	TTL     TTLs
	Logger  *log.Logger
}

// ClientOptions configures [NewClient].
type ClientOptions struct {
	Name              string        // Source name, see SourceStructured and SourceDocument
	BaseURL           string        // Upstream origin
	UserAgent         string        // Sent on every request
	Timeout           time.Duration // Per-attempt timeout
	RequestsPerSecond float64       // Outbound pacing; <= 0 disables it
	Cache             cache.Cache   // nil disables caching
	TTL               TTLs          // Per-operation lifetimes
	Logger            *log.Logger   // nil means a warn-level default logger
	Headers           map[string]string
}

// NewClient creates a Client from opts.
func NewClient(opts ClientOptions) *Client {
	c := opts.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		Name: opts.Name,
		HTTP: httputil.NewClient(httputil.Options{
			BaseURL:   opts.BaseURL,
			UserAgent: opts.UserAgent,
			Timeout:   opts.Timeout,
			Headers:   opts.Headers,
		}),
		Limiter: ratelimit.New(opts.RequestsPerSecond),
		Cache:   c,
		TTL:     opts.TTL,
		Logger:  DefaultLogger(opts.Logger),
	}
}

// DefaultLogger returns l, or a warn-level logger on stderr when l is nil.
func DefaultLogger(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	l = log.Default().With()
	l.SetLevel(log.WarnLevel)
	return l
}

// Cached retrieves the record for req from cache or executes fetch and
// caches its result. Cache failures are logged and otherwise ignored: the
// cache never turns a successful fetch into an error.
func Cached[T any](ctx context.Context, c *Client, req listing.Request, fetch func() (*T, error)) (*T, error) {
	key := req.Key()
	kind := string(req.Op)

	var rec T
	ok, err := cache.GetJSON(ctx, c.Cache, key, &rec)
	if err != nil {
		c.Logger.Warn("cache read failed", "source", c.Name, "key", key, "err", err)
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, kind)
		c.Logger.Debug("cache hit", "source", c.Name, "key", key)
		return &rec, nil
	}
	observability.Cache().OnCacheMiss(ctx, kind)

	start := time.Now()
	observability.Fetch().OnFetchStart(ctx, kind, c.Name)
	out, err := fetch()
	observability.Fetch().OnFetchComplete(ctx, kind, c.Name, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("fetched", "source", c.Name, "op", kind, "id", req.Subject(), "took", time.Since(start).Round(time.Millisecond))

	n, err := cache.SetJSON(ctx, c.Cache, key, out, c.TTL.For(req.Op))
	if err != nil {
		c.Logger.Warn("cache write failed", "source", c.Name, "key", key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, kind, n)
	}
	return out, nil
}

// CheckStatus maps a non-2xx response onto the error taxonomy.
//
//   - 404: NOT_FOUND
//   - 429: RATE_LIMITED with the Retry-After hint
//   - 401, 403: AUTH_ERROR
//   - 5xx: TRANSPORT_ERROR, marked retryable
//   - anything else: PARSE_ERROR
func CheckStatus(res *resty.Response, op listing.Op, id string) error {
	code := res.StatusCode()
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.NotFound(string(op), id)
	case code == http.StatusTooManyRequests:
		return errors.RateLimited(string(op), id, RetryAfter(res.Header().Get("Retry-After"), time.Now()))
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.At(errors.Auth(string(op), fmt.Errorf("upstream status %d", code)), string(op), id)
	case code >= 500:
		return &httputil.RetryableError{Err: errors.Transport(string(op), id, fmt.Errorf("upstream status %d", code))}
	default:
		return errors.Parse(string(op), id, "malformed response: HTTP status %d", code)
	}
}

// RetryAfter parses a Retry-After header given either as delay seconds or
// as an HTTP date. Unparseable or past values yield zero.
func RetryAfter(header string, now time.Time) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := at.Sub(now); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}

// TransportError wraps a failed round trip.
func TransportError(op listing.Op, id string, err error) error {
	return errors.Transport(string(op), id, err)
}
