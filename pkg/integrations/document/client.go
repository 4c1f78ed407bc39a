package document

import (
	"context"
	goerrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stayscout/pkg/cache"
	"github.com/matzehuels/stayscout/pkg/extract"
	"github.com/matzehuels/stayscout/pkg/httputil"
	"github.com/matzehuels/stayscout/pkg/integrations"
	"github.com/matzehuels/stayscout/pkg/listing"
	"github.com/matzehuels/stayscout/pkg/observability"
)

// Retry defaults used by the configuration layer.
const (
	DefaultMaxRetries     = 2
	DefaultBaseRetryDelay = time.Second
)

// Options configures [NewClient].
type Options struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration // per attempt
	RequestsPerSecond float64
	MaxRetries        int           // retries after the first attempt
	BaseRetryDelay    time.Duration // retry n waits n*BaseRetryDelay
	RetryOnThrottle   bool          // retry 429 like a 5xx
	Cache             cache.Cache
	TTL               integrations.TTLs
	Logger            *log.Logger
}

// Client fetches and extracts listing pages. It is safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL         string
	maxRetries      int
	baseDelay       time.Duration
	retryOnThrottle bool
}

var _ integrations.Source = (*Client)(nil)

// NewClient creates a document-source client.
func NewClient(opts Options) *Client {
	return &Client{
		Client: integrations.NewClient(integrations.ClientOptions{
			Name:              integrations.SourceDocument,
			BaseURL:           opts.BaseURL,
			UserAgent:         opts.UserAgent,
			Timeout:           opts.Timeout,
			RequestsPerSecond: opts.RequestsPerSecond,
			Cache:             opts.Cache,
			TTL:               opts.TTL,
			Logger:            opts.Logger,
			Headers: map[string]string{
				"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			},
		}),
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		maxRetries:      max(opts.MaxRetries, 0),
		baseDelay:       max(opts.BaseRetryDelay, 0),
		retryOnThrottle: opts.RetryOnThrottle,
	}
}

// Search scrapes a search results page.
func (c *Client) Search(ctx context.Context, p listing.SearchParams) (*listing.SearchResult, error) {
	req := listing.SearchRequest(p)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return integrations.Cached(ctx, c.Client, req, func() (*listing.SearchResult, error) {
		slug := strings.ReplaceAll(strings.TrimSpace(p.Location), " ", "-")
		raw, err := c.fetch(ctx, req, "/s/"+url.PathEscape(slug)+"/homes", p.QueryPairs())
		if err != nil {
			return nil, err
		}
		res, out, err := extract.Search(raw, c.baseURL, p.Location)
		c.extracted(ctx, req, out)
		return res, err
	})
}

// Detail scrapes a listing page.
func (c *Client) Detail(ctx context.Context, id string) (*listing.ListingDetail, error) {
	req := listing.DetailRequest(id)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return integrations.Cached(ctx, c.Client, req, func() (*listing.ListingDetail, error) {
		raw, err := c.fetch(ctx, req, "/rooms/"+id, nil)
		if err != nil {
			return nil, err
		}
		d, out, err := extract.Detail(raw, c.baseURL, id)
		c.extracted(ctx, req, out)
		return d, err
	})
}

// Reviews scrapes the reviews embedded in the listing page. cursor is
// passed through as review_cursor; empty means the first page.
func (c *Client) Reviews(ctx context.Context, id, cursor string) (*listing.ReviewsPage, error) {
	req := listing.ReviewsRequest(id, cursor)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return integrations.Cached(ctx, c.Client, req, func() (*listing.ReviewsPage, error) {
		var q url.Values
		if cursor != "" {
			q = url.Values{"review_cursor": {cursor}}
		}
		raw, err := c.fetch(ctx, req, "/rooms/"+id, q)
		if err != nil {
			return nil, err
		}
		page, out, err := extract.Reviews(raw, id)
		c.extracted(ctx, req, out)
		return page, err
	})
}

// Calendar scrapes the availability calendar of a listing page.
func (c *Client) Calendar(ctx context.Context, id string, months int) (*listing.PriceCalendar, error) {
	req := listing.CalendarRequest(id, months)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return integrations.Cached(ctx, c.Client, req, func() (*listing.PriceCalendar, error) {
		q := url.Values{"calendar_months": {strconv.Itoa(req.Months)}}
		raw, err := c.fetch(ctx, req, "/rooms/"+id, q)
		if err != nil {
			return nil, err
		}
		cal, out, err := extract.Calendar(raw, id)
		c.extracted(ctx, req, out)
		return cal, err
	})
}

// Host scrapes the host card of a listing page.
func (c *Client) Host(ctx context.Context, id string) (*listing.HostProfile, error) {
	req := listing.HostRequest(id)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return integrations.Cached(ctx, c.Client, req, func() (*listing.HostProfile, error) {
		raw, err := c.fetch(ctx, req, "/rooms/"+id, nil)
		if err != nil {
			return nil, err
		}
		h, out, err := extract.Host(raw, id)
		c.extracted(ctx, req, out)
		return h, err
	})
}

// NeighborhoodStats aggregates a scraped search page.
func (c *Client) NeighborhoodStats(ctx context.Context, p listing.SearchParams) (*listing.NeighborhoodStats, error) {
	return integrations.NeighborhoodStats(ctx, c.Search, p)
}

// Occupancy derives an occupancy estimate from a scraped calendar.
func (c *Client) Occupancy(ctx context.Context, id string, months int) (*listing.OccupancyEstimate, error) {
	return integrations.Occupancy(ctx, c.Calendar, id, months)
}

// fetch GETs path with retries and returns the body.
func (c *Client) fetch(ctx context.Context, req listing.Request, path string, query url.Values) ([]byte, error) {
	op, id := req.Op, req.Subject()
	var body []byte

	err := httputil.Retry(ctx, c.maxRetries+1, c.baseDelay, func(attempt int) error {
		if attempt > 0 {
			c.Logger.Debug("retrying", "op", op, "id", id, "attempt", attempt+1)
		}
		if err := c.Limiter.Acquire(ctx); err != nil {
			return err
		}
		r := c.HTTP.R().SetContext(ctx)
		if len(query) > 0 {
			r.SetQueryParamsFromValues(query)
		}
		res, err := r.Get(path)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return integrations.TransportError(op, id, err)
		}
		if err := integrations.CheckStatus(res, op, id); err != nil {
			if c.retryOnThrottle && res.StatusCode() == http.StatusTooManyRequests {
				return &httputil.RetryableError{Err: err}
			}
			return err
		}
		body = res.Body()
		return nil
	})
	if err != nil {
		var re *httputil.RetryableError
		if goerrors.As(err, &re) {
			err = re.Err
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) extracted(ctx context.Context, req listing.Request, out extract.Outcome) {
	if out.Tier == "" {
		c.Logger.Debug("extraction failed", "op", req.Op, "id", req.Subject(), "reason", out.Reason)
		return
	}
	observability.Fetch().OnExtract(ctx, string(req.Op), string(out.Tier))
	c.Logger.Debug("extracted", "op", req.Op, "id", req.Subject(), "tier", out.Tier, "reason", out.Reason)
}
