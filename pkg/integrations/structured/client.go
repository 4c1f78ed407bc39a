package structured

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/stayscout/pkg/cache"
	"github.com/matzehuels/stayscout/pkg/credential"
	"github.com/matzehuels/stayscout/pkg/errors"
	"github.com/matzehuels/stayscout/pkg/extract"
	"github.com/matzehuels/stayscout/pkg/integrations"
	"github.com/matzehuels/stayscout/pkg/listing"
)

// Namespace prefixes every cache key written by this source.
const Namespace = "structured:"

// APIKeyHeader carries the credential on every query.
const APIKeyHeader = "X-Airbnb-Api-Key"

// Options configures [NewClient].
type Options struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	CredentialTTL     time.Duration
	Hashes            Hashes
	Cache             cache.Cache // shared cache; keys are namespaced here
	TTL               integrations.TTLs
	Logger            *log.Logger
}

// Client queries the persisted-query endpoint. It is safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	hashes  Hashes
	creds   *credential.Manager
	now     func() time.Time
}

var _ integrations.Source = (*Client)(nil)

// NewClient creates a structured-source client.
func NewClient(opts Options) *Client {
	base := integrations.NewClient(integrations.ClientOptions{
		Name:              integrations.SourceStructured,
		BaseURL:           opts.BaseURL,
		UserAgent:         opts.UserAgent,
		Timeout:           opts.Timeout,
		RequestsPerSecond: opts.RequestsPerSecond,
		Cache:             cache.Namespace(Namespace, opts.Cache),
		TTL:               opts.TTL,
		Logger:            opts.Logger,
	})
	hashes := opts.Hashes
	if hashes == (Hashes{}) {
		hashes = DefaultHashes()
	}
	return &Client{
		Client:  base,
		baseURL: opts.BaseURL,
		hashes:  hashes,
		creds:   credential.NewManager(base.HTTP, opts.BaseURL, opts.CredentialTTL, base.Logger),
		now:     time.Now,
	}
}

// Search runs a StaysSearch query.
func (c *Client) Search(ctx context.Context, p listing.SearchParams) (*listing.SearchResult, error) {
	req := listing.SearchRequest(p)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return integrations.Cached(ctx, c.Client, req, func() (*listing.SearchResult, error) {
		root, err := c.query(ctx, req, opStaysSearch, c.hashes.StaysSearch, searchVariables(p), http.MethodPost)
		if err != nil {
			return nil, err
		}
		res, ok := extract.SearchJSON(root, c.baseURL)
		if !ok {
			return nil, unrecognized(req, opStaysSearch)
		}
		return res, nil
	})
}

// Detail runs a StaysPdpSections query for the listing.
func (c *Client) Detail(ctx context.Context, id string) (*listing.ListingDetail, error) {
	req := listing.DetailRequest(id)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return integrations.Cached(ctx, c.Client, req, func() (*listing.ListingDetail, error) {
		root, err := c.query(ctx, req, opStaysPdpSections, c.hashes.StaysPdpSections, sectionsVariables(id), http.MethodGet)
		if err != nil {
			return nil, err
		}
		d, ok := extract.DetailFromSections(root, c.baseURL, id)
		if !ok {
			return nil, unrecognized(req, opStaysPdpSections)
		}
		return d, nil
	})
}

// Reviews fetches one page of reviews. The cursor is the offset returned as
// NextCursor by the previous page; empty means the first page.
func (c *Client) Reviews(ctx context.Context, id, cursor string) (*listing.ReviewsPage, error) {
	req := listing.ReviewsRequest(id, cursor)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 {
			return nil, errors.Validation(string(listing.OpReviews), "cursor %q is not a review offset", cursor)
		}
		offset = n
	}
	return integrations.Cached(ctx, c.Client, req, func() (*listing.ReviewsPage, error) {
		root, err := c.query(ctx, req, opStaysPdpReviews, c.hashes.StaysPdpReviews, reviewsVariables(id, offset), http.MethodGet)
		if err != nil {
			return nil, err
		}
		page, ok := extract.ReviewsJSON(root, id)
		if !ok {
			return nil, unrecognized(req, opStaysPdpReviews)
		}
		return page, nil
	})
}

// Calendar fetches months of availability starting with the current month.
func (c *Client) Calendar(ctx context.Context, id string, months int) (*listing.PriceCalendar, error) {
	req := listing.CalendarRequest(id, months)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return integrations.Cached(ctx, c.Client, req, func() (*listing.PriceCalendar, error) {
		vars := calendarVariables(id, req.Months, c.now())
		root, err := c.query(ctx, req, opCalendar, c.hashes.PdpAvailabilityCalendar, vars, http.MethodGet)
		if err != nil {
			return nil, err
		}
		cal, ok := extract.CalendarJSON(root, id)
		if !ok {
			return nil, unrecognized(req, opCalendar)
		}
		return cal, nil
	})
}

// Host reads the host card of the listing's PDP sections. The dedicated
// profile query needs a user id, which a listing id does not give us.
func (c *Client) Host(ctx context.Context, id string) (*listing.HostProfile, error) {
	req := listing.HostRequest(id)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return integrations.Cached(ctx, c.Client, req, func() (*listing.HostProfile, error) {
		root, err := c.query(ctx, req, opStaysPdpSections, c.hashes.StaysPdpSections, sectionsVariables(id), http.MethodGet)
		if err != nil {
			return nil, err
		}
		h, ok := extract.HostJSON(root)
		if !ok {
			return nil, unrecognized(req, opStaysPdpSections)
		}
		return h, nil
	})
}

// NeighborhoodStats aggregates a search page fetched through this client.
func (c *Client) NeighborhoodStats(ctx context.Context, p listing.SearchParams) (*listing.NeighborhoodStats, error) {
	return integrations.NeighborhoodStats(ctx, c.Search, p)
}

// Occupancy derives an occupancy estimate from a calendar fetched through this client.
func (c *Client) Occupancy(ctx context.Context, id string, months int) (*listing.OccupancyEstimate, error) {
	return integrations.Occupancy(ctx, c.Calendar, id, months)
}

// query issues one persisted query and returns the parsed body.
func (c *Client) query(ctx context.Context, req listing.Request, name, hash string, variables any, method string) (gjson.Result, error) {
	op, id := req.Op, req.Subject()

	if err := c.Limiter.Acquire(ctx); err != nil {
		return gjson.Result{}, err
	}
	token, err := c.creds.Token(ctx)
	if err != nil {
		return gjson.Result{}, errors.At(err, string(op), id)
	}

	extensions := map[string]any{
		"persistedQuery": map[string]any{"version": 1, "sha256Hash": hash},
	}
	r := c.HTTP.R().
		SetContext(ctx).
		SetHeader(APIKeyHeader, token).
		SetQueryParams(map[string]string{
			"operationName": name,
			"locale":        "en",
			"currency":      "USD",
		})

	if method == http.MethodPost {
		r.SetHeader("Content-Type", "application/json").SetBody(map[string]any{
			"operationName": name,
			"variables":     variables,
			"extensions":    extensions,
		})
	} else {
		vars, err := json.Marshal(variables)
		if err != nil {
			return gjson.Result{}, errors.Wrap(errors.ErrCodeInternal, err, "encode %s variables", name)
		}
		ext, _ := json.Marshal(extensions)
		r.SetQueryParam("variables", string(vars)).SetQueryParam("extensions", string(ext))
	}

	res, err := r.Execute(method, "/api/v3/"+name+"/"+hash+"/")
	if err != nil {
		return gjson.Result{}, integrations.TransportError(op, id, err)
	}
	if code := res.StatusCode(); code == http.StatusUnauthorized || code == http.StatusForbidden {
		c.creds.Invalidate()
	}
	if err := integrations.CheckStatus(res, op, id); err != nil {
		return gjson.Result{}, err
	}

	body := res.Body()
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.Parse(string(op), id, "malformed response: %s body is not JSON (%d bytes)", name, len(body))
	}
	root := gjson.ParseBytes(body)
	if errs := root.Get("errors"); errs.IsArray() && !root.Get("data").IsObject() {
		return gjson.Result{}, errors.Parse(string(op), id, "%s returned %d errors and no data", name, len(errs.Array()))
	}
	return root, nil
}

func unrecognized(req listing.Request, name string) error {
	return errors.Parse(string(req.Op), req.Subject(), "unrecognized %s response shape", name)
}
