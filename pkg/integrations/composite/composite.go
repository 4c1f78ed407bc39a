// Package composite combines the structured and document sources.
//
// Every operation asks the structured source first and falls back to the
// document source when it fails. Detail and reviews additionally consult
// the document source when the structured record is incomplete and merge
// the two, never overwriting a structured value.
package composite

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stayscout/pkg/errors"
	"github.com/matzehuels/stayscout/pkg/integrations"
	"github.com/matzehuels/stayscout/pkg/listing"
	"github.com/matzehuels/stayscout/pkg/observability"
)

// Client is a [integrations.Source] backed by two sources.
type Client struct {
	structured integrations.Source
	document   integrations.Source
	logger     *log.Logger
}

var _ integrations.Source = (*Client)(nil)

// New creates a composite client. A nil structured source makes the client
// document-only; pass an untyped nil, not a nil pointer.
func New(structured, document integrations.Source, logger *log.Logger) *Client {
	return &Client{
		structured: structured,
		document:   document,
		logger:     integrations.DefaultLogger(logger),
	}
}

// Search returns a search page.
func (c *Client) Search(ctx context.Context, p listing.SearchParams) (*listing.SearchResult, error) {
	res, _, err := withFallback(ctx, c, listing.OpSearch,
		func(s integrations.Source) (*listing.SearchResult, error) { return s.Search(ctx, p) })
	return res, err
}

// Detail returns a listing record. An incomplete structured record is
// completed from the listing page when that page can be fetched.
func (c *Client) Detail(ctx context.Context, id string) (*listing.ListingDetail, error) {
	d, scrapedOnly, err := withFallback(ctx, c, listing.OpDetail,
		func(s integrations.Source) (*listing.ListingDetail, error) { return s.Detail(ctx, id) })
	if err != nil || scrapedOnly || !d.Incomplete() {
		return d, err
	}

	scraped, serr := c.document.Detail(ctx, id)
	if serr != nil {
		c.logger.Debug("detail enrichment failed", "id", id, "err", serr)
		return d, nil
	}
	mergeDetail(d, scraped)
	return d, nil
}

// Reviews returns a page of reviews. A structured page without reviews or
// without a summary is completed from the reviews page.
func (c *Client) Reviews(ctx context.Context, id, cursor string) (*listing.ReviewsPage, error) {
	page, scrapedOnly, err := withFallback(ctx, c, listing.OpReviews,
		func(s integrations.Source) (*listing.ReviewsPage, error) { return s.Reviews(ctx, id, cursor) })
	if err != nil || scrapedOnly || (len(page.Reviews) > 0 && page.Summary != nil) {
		return page, err
	}

	scraped, serr := c.document.Reviews(ctx, id, cursor)
	if serr != nil {
		c.logger.Debug("reviews enrichment failed", "id", id, "err", serr)
		return page, nil
	}
	return mergeReviews(page, scraped), nil
}

// Calendar returns the availability calendar.
func (c *Client) Calendar(ctx context.Context, id string, months int) (*listing.PriceCalendar, error) {
	cal, _, err := withFallback(ctx, c, listing.OpCalendar,
		func(s integrations.Source) (*listing.PriceCalendar, error) { return s.Calendar(ctx, id, months) })
	return cal, err
}

// Host returns the host profile.
func (c *Client) Host(ctx context.Context, id string) (*listing.HostProfile, error) {
	h, _, err := withFallback(ctx, c, listing.OpHost,
		func(s integrations.Source) (*listing.HostProfile, error) { return s.Host(ctx, id) })
	return h, err
}

// NeighborhoodStats aggregates a search page fetched with fallback.
func (c *Client) NeighborhoodStats(ctx context.Context, p listing.SearchParams) (*listing.NeighborhoodStats, error) {
	return integrations.NeighborhoodStats(ctx, c.Search, p)
}

// Occupancy derives an occupancy estimate from a calendar fetched with fallback.
func (c *Client) Occupancy(ctx context.Context, id string, months int) (*listing.OccupancyEstimate, error) {
	return integrations.Occupancy(ctx, c.Calendar, id, months)
}

// withFallback runs call against the structured source and, on failure,
// against the document source. scraped reports whether the record came
// from the document source.
//
// Validation failures and cancellation are returned as-is: the second
// source would fail the same way. When the document source does not
// support the operation, the structured error is surfaced unchanged.
func withFallback[T any](ctx context.Context, c *Client, op listing.Op, call func(integrations.Source) (*T, error)) (rec *T, scraped bool, err error) {
	if c.structured == nil {
		rec, err = call(c.document)
		return rec, true, err
	}

	rec, err = call(c.structured)
	if err == nil {
		return rec, false, nil
	}
	if errors.Is(err, errors.ErrCodeValidation) || ctx.Err() != nil {
		return nil, false, err
	}

	observability.Fetch().OnFallback(ctx, string(op), integrations.SourceStructured, integrations.SourceDocument, err)
	c.logger.Warn("structured source failed, falling back", "op", op, "code", errors.GetCode(err), "err", err)

	rec, derr := call(c.document)
	if derr != nil {
		if errors.Is(derr, errors.ErrCodeUnsupported) {
			return nil, false, err
		}
		return nil, true, derr
	}
	return rec, true, nil
}
