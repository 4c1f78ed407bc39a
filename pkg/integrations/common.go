package integrations

import (
	"context"
	"time"

	"github.com/matzehuels/stayscout/pkg/analytics"
	"github.com/matzehuels/stayscout/pkg/listing"
)

// Source names used in logs, hooks and cache namespaces.
const (
	SourceStructured = "structured"
	SourceDocument   = "document"
	SourceComposite  = "composite"
)

// Source is the operation contract every client implements.
type Source interface {
	Search(ctx context.Context, p listing.SearchParams) (*listing.SearchResult, error)
	Detail(ctx context.Context, id string) (*listing.ListingDetail, error)
	Reviews(ctx context.Context, id, cursor string) (*listing.ReviewsPage, error)
	Calendar(ctx context.Context, id string, months int) (*listing.PriceCalendar, error)
	Host(ctx context.Context, id string) (*listing.HostProfile, error)
	NeighborhoodStats(ctx context.Context, p listing.SearchParams) (*listing.NeighborhoodStats, error)
	Occupancy(ctx context.Context, id string, months int) (*listing.OccupancyEstimate, error)
}

// TTLs holds the cache lifetime of each fetch operation.
type TTLs struct {
	Search   time.Duration `toml:"search" yaml:"search"`
	Detail   time.Duration `toml:"detail" yaml:"detail"`
	Reviews  time.Duration `toml:"reviews" yaml:"reviews"`
	Calendar time.Duration `toml:"calendar" yaml:"calendar"`
	Host     time.Duration `toml:"host" yaml:"host"`
}

// DefaultTTLs returns the lifetimes used when none are configured.
func DefaultTTLs() TTLs {
	return TTLs{
		Search:   15 * time.Minute,
		Detail:   time.Hour,
		Reviews:  time.Hour,
		Calendar: 30 * time.Minute,
		Host:     time.Hour,
	}
}

// For returns the lifetime for op. Derived operations are never cached
// themselves, so they report zero.
func (t TTLs) For(op listing.Op) time.Duration {
	switch op {
	case listing.OpSearch:
		return t.Search
	case listing.OpDetail:
		return t.Detail
	case listing.OpReviews:
		return t.Reviews
	case listing.OpCalendar:
		return t.Calendar
	case listing.OpHost:
		return t.Host
	default:
		return 0
	}
}

// NeighborhoodStats runs search and aggregates its page of results.
// Sources use it so the underlying search shares their cache and limiter.
func NeighborhoodStats(ctx context.Context, search func(context.Context, listing.SearchParams) (*listing.SearchResult, error), p listing.SearchParams) (*listing.NeighborhoodStats, error) {
	res, err := search(ctx, p)
	if err != nil {
		return nil, err
	}
	return analytics.NeighborhoodStats(p.Location, res.Listings), nil
}

// Occupancy fetches a calendar through calendar and turns it into an estimate.
func Occupancy(ctx context.Context, calendar func(context.Context, string, int) (*listing.PriceCalendar, error), id string, months int) (*listing.OccupancyEstimate, error) {
	cal, err := calendar(ctx, id, months)
	if err != nil {
		return nil, err
	}
	return analytics.Occupancy(id, cal), nil
}
