package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/stayscout/pkg/errors"
)

// Op names a fetch operation. It appears in cache keys, errors and logs.
type Op string

// Supported operations.
const (
	OpSearch    Op = "search"
	OpDetail    Op = "detail"
	OpReviews   Op = "reviews"
	OpCalendar  Op = "calendar"
	OpHost      Op = "host"
	OpStats     Op = "neighborhood_stats"
	OpOccupancy Op = "occupancy"
)

// DefaultCalendarMonths is used when a caller does not ask for a window.
const DefaultCalendarMonths = 3

// SearchParams are the filters of a location search. Zero values mean "not set".
type SearchParams struct {
	Location     string `json:"location"`
	Checkin      string `json:"checkin,omitempty"`
	Checkout     string `json:"checkout,omitempty"`
	Adults       int    `json:"adults,omitempty"`
	Children     int    `json:"children,omitempty"`
	Infants      int    `json:"infants,omitempty"`
	Pets         int    `json:"pets,omitempty"`
	MinPrice     int    `json:"min_price,omitempty"`
	MaxPrice     int    `json:"max_price,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
	Cursor       string `json:"cursor,omitempty"`
}

// Validate rejects malformed parameters before any network activity.
func (p SearchParams) Validate() error {
	const op = string(OpSearch)
	if err := errors.ValidateText(op, "location", p.Location, true); err != nil {
		return err
	}
	if err := errors.ValidateText(op, "cursor", p.Cursor, false); err != nil {
		return err
	}
	if err := errors.ValidateText(op, "property_type", p.PropertyType, false); err != nil {
		return err
	}

	switch {
	case p.Checkin != "" && p.Checkout == "":
		return errors.Validation(op, "checkout is required when checkin is set")
	case p.Checkout != "" && p.Checkin == "":
		return errors.Validation(op, "checkin is required when checkout is set")
	case p.Checkin != "":
		in, err := errors.ValidateDate(op, "checkin", p.Checkin)
		if err != nil {
			return err
		}
		out, err := errors.ValidateDate(op, "checkout", p.Checkout)
		if err != nil {
			return err
		}
		if !out.After(in) {
			return errors.Validation(op, "checkout %s must be after checkin %s", p.Checkout, p.Checkin)
		}
	}

	for name, v := range map[string]int{
		"adults": p.Adults, "children": p.Children, "infants": p.Infants,
		"pets": p.Pets, "min_price": p.MinPrice, "max_price": p.MaxPrice,
	} {
		if v < 0 {
			return errors.Validation(op, "%s cannot be negative", name)
		}
	}
	if p.MinPrice > 0 && p.MaxPrice > 0 && p.MinPrice > p.MaxPrice {
		return errors.Validation(op, "min_price %d exceeds max_price %d", p.MinPrice, p.MaxPrice)
	}
	return nil
}

// QueryPairs returns the search filters as page URL query parameters.
func (p SearchParams) QueryPairs() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	setInt := func(k string, v int) {
		if v > 0 {
			q.Set(k, strconv.Itoa(v))
		}
	}
	set("checkin", p.Checkin)
	set("checkout", p.Checkout)
	setInt("adults", p.Adults)
	setInt("children", p.Children)
	setInt("infants", p.Infants)
	setInt("pets", p.Pets)
	setInt("price_min", p.MinPrice)
	setInt("price_max", p.MaxPrice)
	set("property_type", p.PropertyType)
	set("cursor", p.Cursor)
	return q
}

// CacheKey returns the deterministic cache key for these parameters.
// The location and property type are case-folded so that "Paris" and
// "paris" share an entry. Values are query-escaped so that free text cannot
// forge another parameter's segment.
func (p SearchParams) CacheKey() string {
	var b strings.Builder
	b.WriteString(string(OpSearch))
	b.WriteByte(':')
	b.WriteString(url.QueryEscape(strings.ToLower(strings.TrimSpace(p.Location))))
	add := func(k, v string) {
		if v != "" {
			b.WriteString(":" + k + "=" + url.QueryEscape(v))
		}
	}
	addInt := func(k string, v int) {
		if v > 0 {
			add(k, strconv.Itoa(v))
		}
	}
	add("ci", p.Checkin)
	add("co", p.Checkout)
	addInt("a", p.Adults)
	addInt("ch", p.Children)
	addInt("inf", p.Infants)
	addInt("p", p.Pets)
	addInt("min", p.MinPrice)
	addInt("max", p.MaxPrice)
	add("pt", strings.ToLower(p.PropertyType))
	add("cur", p.Cursor)
	return b.String()
}

// Request is an immutable fetch request: an operation plus its parameters.
type Request struct {
	Op     Op
	ID     string
	Search SearchParams
	Cursor string
	Months int
}

// SearchRequest creates a search request.
func SearchRequest(p SearchParams) Request { return Request{Op: OpSearch, Search: p} }

// DetailRequest creates a listing detail request.
func DetailRequest(id string) Request { return Request{Op: OpDetail, ID: id} }

// ReviewsRequest creates a reviews page request. An empty cursor asks for the first page.
func ReviewsRequest(id, cursor string) Request { return Request{Op: OpReviews, ID: id, Cursor: cursor} }

// CalendarRequest creates a price calendar request. months <= 0 selects the default window.
func CalendarRequest(id string, months int) Request {
	if months <= 0 {
		months = DefaultCalendarMonths
	}
	return Request{Op: OpCalendar, ID: id, Months: months}
}

// HostRequest creates a host profile request.
func HostRequest(id string) Request { return Request{Op: OpHost, ID: id} }

// Subject returns the identifier errors should name: the listing id, or the
// search location for searches.
func (r Request) Subject() string {
	if r.Op == OpSearch || r.Op == OpStats {
		return r.Search.Location
	}
	return r.ID
}

// Validate checks the request parameters.
func (r Request) Validate() error {
	switch r.Op {
	case OpSearch, OpStats:
		return r.Search.Validate()
	case OpCalendar, OpOccupancy:
		if err := errors.ValidateListingID(string(r.Op), r.ID); err != nil {
			return err
		}
		return errors.ValidateMonths(string(r.Op), r.Months)
	case OpReviews:
		if err := errors.ValidateListingID(string(r.Op), r.ID); err != nil {
			return err
		}
		return errors.ValidateText(string(r.Op), "cursor", r.Cursor, false)
	case OpDetail, OpHost:
		return errors.ValidateListingID(string(r.Op), r.ID)
	default:
		return errors.Validation(string(r.Op), "unknown operation")
	}
}

// Key returns the cache key of the request.
func (r Request) Key() string {
	switch r.Op {
	case OpSearch:
		return r.Search.CacheKey()
	case OpReviews:
		cursor := r.Cursor
		if cursor == "" {
			cursor = "first"
		}
		return "reviews:" + r.ID + ":" + cursor
	case OpCalendar:
		return "calendar:" + r.ID + ":m=" + strconv.Itoa(r.Months)
	default:
		return string(r.Op) + ":" + r.ID
	}
}
