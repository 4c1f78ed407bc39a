// Package server exposes a [integrations.Source] over MCP and HTTP.
//
// Both front-ends, and the CLI, dispatch through the same [Operations]
// table so that parameter names, validation and descriptions agree
// everywhere.
package server

import (
	"context"

	"github.com/matzehuels/stayscout/pkg/integrations"
	"github.com/matzehuels/stayscout/pkg/listing"
)

// Args carries the parameters of every operation. Each operation reads
// the fields it needs and ignores the rest.
type Args struct {
	ID           string `json:"id,omitempty"`
	Cursor       string `json:"cursor,omitempty"`
	Months       int    `json:"months,omitempty"`
	Location     string `json:"location,omitempty"`
	Checkin      string `json:"checkin,omitempty"`
	Checkout     string `json:"checkout,omitempty"`
	Adults       int    `json:"adults,omitempty"`
	Children     int    `json:"children,omitempty"`
	Infants      int    `json:"infants,omitempty"`
	Pets         int    `json:"pets,omitempty"`
	MinPrice     int    `json:"min_price,omitempty"`
	MaxPrice     int    `json:"max_price,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
}

// SearchParams returns the search filters in a.
func (a Args) SearchParams() listing.SearchParams {
	return listing.SearchParams{
		Location:     a.Location,
		Checkin:      a.Checkin,
		Checkout:     a.Checkout,
		Adults:       a.Adults,
		Children:     a.Children,
		Infants:      a.Infants,
		Pets:         a.Pets,
		MinPrice:     a.MinPrice,
		MaxPrice:     a.MaxPrice,
		PropertyType: a.PropertyType,
		Cursor:       a.Cursor,
	}
}

// Param describes one operation parameter.
type Param struct {
	Name        string
	Type        string // JSON schema type: "string" or "integer"
	Description string
	Required    bool
}

// Operation is one entry of the dispatch table.
type Operation struct {
	Op          listing.Op
	Tool        string // MCP tool name
	Title       string
	Description string
	Params      []Param
	Run         func(ctx context.Context, src integrations.Source, a Args) (any, error)
}

var (
	paramID = Param{"id", "string", `Listing ID (numeric string from search results, e.g. "12345678")`, true}

	paramMonths = Param{"months", "integer", "Number of months to fetch (1-12, default: 3)", false}

	searchParams = []Param{
		{"location", "string", `Location to search (e.g. "Paris, France", "Tokyo")`, true},
		{"checkin", "string", "Check-in date (YYYY-MM-DD). Must be paired with checkout.", false},
		{"checkout", "string", "Check-out date (YYYY-MM-DD). Must be paired with checkin.", false},
		{"adults", "integer", "Number of adult guests", false},
		{"children", "integer", "Number of children", false},
		{"infants", "integer", "Number of infants", false},
		{"pets", "integer", "Number of pets", false},
		{"min_price", "integer", "Minimum price per night", false},
		{"max_price", "integer", "Maximum price per night", false},
		{"property_type", "string", `Property type filter (e.g. "Entire home", "Private room")`, false},
		{"cursor", "string", "Pagination cursor from a previous search", false},
	}
)

// Operations lists every exposed operation.
var Operations = []Operation{
	{
		Op:          listing.OpSearch,
		Tool:        "airbnb_search",
		Title:       "Search listings",
		Description: "Search listings by location, dates and guest count. Returns listings with prices, ratings and links; use the IDs with the other tools.",
		Params:      searchParams,
		Run: func(ctx context.Context, src integrations.Source, a Args) (any, error) {
			return src.Search(ctx, a.SearchParams())
		},
	},
	{
		Op:          listing.OpDetail,
		Tool:        "airbnb_listing_details",
		Title:       "Listing details",
		Description: "Get the description, amenities, house rules, photos and host summary of a listing.",
		Params:      []Param{paramID},
		Run: func(ctx context.Context, src integrations.Source, a Args) (any, error) {
			return src.Detail(ctx, a.ID)
		},
	},
	{
		Op:          listing.OpReviews,
		Tool:        "airbnb_reviews",
		Title:       "Reviews",
		Description: "Get a page of reviews with the ratings summary. Pass the returned cursor to load the next page.",
		Params:      []Param{paramID, {"cursor", "string", "Pagination cursor from a previous page", false}},
		Run: func(ctx context.Context, src integrations.Source, a Args) (any, error) {
			return src.Reviews(ctx, a.ID, a.Cursor)
		},
	},
	{
		Op:          listing.OpCalendar,
		Tool:        "airbnb_price_calendar",
		Title:       "Price calendar",
		Description: "Get daily prices, availability and minimum-night rules for a listing.",
		Params:      []Param{paramID, paramMonths},
		Run: func(ctx context.Context, src integrations.Source, a Args) (any, error) {
			return src.Calendar(ctx, a.ID, a.Months)
		},
	},
	{
		Op:          listing.OpHost,
		Tool:        "airbnb_host_profile",
		Title:       "Host profile",
		Description: "Get the host's superhost status, response rate, languages, bio and listing count.",
		Params:      []Param{paramID},
		Run: func(ctx context.Context, src integrations.Source, a Args) (any, error) {
			return src.Host(ctx, a.ID)
		},
	},
	{
		Op:          listing.OpStats,
		Tool:        "airbnb_neighborhood_stats",
		Title:       "Neighborhood statistics",
		Description: "Aggregate a location's listings: average and median price, ratings, property type mix and superhost share.",
		Params: []Param{
			searchParams[0], searchParams[1], searchParams[2],
			searchParams[9],
		},
		Run: func(ctx context.Context, src integrations.Source, a Args) (any, error) {
			return src.NeighborhoodStats(ctx, a.SearchParams())
		},
	},
	{
		Op:          listing.OpOccupancy,
		Tool:        "airbnb_occupancy_estimate",
		Title:       "Occupancy estimate",
		Description: "Estimate occupancy, weekday and weekend prices and a monthly breakdown from a listing's calendar.",
		Params:      []Param{paramID, paramMonths},
		Run: func(ctx context.Context, src integrations.Source, a Args) (any, error) {
			return src.Occupancy(ctx, a.ID, a.Months)
		},
	},
}

// Lookup returns the operation for op.
func Lookup(op listing.Op) (Operation, bool) {
	for _, o := range Operations {
		if o.Op == op {
			return o, true
		}
	}
	return Operation{}, false
}

// InputSchema returns the JSON schema of the operation's parameters.
func (o Operation) InputSchema() map[string]any {
	props := make(map[string]any, len(o.Params))
	required := []string{}
	for _, p := range o.Params {
		prop := map[string]any{"type": p.Type, "description": p.Description}
		if p.Type == "integer" {
			prop["minimum"] = 0
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}
