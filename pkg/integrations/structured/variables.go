package structured

import (
	"strconv"
	"time"

	"github.com/matzehuels/stayscout/pkg/extract"
	"github.com/matzehuels/stayscout/pkg/listing"
)

// Hashes are the persisted-query hashes of each operation. They change
// when upstream redeploys, so they are configurable.
type Hashes struct {
	StaysSearch             string `toml:"stays_search" yaml:"stays_search"`
	StaysPdpSections        string `toml:"stays_pdp_sections" yaml:"stays_pdp_sections"`
	StaysPdpReviews         string `toml:"stays_pdp_reviews" yaml:"stays_pdp_reviews"`
	PdpAvailabilityCalendar string `toml:"pdp_availability_calendar" yaml:"pdp_availability_calendar"`
}

// DefaultHashes returns the last known hashes.
func DefaultHashes() Hashes {
	return Hashes{
		StaysSearch:             "d4d9503616dc72ab220ed8dcf17f166816dccb2593e7b4625c91c3fce3a3b3d6",
		StaysPdpSections:        "80c7889b4b0027d99ffea830f6c0d4911a6e863a957cbe1044823f0fc746bf1f",
		StaysPdpReviews:         "dec1c8061483e78373602047450322fd474e79ba9afa8d3dbbc27f504030f91d",
		PdpAvailabilityCalendar: "8f08e03c7bd16fcad3c92a3592c19a8b559a0d0855a84028d1163d4733ed9ade",
	}
}

// Persisted query operation names.
const (
	opStaysSearch      = "StaysSearch"
	opStaysPdpSections = "StaysPdpSections"
	opStaysPdpReviews  = "StaysPdpReviewsQuery"
	opCalendar         = "PdpAvailabilityCalendar"
)

// reviewsPageSize is the number of reviews requested per page.
const reviewsPageSize = 50

type filter struct {
	Name   string   `json:"filterName"`
	Values []string `json:"filterValues"`
}

type staysSearchRequest struct {
	RequestedPageType string   `json:"requestedPageType"`
	MetadataOnly      bool     `json:"metadataOnly"`
	SearchType        string   `json:"searchType"`
	TreatmentFlags    []string `json:"treatmentFlags"`
	RawParams         []filter `json:"rawParams"`
}

func searchVariables(p listing.SearchParams) map[string]any {
	params := []filter{
		{"cdnCacheSafe", []string{"false"}},
		{"channel", []string{"EXPLORE"}},
		{"placeId", []string{p.Location}},
		{"source", []string{"structured_search_input_header"}},
		{"searchType", []string{"filter_change"}},
	}
	add := func(name, v string) {
		if v != "" {
			params = append(params, filter{name, []string{v}})
		}
	}
	addInt := func(name string, v int) {
		if v > 0 {
			add(name, strconv.Itoa(v))
		}
	}
	add("checkin", p.Checkin)
	add("checkout", p.Checkout)
	addInt("adults", p.Adults)
	addInt("children", p.Children)
	addInt("infants", p.Infants)
	addInt("pets", p.Pets)
	addInt("priceMin", p.MinPrice)
	addInt("priceMax", p.MaxPrice)
	add("cursor", p.Cursor)

	req := staysSearchRequest{
		RequestedPageType: "STAYS_SEARCH",
		SearchType:        "filter_change",
		TreatmentFlags:    []string{"decompose_stays_search_m2_treatment"},
		RawParams:         params,
	}
	return map[string]any{
		"staysSearchRequest":      req,
		"staysMapSearchRequestV2": req,
	}
}

func sectionsVariables(id string) map[string]any {
	return map[string]any{
		"id":                  extract.EncodeGlobalID("StayListing", id),
		"demandStayListingId": extract.EncodeGlobalID("DemandStayListing", id),
		"pdpSectionsRequest": map[string]any{
			"adults":                       "1",
			"bypassTargetings":             false,
			"categoryTag":                  nil,
			"children":                     nil,
			"infants":                      nil,
			"layouts":                      []string{"SIDEBAR", "SINGLE_COLUMN"},
			"pets":                         0,
			"preview":                      false,
			"previousStateCheckIn":         nil,
			"previousStateCheckOut":        nil,
			"privateBooking":               false,
			"staysBookingMigrationEnabled": false,
			"useNewSectionWrapperApi":      false,
		},
	}
}

func reviewsVariables(id string, offset int) map[string]any {
	return map[string]any{
		"id": id,
		"pdpReviewsRequest": map[string]any{
			"fieldSelector":            "for_p3_translation_only",
			"forPreview":               false,
			"limit":                    reviewsPageSize,
			"offset":                   strconv.Itoa(offset),
			"showingTranslationButton": false,
			"first":                    reviewsPageSize,
			"sortingPreference":        "MOST_RECENT",
			"numberOfAdults":           "1",
			"numberOfChildren":         "0",
			"numberOfInfants":          "0",
			"numberOfPets":             "0",
			"after":                    nil,
		},
	}
}

func calendarVariables(id string, months int, now time.Time) map[string]any {
	return map[string]any{
		"request": map[string]any{
			"count":     months,
			"listingId": id,
			"month":     int(now.Month()),
			"year":      now.Year(),
		},
	}
}
