// Package listing defines the typed records returned by stayscout and the
// request values used to fetch them.
//
// Records are plain value objects: they carry no behavior beyond small
// derived-statistic helpers such as [PriceCalendar.ComputeStats]. Optional
// upstream fields are pointers so that "absent" and "zero" stay distinct;
// this matters when the composite client merges records from two sources.
//
// # Requests
//
// A [Request] names an operation and its parameters. Its [Request.Key] is a
// deterministic function of both, so identical requests share a cache entry:
//
//	req := listing.DetailRequest("123")
//	if err := req.Validate(); err != nil {
//	    return err
//	}
//	key := req.Key() // "detail:123"
package listing

// Listing is a single search result card.
type Listing struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Location        string   `json:"location"`
	PricePerNight   float64  `json:"price_per_night"`
	Currency        string   `json:"currency"`
	Rating          *float64 `json:"rating,omitempty"`
	ReviewCount     int      `json:"review_count"`
	ThumbnailURL    string   `json:"thumbnail_url,omitempty"`
	PropertyType    string   `json:"property_type,omitempty"`
	HostName        string   `json:"host_name,omitempty"`
	URL             string   `json:"url"`
	IsSuperhost     *bool    `json:"is_superhost,omitempty"`
	IsGuestFavorite *bool    `json:"is_guest_favorite,omitempty"`
	InstantBook     *bool    `json:"instant_book,omitempty"`
	TotalPrice      *float64 `json:"total_price,omitempty"`
	Photos          []string `json:"photos,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

// SearchResult is one page of search results.
type SearchResult struct {
	Listings   []Listing `json:"listings"`
	TotalCount *int      `json:"total_count,omitempty"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ListingDetail is the full record for a single listing.
type ListingDetail struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Location           string   `json:"location"`
	Description        string   `json:"description"`
	PricePerNight      float64  `json:"price_per_night"`
	Currency           string   `json:"currency"`
	Rating             *float64 `json:"rating,omitempty"`
	ReviewCount        int      `json:"review_count"`
	PropertyType       string   `json:"property_type,omitempty"`
	HostName           string   `json:"host_name,omitempty"`
	URL                string   `json:"url"`
	Amenities          []string `json:"amenities"`
	HouseRules         []string `json:"house_rules"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	Photos             []string `json:"photos"`
	Bedrooms           *int     `json:"bedrooms,omitempty"`
	Beds               *int     `json:"beds,omitempty"`
	Bathrooms          *float64 `json:"bathrooms,omitempty"`
	MaxGuests          *int     `json:"max_guests,omitempty"`
	CheckInTime        string   `json:"check_in_time,omitempty"`
	CheckOutTime       string   `json:"check_out_time,omitempty"`
	HostID             string   `json:"host_id,omitempty"`
	HostIsSuperhost    *bool    `json:"host_is_superhost,omitempty"`
	HostResponseRate   string   `json:"host_response_rate,omitempty"`
	HostResponseTime   string   `json:"host_response_time,omitempty"`
	HostJoined         string   `json:"host_joined,omitempty"`
	HostTotalListings  *int     `json:"host_total_listings,omitempty"`
	HostLanguages      []string `json:"host_languages,omitempty"`
	CancellationPolicy string   `json:"cancellation_policy,omitempty"`
	InstantBook        *bool    `json:"instant_book,omitempty"`
	CleaningFee        *float64 `json:"cleaning_fee,omitempty"`
	ServiceFee         *float64 `json:"service_fee,omitempty"`
	Neighborhood       string   `json:"neighborhood,omitempty"`
}

// Incomplete reports whether any of the fields a guest relies on most is
// missing. The composite client uses it to decide whether a second source
// is worth asking.
func (d *ListingDetail) Incomplete() bool {
	return d.Name == "" ||
		d.Location == "" ||
		d.Description == "" ||
		len(d.Amenities) == 0 ||
		len(d.Photos) == 0 ||
		len(d.HouseRules) == 0 ||
		d.PricePerNight == 0 ||
		d.Rating == nil
}

// HostProfile describes the host of a listing.
type HostProfile struct {
	HostID            string   `json:"host_id,omitempty"`
	Name              string   `json:"name"`
	IsSuperhost       *bool    `json:"is_superhost,omitempty"`
	ResponseRate      string   `json:"response_rate,omitempty"`
	ResponseTime      string   `json:"response_time,omitempty"`
	MemberSince       string   `json:"member_since,omitempty"`
	Languages         []string `json:"languages,omitempty"`
	TotalListings     *int     `json:"total_listings,omitempty"`
	Description       string   `json:"description,omitempty"`
	ProfilePictureURL string   `json:"profile_picture_url,omitempty"`
	IdentityVerified  *bool    `json:"identity_verified,omitempty"`
}

// Ptr returns a pointer to v. It is a convenience for optional record fields.
func Ptr[T any](v T) *T { return &v }
