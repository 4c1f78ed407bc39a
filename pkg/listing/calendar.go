package listing

// UnavailabilityReason explains why a calendar day cannot be booked.
type UnavailabilityReason string

// Known unavailability reasons.
const (
	ReasonUnknown             UnavailabilityReason = "unknown"
	ReasonBooked              UnavailabilityReason = "booked"
	ReasonBlockedByHost       UnavailabilityReason = "blocked_by_host"
	ReasonPastDate            UnavailabilityReason = "past_date"
	ReasonMinNightRestriction UnavailabilityReason = "min_night_restriction"
)

// String returns a human-readable label.
func (r UnavailabilityReason) String() string {
	switch r {
	case ReasonBooked:
		return "Booked"
	case ReasonBlockedByHost:
		return "Blocked by host"
	case ReasonPastDate:
		return "Past date"
	case ReasonMinNightRestriction:
		return "Min night restriction"
	default:
		return "Unknown"
	}
}

// CalendarDay is the availability and price of one night.
type CalendarDay struct {
	Date              string               `json:"date"`
	Price             *float64             `json:"price,omitempty"`
	Available         bool                 `json:"available"`
	MinNights         *int                 `json:"min_nights,omitempty"`
	MaxNights         *int                 `json:"max_nights,omitempty"`
	ClosedToArrival   *bool                `json:"closed_to_arrival,omitempty"`
	ClosedToDeparture *bool                `json:"closed_to_departure,omitempty"`
	Reason            UnavailabilityReason `json:"unavailability_reason,omitempty"`
}

// PriceCalendar is the per-night availability of a listing.
type PriceCalendar struct {
	ListingID     string        `json:"listing_id"`
	Currency      string        `json:"currency"`
	Days          []CalendarDay `json:"days"`
	AveragePrice  *float64      `json:"average_price,omitempty"`
	MinPrice      *float64      `json:"min_price,omitempty"`
	MaxPrice      *float64      `json:"max_price,omitempty"`
	OccupancyRate *float64      `json:"occupancy_rate,omitempty"`
}

// ComputeStats fills the derived price and occupancy fields from Days.
// Prices consider available nights only; occupancy is the percentage of
// unavailable nights.
func (c *PriceCalendar) ComputeStats() {
	c.AveragePrice, c.MinPrice, c.MaxPrice, c.OccupancyRate = nil, nil, nil, nil

	var sum float64
	var n int
	for _, d := range c.Days {
		if !d.Available || d.Price == nil {
			continue
		}
		p := *d.Price
		sum += p
		n++
		if c.MinPrice == nil || p < *c.MinPrice {
			c.MinPrice = Ptr(p)
		}
		if c.MaxPrice == nil || p > *c.MaxPrice {
			c.MaxPrice = Ptr(p)
		}
	}
	if n > 0 {
		c.AveragePrice = Ptr(sum / float64(n))
	}

	if total := len(c.Days); total > 0 {
		unavailable := 0
		for _, d := range c.Days {
			if !d.Available {
				unavailable++
			}
		}
		c.OccupancyRate = Ptr(float64(unavailable) / float64(total) * 100)
	}
}
