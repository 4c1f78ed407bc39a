package listing

// PriceRange is an inclusive nightly price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PropertyTypeCount is one bucket of the property type distribution.
type PropertyTypeCount struct {
	Type       string  `json:"property_type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// NeighborhoodStats aggregates one page of search results for a location.
type NeighborhoodStats struct {
	Location            string              `json:"location"`
	TotalListings       int                 `json:"total_listings"`
	AveragePrice        *float64            `json:"average_price,omitempty"`
	MedianPrice         *float64            `json:"median_price,omitempty"`
	PriceRange          *PriceRange         `json:"price_range,omitempty"`
	AverageRating       *float64            `json:"average_rating,omitempty"`
	PropertyTypes       []PropertyTypeCount `json:"property_type_distribution"`
	SuperhostPercentage *float64            `json:"superhost_percentage,omitempty"`
}

// MonthlyOccupancy is the occupancy of one calendar month.
type MonthlyOccupancy struct {
	Month         string   `json:"month"`
	TotalDays     int      `json:"total_days"`
	OccupiedDays  int      `json:"occupied_days"`
	AvailableDays int      `json:"available_days"`
	OccupancyRate float64  `json:"occupancy_rate"`
	AveragePrice  *float64 `json:"average_price,omitempty"`
}

// OccupancyEstimate summarizes a price calendar as occupancy figures.
type OccupancyEstimate struct {
	ListingID             string             `json:"listing_id"`
	PeriodStart           string             `json:"period_start"`
	PeriodEnd             string             `json:"period_end"`
	TotalDays             int                `json:"total_days"`
	OccupiedDays          int                `json:"occupied_days"`
	AvailableDays         int                `json:"available_days"`
	OccupancyRate         float64            `json:"occupancy_rate"`
	AverageAvailablePrice *float64           `json:"average_available_price,omitempty"`
	WeekendAvgPrice       *float64           `json:"weekend_avg_price,omitempty"`
	WeekdayAvgPrice       *float64           `json:"weekday_avg_price,omitempty"`
	Monthly               []MonthlyOccupancy `json:"monthly_breakdown"`
}
