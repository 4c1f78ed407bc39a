package listing

// Review is a single guest review.
type Review struct {
	Author           string   `json:"author"`
	Date             string   `json:"date"`
	Rating           *float64 `json:"rating,omitempty"`
	Comment          string   `json:"comment"`
	Response         string   `json:"response,omitempty"`
	ReviewerLocation string   `json:"reviewer_location,omitempty"`
	Language         string   `json:"language,omitempty"`
	IsTranslated     *bool    `json:"is_translated,omitempty"`
}

// ReviewsSummary holds the aggregate and per-category ratings of a listing.
type ReviewsSummary struct {
	OverallRating float64  `json:"overall_rating"`
	TotalReviews  int      `json:"total_reviews"`
	Cleanliness   *float64 `json:"cleanliness,omitempty"`
	Accuracy      *float64 `json:"accuracy,omitempty"`
	Communication *float64 `json:"communication,omitempty"`
	Location      *float64 `json:"location,omitempty"`
	CheckIn       *float64 `json:"check_in,omitempty"`
	Value         *float64 `json:"value,omitempty"`
}

// ReviewsPage is one page of reviews, optionally with the listing summary.
type ReviewsPage struct {
	ListingID  string          `json:"listing_id"`
	Summary    *ReviewsSummary `json:"summary,omitempty"`
	Reviews    []Review        `json:"reviews"`
	NextCursor string          `json:"next_cursor,omitempty"`
}
