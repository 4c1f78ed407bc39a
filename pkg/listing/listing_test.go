package listing

import "testing"

func TestComputeStats(t *testing.T) {
	cal := PriceCalendar{
		ListingID: "1",
		Days: []CalendarDay{
			{Date: "2025-06-01", Available: true, Price: Ptr(100.0)},
			{Date: "2025-06-02", Available: true, Price: Ptr(200.0)},
			{Date: "2025-06-03", Available: false, Price: Ptr(999.0)},
			{Date: "2025-06-04", Available: true},
		},
	}
	cal.ComputeStats()

	if cal.AveragePrice == nil || *cal.AveragePrice != 150 {
		t.Errorf("AveragePrice = %v, want 150", cal.AveragePrice)
	}
	if cal.MinPrice == nil || *cal.MinPrice != 100 {
		t.Errorf("MinPrice = %v, want 100", cal.MinPrice)
	}
	if cal.MaxPrice == nil || *cal.MaxPrice != 200 {
		t.Errorf("MaxPrice = %v, want 200 (unavailable nights excluded)", cal.MaxPrice)
	}
	if cal.OccupancyRate == nil || *cal.OccupancyRate != 25 {
		t.Errorf("OccupancyRate = %v, want 25", cal.OccupancyRate)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	cal := PriceCalendar{AveragePrice: Ptr(1.0)}
	cal.ComputeStats()
	if cal.AveragePrice != nil || cal.OccupancyRate != nil {
		t.Error("empty calendar should have no derived stats")
	}
}

func TestListingDetailIncomplete(t *testing.T) {
	full := ListingDetail{
		Name:          "Loft",
		Location:      "Paris",
		Description:   "Bright",
		Amenities:     []string{"Wifi"},
		Photos:        []string{"a.jpg"},
		HouseRules:    []string{"No parties"},
		PricePerNight: 120,
		Rating:        Ptr(4.8),
	}
	if full.Incomplete() {
		t.Error("fully populated detail reported incomplete")
	}

	missing := full
	missing.HouseRules = nil
	if !missing.Incomplete() {
		t.Error("detail without house rules should be incomplete")
	}

	noRating := full
	noRating.Rating = nil
	if !noRating.Incomplete() {
		t.Error("detail without rating should be incomplete")
	}
}

func TestUnavailabilityReasonString(t *testing.T) {
	if ReasonBlockedByHost.String() != "Blocked by host" {
		t.Errorf("String() = %q", ReasonBlockedByHost.String())
	}
	if UnavailabilityReason("").String() != "Unknown" {
		t.Errorf("empty reason String() = %q", UnavailabilityReason("").String())
	}
}
