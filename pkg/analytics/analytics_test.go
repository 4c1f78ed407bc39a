package analytics

import (
	"testing"

	"github.com/matzehuels/stayscout/pkg/listing"
)

func makeListing(id string, price float64, propertyType string) listing.Listing {
	return listing.Listing{
		ID:            id,
		Name:          "Listing " + id,
		PricePerNight: price,
		Currency:      "$",
		Rating:        listing.Ptr(4.5),
		PropertyType:  propertyType,
	}
}

func day(date string, price float64, available bool) listing.CalendarDay {
	d := listing.CalendarDay{Date: date, Available: available}
	if price > 0 {
		d.Price = listing.Ptr(price)
	}
	return d
}

func approx(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %v", name, want)
	}
	if diff := *got - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}

func TestNeighborhoodStats(t *testing.T) {
	l1 := makeListing("1", 100, "Apartment")
	l1.IsSuperhost = listing.Ptr(true)
	l2 := makeListing("2", 200, "House")
	l3 := makeListing("3", 150, "Apartment")
	l3.Rating = nil
	l4 := makeListing("4", 250, "")

	stats := NeighborhoodStats("Paris", []listing.Listing{l1, l2, l3, l4})

	if stats.TotalListings != 4 {
		t.Errorf("TotalListings = %d, want 4", stats.TotalListings)
	}
	approx(t, "AveragePrice", stats.AveragePrice, 175)
	approx(t, "MedianPrice", stats.MedianPrice, 175)
	if stats.PriceRange == nil || stats.PriceRange.Min != 100 || stats.PriceRange.Max != 250 {
		t.Errorf("PriceRange = %+v, want 100..250", stats.PriceRange)
	}
	approx(t, "AverageRating", stats.AverageRating, 4.5)
	approx(t, "SuperhostPercentage", stats.SuperhostPercentage, 25)

	want := []listing.PropertyTypeCount{
		{Type: "Apartment", Count: 2, Percentage: 50},
		{Type: "House", Count: 1, Percentage: 25},
		{Type: UnknownPropertyType, Count: 1, Percentage: 25},
	}
	if len(stats.PropertyTypes) != len(want) {
		t.Fatalf("PropertyTypes = %+v, want %+v", stats.PropertyTypes, want)
	}
	for i := range want {
		if stats.PropertyTypes[i] != want[i] {
			t.Errorf("PropertyTypes[%d] = %+v, want %+v", i, stats.PropertyTypes[i], want[i])
		}
	}
}

func TestNeighborhoodStats_Median(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   float64
	}{
		{"single", []float64{150}, 150},
		{"odd", []float64{300, 100, 200}, 200},
		{"even", []float64{100, 200}, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ls []listing.Listing
			for _, p := range tt.prices {
				ls = append(ls, makeListing("x", p, "Room"))
			}
			approx(t, "MedianPrice", NeighborhoodStats("x", ls).MedianPrice, tt.want)
		})
	}
}

func TestNeighborhoodStats_Empty(t *testing.T) {
	stats := NeighborhoodStats("Nowhere", nil)
	if stats.TotalListings != 0 {
		t.Errorf("TotalListings = %d, want 0", stats.TotalListings)
	}
	if stats.AveragePrice != nil || stats.MedianPrice != nil || stats.PriceRange != nil ||
		stats.AverageRating != nil || stats.SuperhostPercentage != nil {
		t.Errorf("empty input should leave optional figures nil: %+v", stats)
	}
	if stats.PropertyTypes == nil {
		t.Error("PropertyTypes should be an empty slice, not nil")
	}
}

func TestOccupancy(t *testing.T) {
	cal := &listing.PriceCalendar{Days: []listing.CalendarDay{
		day("2025-06-27", 200, true),  // Fri
		day("2025-06-28", 250, true),  // Sat
		day("2025-06-29", 100, false), // Sun
		day("2025-06-30", 100, true),  // Mon
		day("2025-07-01", 110, true),  // Tue
		day("2025-07-02", 150, false), // Wed
		day("2025-07-03", 0, true),    // Thu, no price
	}}

	est := Occupancy("42", cal)

	if est.ListingID != "42" || est.PeriodStart != "2025-06-27" || est.PeriodEnd != "2025-07-03" {
		t.Errorf("period = %s %s..%s", est.ListingID, est.PeriodStart, est.PeriodEnd)
	}
	if est.TotalDays != 7 || est.OccupiedDays != 2 || est.AvailableDays != 5 {
		t.Errorf("days = %d/%d/%d, want 7/2/5", est.TotalDays, est.OccupiedDays, est.AvailableDays)
	}
	approx(t, "OccupancyRate", &est.OccupancyRate, 200.0/7)
	approx(t, "AverageAvailablePrice", est.AverageAvailablePrice, 165)
	approx(t, "WeekendAvgPrice", est.WeekendAvgPrice, 225)
	approx(t, "WeekdayAvgPrice", est.WeekdayAvgPrice, 105)

	if len(est.Monthly) != 2 {
		t.Fatalf("Monthly = %+v, want 2 months", est.Monthly)
	}
	june, july := est.Monthly[0], est.Monthly[1]
	if june.Month != "2025-06" || june.TotalDays != 4 || june.OccupiedDays != 1 || june.AvailableDays != 3 {
		t.Errorf("june = %+v", june)
	}
	approx(t, "june.AveragePrice", june.AveragePrice, 550.0/3)
	if july.Month != "2025-07" || july.TotalDays != 3 || july.OccupiedDays != 1 {
		t.Errorf("july = %+v", july)
	}
	approx(t, "july.OccupancyRate", &july.OccupancyRate, 100.0/3)
}

func TestOccupancy_Edges(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		est := Occupancy("42", &listing.PriceCalendar{})
		if est.TotalDays != 0 || est.OccupancyRate != 0 || len(est.Monthly) != 0 {
			t.Errorf("empty calendar = %+v", est)
		}
		if est.AverageAvailablePrice != nil || est.WeekendAvgPrice != nil || est.WeekdayAvgPrice != nil {
			t.Errorf("empty calendar should have no prices: %+v", est)
		}
	})

	t.Run("all occupied", func(t *testing.T) {
		est := Occupancy("42", &listing.PriceCalendar{Days: []listing.CalendarDay{
			day("2025-06-01", 100, false),
			day("2025-06-02", 120, false),
		}})
		if est.OccupancyRate != 100 || est.AvailableDays != 0 || est.AverageAvailablePrice != nil {
			t.Errorf("all occupied = %+v", est)
		}
	})

	t.Run("bad date", func(t *testing.T) {
		est := Occupancy("42", &listing.PriceCalendar{Days: []listing.CalendarDay{day("soon", 90, true)}})
		if est.Monthly[0].Month != "unknown" {
			t.Errorf("month = %q, want unknown", est.Monthly[0].Month)
		}
		approx(t, "AverageAvailablePrice", est.AverageAvailablePrice, 90)
		if est.WeekendAvgPrice != nil || est.WeekdayAvgPrice != nil {
			t.Error("unparseable date should not join the weekday split")
		}
	})
}
