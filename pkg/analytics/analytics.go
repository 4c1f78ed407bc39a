// Package analytics derives aggregate figures from records that were
// already fetched. Every function here is pure: no I/O, no clock, no
// shared state.
package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/matzehuels/stayscout/pkg/listing"
)

// UnknownPropertyType labels listings without a property type.
const UnknownPropertyType = "Unknown"

// NeighborhoodStats summarizes one page of search results for location.
// Optional figures are nil when no listing contributes to them.
func NeighborhoodStats(location string, listings []listing.Listing) *listing.NeighborhoodStats {
	total := len(listings)
	stats := &listing.NeighborhoodStats{
		Location:      location,
		TotalListings: total,
		PropertyTypes: []listing.PropertyTypeCount{},
	}
	if total == 0 {
		return stats
	}

	prices := make([]float64, 0, total)
	var ratings []float64
	superhosts := 0
	types := map[string]int{}
	for _, l := range listings {
		prices = append(prices, l.PricePerNight)
		if l.Rating != nil {
			ratings = append(ratings, *l.Rating)
		}
		if l.IsSuperhost != nil && *l.IsSuperhost {
			superhosts++
		}
		pt := l.PropertyType
		if pt == "" {
			pt = UnknownPropertyType
		}
		types[pt]++
	}

	slices.Sort(prices)
	stats.AveragePrice = mean(prices)
	stats.MedianPrice = listing.Ptr(median(prices))
	stats.PriceRange = &listing.PriceRange{Min: prices[0], Max: prices[len(prices)-1]}
	stats.AverageRating = mean(ratings)
	stats.SuperhostPercentage = listing.Ptr(percent(superhosts, total))

	for pt, n := range types {
		stats.PropertyTypes = append(stats.PropertyTypes, listing.PropertyTypeCount{
			Type:       pt,
			Count:      n,
			Percentage: percent(n, total),
		})
	}
	// Largest bucket first; ties by name so output is stable.
	slices.SortFunc(stats.PropertyTypes, func(a, b listing.PropertyTypeCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})
	return stats
}

// Occupancy turns a price calendar into occupancy figures. Weekend prices
// are Friday and Saturday nights. Days whose date cannot be parsed still
// count toward totals but not toward the weekday split; their month is
// "unknown".
func Occupancy(id string, cal *listing.PriceCalendar) *listing.OccupancyEstimate {
	est := &listing.OccupancyEstimate{
		ListingID: id,
		Monthly:   []listing.MonthlyOccupancy{},
	}
	if cal == nil || len(cal.Days) == 0 {
		return est
	}
	days := cal.Days

	est.TotalDays = len(days)
	est.PeriodStart = days[0].Date
	est.PeriodEnd = days[len(days)-1].Date

	var available, weekend, weekday []float64
	months := map[string]*monthTally{}
	for _, d := range days {
		key := "unknown"
		if len(d.Date) >= 7 {
			key = d.Date[:7]
		}
		m := months[key]
		if m == nil {
			m = &monthTally{}
			months[key] = m
		}
		m.total++

		if !d.Available {
			est.OccupiedDays++
			m.occupied++
			continue
		}
		est.AvailableDays++
		if d.Price == nil {
			continue
		}
		p := *d.Price
		available = append(available, p)
		m.prices = append(m.prices, p)
		if t, err := time.Parse(time.DateOnly, d.Date); err == nil {
			if wd := t.Weekday(); wd == time.Friday || wd == time.Saturday {
				weekend = append(weekend, p)
			} else {
				weekday = append(weekday, p)
			}
		}
	}

	est.OccupancyRate = percent(est.OccupiedDays, est.TotalDays)
	est.AverageAvailablePrice = mean(available)
	est.WeekendAvgPrice = mean(weekend)
	est.WeekdayAvgPrice = mean(weekday)

	for key, m := range months {
		est.Monthly = append(est.Monthly, listing.MonthlyOccupancy{
			Month:         key,
			TotalDays:     m.total,
			OccupiedDays:  m.occupied,
			AvailableDays: m.total - m.occupied,
			OccupancyRate: percent(m.occupied, m.total),
			AveragePrice:  mean(m.prices),
		})
	}
	slices.SortFunc(est.Monthly, func(a, b listing.MonthlyOccupancy) int {
		return cmp.Compare(a.Month, b.Month)
	})
	return est
}

type monthTally struct {
	total    int
	occupied int
	prices   []float64
}

func mean(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return listing.Ptr(sum / float64(len(xs)))
}

// median expects sorted, non-empty input.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
