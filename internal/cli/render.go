package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/stayscout/pkg/listing"
)

// Limits for human-readable output. --json always prints everything.
const (
	maxPhotos    = 3
	maxAmenities = 12
	maxComment   = 280
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render prints a record returned by an operation. Types without a
// dedicated layout fall back to JSON.
func render(w io.Writer, v any) error {
	switch r := v.(type) {
	case *listing.SearchResult:
		renderSearch(w, r)
	case *listing.ListingDetail:
		renderDetail(w, r)
	case *listing.ReviewsPage:
		renderReviews(w, r)
	case *listing.PriceCalendar:
		renderCalendar(w, r)
	case *listing.HostProfile:
		renderHost(w, r)
	case *listing.NeighborhoodStats:
		renderStats(w, r)
	case *listing.OccupancyEstimate:
		renderOccupancy(w, r)
	default:
		return writeJSON(w, v)
	}
	return nil
}

func renderSearch(w io.Writer, r *listing.SearchResult) {
	sub := fmt.Sprintf("(%d on this page)", len(r.Listings))
	if r.TotalCount != nil {
		sub = fmt.Sprintf("(%d on this page, %d total)", len(r.Listings), *r.TotalCount)
	}
	printTitle(w, "Listings", sub)
	for _, l := range r.Listings {
		printNewline(w)
		name := StyleValue.Render(l.Name)
		if l.IsSuperhost != nil && *l.IsSuperhost {
			name += " " + StyleHighlight.Render(iconSuperhost)
		}
		fmt.Fprintln(w, name+" "+StyleDim.Render(l.ID))

		var facts []string
		if p := formatPrice(l.PricePerNight, l.Currency); p != "" {
			facts = append(facts, StyleNumber.Render(p)+StyleDim.Render("/night"))
		}
		if l.Rating != nil {
			facts = append(facts, fmt.Sprintf("%s (%d reviews)", formatOptFloat(l.Rating, ""), l.ReviewCount))
		}
		if l.PropertyType != "" {
			facts = append(facts, l.PropertyType)
		}
		if len(facts) > 0 {
			line := " "
			for i, f := range facts {
				if i > 0 {
					line += StyleDim.Render(" · ")
				}
				line += f
			}
			fmt.Fprintln(w, " "+line)
		}
		if l.URL != "" {
			fmt.Fprintln(w, "  "+StyleLink.Render(l.URL))
		}
	}
	if r.NextCursor != "" {
		printNewline(w)
		printNextStep(w, "Next page", "--cursor "+r.NextCursor)
	}
}

func renderDetail(w io.Writer, d *listing.ListingDetail) {
	printTitle(w, d.Name, d.ID)
	printKeyValue(w, "Location", d.Location)
	printKeyValue(w, "Neighborhood", d.Neighborhood)
	printKeyValue(w, "Type", d.PropertyType)
	printKeyValue(w, "Price", formatPrice(d.PricePerNight, d.Currency))
	printKeyValue(w, "Cleaning fee", formatOptPrice(d.CleaningFee, d.Currency))
	printKeyValue(w, "Service fee", formatOptPrice(d.ServiceFee, d.Currency))
	if d.Rating != nil {
		printKeyValue(w, "Rating", fmt.Sprintf("%s (%d reviews)", formatOptFloat(d.Rating, ""), d.ReviewCount))
	}
	printKeyValue(w, "Guests", formatOptInt(d.MaxGuests))
	printKeyValue(w, "Bedrooms", formatOptInt(d.Bedrooms))
	printKeyValue(w, "Beds", formatOptInt(d.Beds))
	if d.Bathrooms != nil {
		printKeyValue(w, "Bathrooms", strconv.FormatFloat(*d.Bathrooms, 'f', -1, 64))
	}
	printKeyValue(w, "Check-in", d.CheckInTime)
	printKeyValue(w, "Check-out", d.CheckOutTime)
	printKeyValue(w, "Cancellation", d.CancellationPolicy)
	printKeyValue(w, "Instant book", formatOptBool(d.InstantBook))
	printKeyValue(w, "Host", d.HostName)
	printKeyValue(w, "Superhost", formatOptBool(d.HostIsSuperhost))
	printKeyValue(w, "Amenities", formatList(d.Amenities, maxAmenities))
	for i, rule := range d.HouseRules {
		key := ""
		if i == 0 {
			key = "House rules"
		}
		fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(rule))
	}
	for _, p := range firstN(d.Photos, maxPhotos) {
		printDetail(w, "%s", p)
	}
	if d.Description != "" {
		printNewline(w)
		fmt.Fprintln(w, d.Description)
	}
	if d.URL != "" {
		printNewline(w)
		fmt.Fprintln(w, StyleLink.Render(d.URL))
	}
}

func renderReviews(w io.Writer, p *listing.ReviewsPage) {
	printTitle(w, "Reviews", p.ListingID)
	if s := p.Summary; s != nil {
		printKeyValue(w, "Overall", fmt.Sprintf("%.2f (%d reviews)", s.OverallRating, s.TotalReviews))
		printKeyValue(w, "Cleanliness", formatOptFloat(s.Cleanliness, ""))
		printKeyValue(w, "Accuracy", formatOptFloat(s.Accuracy, ""))
		printKeyValue(w, "Communication", formatOptFloat(s.Communication, ""))
		printKeyValue(w, "Location", formatOptFloat(s.Location, ""))
		printKeyValue(w, "Check-in", formatOptFloat(s.CheckIn, ""))
		printKeyValue(w, "Value", formatOptFloat(s.Value, ""))
	}
	for _, r := range p.Reviews {
		printNewline(w)
		head := StyleValue.Render(r.Author) + " " + StyleDim.Render(r.Date)
		if r.Rating != nil {
			head += " " + StyleNumber.Render(formatOptFloat(r.Rating, ""))
		}
		fmt.Fprintln(w, head)
		fmt.Fprintln(w, "  "+truncate(r.Comment, maxComment))
		if r.Response != "" {
			printDetail(w, "Host: %s", truncate(r.Response, maxComment))
		}
	}
	if p.NextCursor != "" {
		printNewline(w)
		printNextStep(w, "Next page", "--cursor "+p.NextCursor)
	}
}

func renderCalendar(w io.Writer, c *listing.PriceCalendar) {
	printTitle(w, "Price calendar", c.ListingID)
	printKeyValue(w, "Average", formatOptPrice(c.AveragePrice, c.Currency))
	if c.MinPrice != nil && c.MaxPrice != nil {
		printKeyValue(w, "Range", formatPrice(*c.MinPrice, "")+" - "+formatPrice(*c.MaxPrice, c.Currency))
	}
	if c.OccupancyRate != nil {
		printKeyValue(w, "Booked", formatPercent(*c.OccupancyRate))
	}
	printNewline(w)
	for _, d := range c.Days {
		status := styleAvailable.Render(iconAvailable)
		if !d.Available {
			status = styleBooked.Render(iconBooked)
		}
		line := fmt.Sprintf("%s  %-5s", d.Date, status)
		if p := formatOptPrice(d.Price, ""); p != "" {
			line += "  " + StyleNumber.Render(p)
		}
		if d.MinNights != nil {
			line += "  " + StyleDim.Render("min "+strconv.Itoa(*d.MinNights))
		}
		fmt.Fprintln(w, line)
	}
}

func renderHost(w io.Writer, h *listing.HostProfile) {
	printTitle(w, h.Name, h.HostID)
	printKeyValue(w, "Superhost", formatOptBool(h.IsSuperhost))
	printKeyValue(w, "Verified", formatOptBool(h.IdentityVerified))
	printKeyValue(w, "Response rate", h.ResponseRate)
	printKeyValue(w, "Response time", h.ResponseTime)
	printKeyValue(w, "Member since", h.MemberSince)
	printKeyValue(w, "Listings", formatOptInt(h.TotalListings))
	printKeyValue(w, "Languages", formatList(h.Languages, 0))
	if h.Description != "" {
		printNewline(w)
		fmt.Fprintln(w, h.Description)
	}
}

func renderStats(w io.Writer, s *listing.NeighborhoodStats) {
	printTitle(w, s.Location, fmt.Sprintf("(%d listings)", s.TotalListings))
	printKeyValue(w, "Average price", formatOptPrice(s.AveragePrice, ""))
	printKeyValue(w, "Median price", formatOptPrice(s.MedianPrice, ""))
	if s.PriceRange != nil {
		printKeyValue(w, "Range", formatPrice(s.PriceRange.Min, "")+" - "+formatPrice(s.PriceRange.Max, ""))
	}
	printKeyValue(w, "Average rating", formatOptFloat(s.AverageRating, ""))
	if s.SuperhostPercentage != nil {
		printKeyValue(w, "Superhosts", formatPercent(*s.SuperhostPercentage))
	}
	if len(s.PropertyTypes) > 0 {
		printNewline(w)
		for _, pt := range s.PropertyTypes {
			fmt.Fprintln(w, styleKey.Render(pt.Type)+" "+StyleNumber.Render(strconv.Itoa(pt.Count))+" "+StyleDim.Render(formatPercent(pt.Percentage)))
		}
	}
}

func renderOccupancy(w io.Writer, o *listing.OccupancyEstimate) {
	printTitle(w, "Occupancy", o.ListingID)
	printKeyValue(w, "Period", o.PeriodStart+" to "+o.PeriodEnd)
	printKeyValue(w, "Occupancy", fmt.Sprintf("%s (%d of %d days)", formatPercent(o.OccupancyRate), o.OccupiedDays, o.TotalDays))
	printKeyValue(w, "Average price", formatOptPrice(o.AverageAvailablePrice, ""))
	printKeyValue(w, "Weekday", formatOptPrice(o.WeekdayAvgPrice, ""))
	printKeyValue(w, "Weekend", formatOptPrice(o.WeekendAvgPrice, ""))
	if len(o.Monthly) > 0 {
		printNewline(w)
		for _, m := range o.Monthly {
			line := styleKey.Render(m.Month) + " " + StyleNumber.Render(formatPercent(m.OccupancyRate))
			if p := formatOptPrice(m.AveragePrice, ""); p != "" {
				line += " " + StyleDim.Render("avg "+p)
			}
			fmt.Fprintln(w, line)
		}
	}
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
