package composite

import "github.com/matzehuels/stayscout/pkg/listing"

// mergeDetail fills the empty fields of d from src. Fields d already has
// are left alone.
func mergeDetail(d, src *listing.ListingDetail) {
	fill(&d.Name, src.Name)
	fill(&d.Location, src.Location)
	fill(&d.Description, src.Description)
	fill(&d.PropertyType, src.PropertyType)
	fill(&d.HostName, src.HostName)
	fill(&d.CheckInTime, src.CheckInTime)
	fill(&d.CheckOutTime, src.CheckOutTime)
	fill(&d.HostID, src.HostID)
	fill(&d.HostResponseRate, src.HostResponseRate)
	fill(&d.HostResponseTime, src.HostResponseTime)
	fill(&d.HostJoined, src.HostJoined)
	fill(&d.CancellationPolicy, src.CancellationPolicy)
	fill(&d.Neighborhood, src.Neighborhood)
	if d.PricePerNight == 0 && src.PricePerNight > 0 {
		d.PricePerNight = src.PricePerNight
		d.Currency = src.Currency
	}
	if d.ReviewCount == 0 {
		d.ReviewCount = src.ReviewCount
	}

	fillSlice(&d.Amenities, src.Amenities)
	fillSlice(&d.HouseRules, src.HouseRules)
	fillSlice(&d.Photos, src.Photos)
	fillSlice(&d.HostLanguages, src.HostLanguages)

	fillPtr(&d.Rating, src.Rating)
	fillPtr(&d.Latitude, src.Latitude)
	fillPtr(&d.Longitude, src.Longitude)
	fillPtr(&d.Bedrooms, src.Bedrooms)
	fillPtr(&d.Beds, src.Beds)
	fillPtr(&d.Bathrooms, src.Bathrooms)
	fillPtr(&d.MaxGuests, src.MaxGuests)
	fillPtr(&d.HostIsSuperhost, src.HostIsSuperhost)
	fillPtr(&d.HostTotalListings, src.HostTotalListings)
	fillPtr(&d.InstantBook, src.InstantBook)
	fillPtr(&d.CleaningFee, src.CleaningFee)
	fillPtr(&d.ServiceFee, src.ServiceFee)
}

// mergeReviews completes page with whatever scraped adds.
func mergeReviews(page, scraped *listing.ReviewsPage) *listing.ReviewsPage {
	if len(page.Reviews) == 0 && len(scraped.Reviews) > 0 {
		out := *scraped
		if out.Summary == nil {
			out.Summary = page.Summary
		}
		return &out
	}
	if page.Summary == nil {
		page.Summary = scraped.Summary
	}
	return page
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func fillSlice(dst *[]string, v []string) {
	if len(*dst) == 0 && len(v) > 0 {
		*dst = v
	}
}

func fillPtr[T any](dst **T, v *T) {
	if *dst == nil {
		*dst = v
	}
}
