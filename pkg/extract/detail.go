package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/stayscout/pkg/listing"
)

// Detail extracts a listing record from a listing page.
func Detail(raw []byte, base, id string) (*listing.ListingDetail, Outcome, error) {
	d := load(raw)
	rec, out, ok := run(d,
		func(v gjson.Result) (*listing.ListingDetail, Tier, bool) { return detailFromJSON(v, base, id) },
		func(v gjson.Result) (*listing.ListingDetail, bool) { return DetailFromSections(v, base, id) },
		func(doc *goquery.Document) (*listing.ListingDetail, bool) { return detailFromMarkup(doc, base, id) },
	)
	if !ok {
		return nil, out, parseError(listing.OpDetail, id, d)
	}
	return rec, out, nil
}

func detailFromJSON(v gjson.Result, base, id string) (*listing.ListingDetail, Tier, bool) {
	if obj, ok := firstAt(v, gjson.Result.IsObject,
		"props.pageProps.listing",
		"props.pageProps.listingData.listing",
	); ok {
		return legacyDetail(obj, base, id), TierEmbedded, true
	}
	if d, ok := DetailFromSections(v, base, id); ok {
		return d, TierEmbedded, true
	}
	if obj, ok := deepFind(v, MaxDepth, looksLikeListing); ok {
		return legacyDetail(obj, base, id), TierDeepSearch, true
	}
	return nil, "", false
}

// looksLikeListing matches an object with a name and either a description
// or an amenities list.
func looksLikeListing(v gjson.Result) bool {
	return v.IsObject() &&
		v.Get("name").Type == gjson.String &&
		(v.Get("description").Exists() || v.Get("amenities").Exists())
}

func legacyDetail(v gjson.Result, base, id string) *listing.ListingDetail {
	d := &listing.ListingDetail{
		ID:           id,
		Name:         strOr(v, "Unknown listing", "name", "title"),
		Location:     strOr(v, "", "location", "city", "publicAddress"),
		Description:  strOr(v, "", "description", "sectionedDescription.description"),
		Currency:     strOr(v, "$", "priceCurrency", "currency"),
		Rating:       numPtr(v, "avgRating", "overallRating"),
		PropertyType: strOr(v, "", "roomType", "propertyType"),
		HostName:     strOr(v, "", "host.name", "primaryHost.firstName"),
		URL:          base + "/rooms/" + id,
		Amenities:    stringsOf(v.Get("amenities"), "name", "tag"),
		HouseRules:   stringsOf(v.Get("houseRules")),
		Latitude:     numPtr(v, "lat", "latitude"),
		Longitude:    numPtr(v, "lng", "longitude"),
		Photos:       stringsOf(v.Get("photos"), "pictureUrl", "baseUrl", "url"),
		Bedrooms:     countPtr(v, "bedrooms", "bedroomCount"),
		Beds:         countPtr(v, "beds", "bedCount"),
		Bathrooms:    numPtr(v, "bathrooms", "bathroomCount"),
		MaxGuests:    countPtr(v, "personCapacity", "maxGuests"),
		CheckInTime:  strOr(v, "", "checkIn", "checkInTime"),
		CheckOutTime: strOr(v, "", "checkOut", "checkOutTime"),
		HostID:       ident(v, "host.id", "primaryHost.id"),
		InstantBook:  boolPtr(v, "instantBookable", "isInstantBookable"),
	}
	d.PricePerNight, _ = num(v, "price", "pricingQuote.price.amount")
	d.ReviewCount, _ = count(v, "reviewsCount", "visibleReviewCount")
	d.HostIsSuperhost = boolPtr(v, "host.isSuperhost", "primaryHost.isSuperhost")
	if d.Amenities == nil {
		d.Amenities = []string{}
	}
	if d.HouseRules == nil {
		d.HouseRules = []string{}
	}
	if d.Photos == nil {
		d.Photos = []string{}
	}
	return d
}

func detailFromMarkup(doc *goquery.Document, base, id string) (*listing.ListingDetail, bool) {
	name := collapse(doc.Find("h1, [data-testid='listing-title']").First().Text())
	if name == "" {
		return nil, false
	}
	d := &listing.ListingDetail{
		ID:         id,
		Name:       name,
		Currency:   "$",
		URL:        base + "/rooms/" + id,
		Amenities:  []string{},
		HouseRules: []string{},
		Photos:     []string{},
	}
	if desc, ok := doc.Find("meta[name='description'], meta[property='og:description']").First().Attr("content"); ok {
		d.Description = collapse(desc)
	}
	if img, ok := doc.Find("meta[property='og:image']").First().Attr("content"); ok && img != "" {
		d.Photos = append(d.Photos, img)
	}
	return d, true
}
