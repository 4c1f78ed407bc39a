package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/stayscout/pkg/listing"
)

// Search extracts a page of search results from a search document.
// location is only used to label errors.
func Search(raw []byte, base, location string) (*listing.SearchResult, Outcome, error) {
	d := load(raw)
	res, out, ok := run(d,
		func(v gjson.Result) (*listing.SearchResult, Tier, bool) { return searchFromJSON(v, base) },
		nil,
		func(doc *goquery.Document) (*listing.SearchResult, bool) { return searchFromMarkup(doc, base) },
	)
	if !ok {
		return nil, out, parseError(listing.OpSearch, location, d)
	}
	return res, out, nil
}

var structuredResultPaths = []string{
	"data.presentation.staysSearch.results.searchResults",
	"data.presentation.explore.sections.sectionIndependentData.staysSearch.searchResults",
}

// SearchJSON decodes a StaysSearch payload. ok is false when the results
// array is missing; an empty array is a valid empty page.
func SearchJSON(root gjson.Result, base string) (*listing.SearchResult, bool) {
	arr, ok := firstAt(root, gjson.Result.IsArray, structuredResultPaths...)
	if !ok {
		return nil, false
	}

	res := &listing.SearchResult{Listings: []listing.Listing{}}
	arr.ForEach(func(_, item gjson.Result) bool {
		if l, ok := structuredListing(item, base); ok {
			res.Listings = append(res.Listings, l)
		}
		return true
	})

	pagination, _ := firstAt(root, gjson.Result.IsObject,
		"data.presentation.staysSearch.results.paginationInfo",
		"data.presentation.explore.sections.sectionIndependentData.staysSearch.paginationInfo",
	)
	res.TotalCount = countPtr(pagination, "totalCount")
	res.NextCursor = strOr(pagination, "", "nextPageCursor")
	return res, true
}

func structuredListing(item gjson.Result, base string) (listing.Listing, bool) {
	v := item
	if inner := item.Get("listing"); inner.IsObject() {
		v = inner
	}
	id := ident(v, "id")
	if id == "" {
		if enc, ok := str(item, "demandStayListing.id"); ok {
			id, _ = decodeGlobalID(enc)
		}
	}
	if id == "" {
		return listing.Listing{}, false
	}

	quote := item.Get("pricingQuote")
	price, ok := priceAt(quote, "structuredStayDisplayPrice.primaryLine.price")
	if !ok {
		price, _ = num(quote, "rate.amount")
	}

	l := listing.Listing{
		ID:            id,
		Name:          strOr(v, "Unknown", "name", "title"),
		Location:      strOr(v, "", "city", "localizedCityName"),
		PricePerNight: price,
		Currency:      strOr(quote, "USD", "rate.currency"),
		Rating:        numPtr(v, "avgRating"),
		ThumbnailURL:  strOr(v, "", "contextualPictures.0.picture", "pictureUrl"),
		PropertyType:  strOr(v, "", "roomTypeCategory", "roomType"),
		URL:           base + "/rooms/" + id,
		IsSuperhost:   boolPtr(v, "isSuperhost", "primaryHost.isSuperhost"),
		Latitude:      numPtr(v, "latitude", "coordinate.latitude"),
		Longitude:     numPtr(v, "longitude", "coordinate.longitude"),
	}
	l.ReviewCount, _ = count(v, "reviewsCount")
	if total, ok := priceAt(quote, "structuredStayDisplayPrice.primaryLine.originalPrice"); ok {
		l.TotalPrice = &total
	}
	return l, true
}

var searchPaths = []string{
	"props.pageProps.searchResults",
	"niobeMinimalClientData",
	"data.presentation.staysSearch.results.searchResults",
}

func searchFromJSON(v gjson.Result, base string) (*listing.SearchResult, Tier, bool) {
	res := &listing.SearchResult{}
	tier := TierEmbedded
	if arr, ok := firstAt(v, gjson.Result.IsArray, searchPaths...); ok {
		res.Listings = listingsOf(arr, base)
	}
	if len(res.Listings) == 0 {
		arr, ok := deepFind(v, MaxDepth, looksLikeResults)
		if !ok {
			return nil, "", false
		}
		res.Listings, tier = listingsOf(arr, base), TierDeepSearch
	}
	if len(res.Listings) == 0 {
		return nil, "", false
	}

	res.NextCursor = strOr(v, "",
		"data.presentation.staysSearch.results.paginationInfo.nextPageCursor",
		"props.pageProps.pagination.nextCursor",
	)
	res.TotalCount = countPtr(v, "data.presentation.staysSearch.results.paginationInfo.totalCount")
	return res, tier, true
}

// listingsOf decodes every card of arr, choosing the format per item.
func listingsOf(arr gjson.Result, base string) []listing.Listing {
	var out []listing.Listing
	arr.ForEach(func(_, item gjson.Result) bool {
		var (
			l  listing.Listing
			ok bool
		)
		if item.Get("demandStayListing").Exists() || item.Get("structuredDisplayPrice").Exists() {
			l, ok = niobeListing(item, base)
		} else {
			l, ok = legacyListing(item, base)
		}
		if ok {
			out = append(out, l)
		}
		return true
	})
	return out
}

// looksLikeResults matches an array holding at least one listing-shaped item.
func looksLikeResults(v gjson.Result) bool {
	if !v.IsArray() {
		return false
	}
	match := false
	v.ForEach(func(_, item gjson.Result) bool {
		match = item.Get("listing").Exists() ||
			item.Get("id").Type == gjson.String ||
			item.Get("listingId").Exists()
		return !match
	})
	return match
}

// niobeListing decodes the client-side search card format.
func niobeListing(item gjson.Result, base string) (listing.Listing, bool) {
	enc, ok := str(item, "demandStayListing.id")
	if !ok {
		return listing.Listing{}, false
	}
	id, ok := decodeGlobalID(enc)
	if !ok {
		return listing.Listing{}, false
	}

	title := strOr(item, "", "title")
	l := listing.Listing{
		ID:   id,
		Name: strOr(item, "Unknown listing", "subtitle", "nameLocalized.localizedStringWithTranslationPreference", "title"),
		URL:  base + "/rooms/" + id,
	}
	if i := strings.LastIndex(title, " in "); i >= 0 {
		l.Location = title[i+len(" in "):]
	}

	display := item.Get("structuredDisplayPrice")
	primary := strOr(display, "", "primaryLine.price", "primaryLine.discountedPrice")
	if desc, ok := str(display, "explanationData.priceDetails.0.items.0.description"); ok {
		if _, per, found := strings.Cut(desc, " x "); found {
			l.PricePerNight, _ = parsePrice(per)
		}
	}
	if l.PricePerNight == 0 {
		l.PricePerNight, _ = parsePrice(primary)
	}
	l.Currency = currencySymbol(primary)
	if l.Currency == "" {
		l.Currency = "$"
	}
	if total, ok := priceAt(display, "secondaryLine.price"); ok {
		l.TotalPrice = &total
	}

	if rating, ok := str(item, "avgRatingLocalized"); ok {
		l.Rating = leadingFloat(rating)
		if open := strings.Index(rating, "("); open >= 0 {
			if n := leadingInt(strings.Trim(rating[open:], "()")); n != nil {
				l.ReviewCount = *n
			}
		}
	}

	item.Get("contextualPictures").ForEach(func(_, p gjson.Result) bool {
		if u, ok := str(p, "picture"); ok {
			l.Photos = append(l.Photos, u)
		}
		return true
	})
	if len(l.Photos) > 0 {
		l.ThumbnailURL = l.Photos[0]
	}

	l.PropertyType = propertyTypeOf(title)

	superhost := false
	item.Get("structuredContent.primaryLine").ForEach(func(_, line gjson.Result) bool {
		body := line.Get("body").String()
		if line.Get("type").String() == "HOSTINFO" && l.HostName == "" {
			l.HostName = strings.TrimPrefix(body, "Hosted by ")
		}
		if strings.Contains(body, "Superhost") {
			superhost = true
		}
		return true
	})
	guestFavorite := item.Get("guestFavorite").Bool()
	item.Get("badges").ForEach(func(_, b gjson.Result) bool {
		switch strOr(b, b.String(), "loggingContext.badgeType", "type") {
		case "SUPERHOST":
			superhost = true
		case "GUEST_FAVORITE":
			guestFavorite = true
		}
		return true
	})
	l.IsSuperhost = &superhost
	l.IsGuestFavorite = &guestFavorite
	l.InstantBook = boolPtr(item, "demandStayListing.instantBookEnabled")

	coord := item.Get("demandStayListing.location.coordinate")
	l.Latitude = numPtr(coord, "latitude")
	l.Longitude = numPtr(coord, "longitude")
	return l, true
}

// propertyTypeOf maps a card title such as "Apartment in Paris" to a
// listing category.
func propertyTypeOf(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "room in") || strings.Contains(t, "place to stay"):
		return "Private room"
	case strings.Contains(t, "hotel"):
		return "Hotel"
	}
	for _, kind := range []string{"apartment", "home", "condo", "loft", "townhouse", "villa", "rental unit"} {
		if strings.Contains(t, kind) {
			return "Entire home"
		}
	}
	return ""
}

// legacyListing decodes the server-rendered search card format. A card
// without a price is skipped.
func legacyListing(item gjson.Result, base string) (listing.Listing, bool) {
	v := item
	if inner := item.Get("listing"); inner.IsObject() {
		v = inner
	}
	id := ident(v, "id", "listingId")
	if id == "" {
		return listing.Listing{}, false
	}

	quote := item.Get("pricingQuote")
	price, ok := num(quote, "price.amount")
	if !ok {
		price, ok = priceAt(quote, "structuredStayDisplayPrice.primaryLine.price")
	}
	if !ok {
		if price, ok = num(v, "price", "pricePerNight"); !ok {
			price, ok = priceAt(v, "price", "pricePerNight")
		}
	}
	if !ok {
		return listing.Listing{}, false
	}

	l := listing.Listing{
		ID:            id,
		Name:          strOr(v, "Unknown listing", "name", "title"),
		Location:      strOr(v, "", "city", "location", "publicAddress"),
		PricePerNight: price,
		Currency:      strOr(quote, "", "price.currencySymbol", "price.currency"),
		Rating:        numPtr(v, "avgRating"),
		ThumbnailURL:  strOr(v, "", "contextualPictures.0.picture", "thumbnail", "pictureUrl"),
		PropertyType:  strOr(v, "", "roomType", "propertyType"),
		HostName:      strOr(v, "", "user.firstName", "hostName"),
		URL:           base + "/rooms/" + id,
		IsSuperhost:   boolPtr(v, "isSuperhost"),
	}
	if l.Currency == "" {
		l.Currency = strOr(v, "$", "currency", "priceCurrency")
	}
	l.ReviewCount, _ = count(v, "reviewsCount")
	return l, true
}

func searchFromMarkup(doc *goquery.Document, base string) (*listing.SearchResult, bool) {
	res := &listing.SearchResult{}
	seen := map[string]bool{}
	doc.Find("[itemprop='itemListElement'], [data-testid='card-container']").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("a[href*='/rooms/']").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		id := roomID(href)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true

		name := collapse(link.Text())
		if name == "" {
			name = "Untitled listing"
		}
		res.Listings = append(res.Listings, listing.Listing{
			ID:       id,
			Name:     name,
			Currency: "$",
			URL:      base + "/rooms/" + id,
		})
	})
	return res, len(res.Listings) > 0
}

// roomID returns the path segment following "rooms" in a listing link.
func roomID(href string) string {
	path := href
	if u, err := url.Parse(href); err == nil {
		path = u.Path
	}
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		if s == "rooms" && i+1 < len(segs) {
			return segs[i+1]
		}
	}
	return ""
}
