package extract

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/stayscout/pkg/listing"
)

const (
	sectionsPath = "data.presentation.stayProductDetailPage.sections.sections"
	metadataPath = "data.presentation.stayProductDetailPage.sections.metadata"
)

// pdpSections returns the PDP sections array of a product-detail payload.
func pdpSections(root gjson.Result) (gjson.Result, bool) {
	secs := root.Get(sectionsPath)
	return secs, secs.IsArray()
}

// findSection returns the section body of the first entry whose
// sectionComponentType is one of types.
func findSection(secs gjson.Result, types ...string) (gjson.Result, bool) {
	var found gjson.Result
	secs.ForEach(func(_, s gjson.Result) bool {
		t := s.Get("sectionComponentType").String()
		for _, want := range types {
			if t == want {
				found = sectionBody(s)
				return false
			}
		}
		return true
	})
	return found, found.Exists()
}

func sectionBody(s gjson.Result) gjson.Result {
	if body := s.Get("section"); body.Exists() {
		return body
	}
	return s
}

// DetailFromSections decodes a StaysPdpSections payload. ok is false when
// the payload has no sections array.
func DetailFromSections(root gjson.Result, base, id string) (*listing.ListingDetail, bool) {
	secs, ok := pdpSections(root)
	if !ok {
		return nil, false
	}
	meta := root.Get(metadataPath)
	sharing := meta.Get("sharingConfig")
	logging := meta.Get("loggingContext.eventDataLogging")

	d := &listing.ListingDetail{
		ID:       id,
		URL:      base + "/rooms/" + id,
		Currency: strOr(logging, "USD", "currency"),
	}

	secs.ForEach(func(_, s gjson.Result) bool {
		kind := s.Get("sectionComponentType").String()
		sid := strOr(s, "", "sectionId", "id")
		body := sectionBody(s)

		switch {
		case kind == "TITLE_DEFAULT":
			setStr(&d.Name, body, "title")
			setStr(&d.Location, body, "subtitle")
		case kind == "HERO_DEFAULT":
			if len(d.Photos) == 0 {
				d.Photos = stringsOf(body.Get("previewImages"), "baseUrl")
			}
		case kind == "PHOTO_TOUR_SCROLLABLE" || kind == "PHOTO_TOUR_MODAL":
			d.Photos = appendUnique(d.Photos, stringsOf(body.Get("mediaItems"), "baseUrl", "url")...)
		case kind == "DESCRIPTION_DEFAULT" || kind == "DESCRIPTION_SECTION":
			if html, ok := str(body, "htmlDescription.htmlText"); ok {
				d.Description = StripHTML(html)
			} else {
				setStr(&d.Description, body, "description")
			}
		case kind == "AMENITIES_DEFAULT" || kind == "AMENITIES_SECTION":
			d.Amenities = appendUnique(d.Amenities, amenities(body)...)
		case kind == "POLICIES_DEFAULT" || kind == "HOUSE_RULES_DEFAULT":
			d.HouseRules = append(d.HouseRules, stringsOf(body.Get("houseRules"), "title")...)
			if p, ok := str(body, "cancellationPolicy.title", "cancellationPolicy.policyName", "cancellationPolicyForDisplay"); ok {
				d.CancellationPolicy = p
			}
		case kind == "BOOK_IT_SIDEBAR":
			if p, ok := priceAt(body,
				"structuredStayDisplayPrice.primaryLine.price",
				"structuredDisplayPrice.primaryLine.discountedPrice",
				"structuredDisplayPrice.primaryLine.originalPrice",
				"structuredDisplayPrice.primaryLine.price",
			); ok {
				d.PricePerNight = p
			} else if p, ok := num(body, "price.amount"); ok {
				d.PricePerNight = p
			}
			if d.MaxGuests == nil {
				d.MaxGuests = countPtr(body, "maxGuestCapacity")
			}
		case kind == "OVERVIEW_DEFAULT" || (kind == "SBUI_SENTINEL" && strings.HasPrefix(sid, "OVERVIEW_DEFAULT")):
			overview(d, body.Get("detailItems"))
		case kind == "MEET_YOUR_HOST" || kind == "HOST_PROFILE_DEFAULT" || kind == "HOST_OVERVIEW_DEFAULT":
			h := hostFromSection(body)
			d.HostName = h.Name
			d.HostID = h.HostID
			d.HostIsSuperhost = h.IsSuperhost
			d.HostResponseRate = h.ResponseRate
			d.HostResponseTime = h.ResponseTime
			d.HostJoined = strOr(body, "", "hostMemberSince", "cardData.memberSince")
			d.HostTotalListings = h.TotalListings
			if len(d.HostLanguages) == 0 {
				d.HostLanguages = h.Languages
			}
		case strings.HasPrefix(kind, "LOCATION_"):
			setStr(&d.Location, body, "subtitle", "title")
			setStr(&d.Neighborhood, body, "subtitle", "neighborhoodName")
			d.Latitude = numPtr(body, "lat")
			d.Longitude = numPtr(body, "lng")
		case kind == "REVIEWS_DEFAULT":
			if d.Rating == nil {
				d.Rating = numPtr(body, "overallRating")
			}
			if d.ReviewCount == 0 {
				d.ReviewCount, _ = count(body, "overallCount", "reviewsCount")
			}
		default:
			if d.Rating == nil {
				d.Rating = numPtr(body, "overallRating", "reviewSummary.overallRating")
			}
			if d.ReviewCount == 0 {
				d.ReviewCount, _ = count(body, "overallCount", "reviewsCount", "reviewSummary.totalReviews")
			}
			setStr(&d.PropertyType, body, "propertyType", "roomType")
		}
		return true
	})

	// Page metadata fills what the sections left empty.
	setStr(&d.Name, sharing, "title")
	setStr(&d.Location, sharing, "location")
	setStr(&d.PropertyType, sharing, "propertyType")
	setStr(&d.PropertyType, logging, "roomType")
	if d.PricePerNight == 0 {
		d.PricePerNight, _ = num(logging, "listingPrice")
	}
	if d.Rating == nil {
		d.Rating = numPtr(sharing, "starRating")
	}
	if d.Rating == nil {
		d.Rating = numPtr(logging, "guestSatisfactionOverall")
	}
	if d.Latitude == nil {
		d.Latitude = numPtr(logging, "listingLat")
	}
	if d.Longitude == nil {
		d.Longitude = numPtr(logging, "listingLng")
	}
	if len(d.Photos) == 0 {
		if u, ok := str(sharing, "imageUrl"); ok {
			d.Photos = []string{u}
		}
	}
	if d.MaxGuests == nil {
		d.MaxGuests = countPtr(sharing, "personCapacity")
	}
	d.InstantBook = boolPtr(logging, "instantBook", "isInstantBook")

	prefetch := meta.Get("bookingPrefetchData")
	setStr(&d.CheckInTime, prefetch, "checkIn")
	setStr(&d.CheckOutTime, prefetch, "checkOut")
	if d.CheckInTime == "" || d.CheckOutTime == "" {
		in, out := checkTimes(d.HouseRules)
		setString(&d.CheckInTime, in)
		setString(&d.CheckOutTime, out)
	}
	prefetch.Get("priceBreakdown.priceItems").ForEach(func(_, item gjson.Result) bool {
		label := strings.ToLower(item.Get("localizedTitle").String())
		amount := numPtr(item, "total.amount")
		if micros, ok := num(item, "total.amountMicros"); ok {
			amount = listing.Ptr(micros / 1_000_000)
		}
		switch {
		case strings.Contains(label, "cleaning"):
			d.CleaningFee = amount
		case strings.Contains(label, "service"):
			d.ServiceFee = amount
		}
		return true
	})

	return d, true
}

// HostFromSections decodes the host card of a StaysPdpSections payload.
func HostFromSections(root gjson.Result) (*listing.HostProfile, bool) {
	secs, ok := pdpSections(root)
	if !ok {
		return nil, false
	}
	var found gjson.Result
	secs.ForEach(func(_, s gjson.Result) bool {
		if strings.Contains(s.Get("sectionComponentType").String(), "HOST") {
			found = sectionBody(s)
			return false
		}
		return true
	})
	if !found.Exists() {
		return nil, false
	}
	h := hostFromSection(found)
	setString(&h.Name, "Unknown")
	return &h, true
}

// reviewsFromSections decodes the REVIEWS_DEFAULT section of a PDP payload.
// It requires an overall rating.
func reviewsFromSections(root gjson.Result, id string) (*listing.ReviewsPage, bool) {
	secs, ok := pdpSections(root)
	if !ok {
		return nil, false
	}
	body, ok := findSection(secs, "REVIEWS_DEFAULT")
	if !ok {
		return nil, false
	}
	summary, ok := summaryFromRatings(body)
	if !ok {
		return nil, false
	}

	page := &listing.ReviewsPage{ListingID: id, Summary: summary, Reviews: []listing.Review{}}
	body.Get("reviewsData.reviews").ForEach(func(_, item gjson.Result) bool {
		if r, ok := reviewFromJSON(item); ok {
			page.Reviews = append(page.Reviews, r)
		}
		return true
	})
	if len(page.Reviews) == 0 {
		root.Get("data.presentation.stayProductDetailPage.sections.sbuiData.sectionConfiguration.root.sections").
			ForEach(func(_, s gjson.Result) bool {
				s.Get("sectionData.reviewHighlights").ForEach(func(_, h gjson.Result) bool {
					if text, ok := str(h, "reviewText"); ok {
						page.Reviews = append(page.Reviews, listing.Review{
							Author:  strOr(h, "Guest", "reviewerName"),
							Comment: text,
						})
					}
					return true
				})
				return true
			})
	}
	return page, true
}

func hostFromSection(section gjson.Result) listing.HostProfile {
	card := section.Get("cardData")
	h := listing.HostProfile{
		Name:              strOr(card, strOr(section, "", "hostName", "name"), "name"),
		HostID:            ident(card, "userId", "id", "hostId"),
		IsSuperhost:       boolPtr(card, "isSuperhost"),
		ProfilePictureURL: strOr(card, strOr(section, "", "profilePicture.baseUrl", "profilePictureUrl"), "profilePictureUrl", "profilePicture", "avatarUrl", "pictureUrl"),
		IdentityVerified:  boolPtr(card, "isIdentityVerified", "identityVerified", "isVerified"),
		TotalListings:     countPtr(card, "listingsCount", "hostListingCount"),
		Description:       strOr(card, strOr(section, "", "about", "description"), "about", "description"),
	}
	if h.HostID == "" {
		h.HostID = ident(section, "hostId", "id")
	}
	if h.IsSuperhost == nil {
		h.IsSuperhost = boolPtr(section, "isSuperhost")
	}
	if h.IdentityVerified == nil {
		h.IdentityVerified = boolPtr(section, "isIdentityVerified")
	}
	if h.TotalListings == nil {
		h.TotalListings = countPtr(section, "listingsCount", "hostListingCount")
	}

	for _, detail := range stringsOf(section.Get("hostDetails")) {
		lower := strings.ToLower(detail)
		switch {
		case strings.Contains(lower, "response rate"):
			h.ResponseRate = detail
		case strings.Contains(lower, "respond"):
			h.ResponseTime = detail
		}
	}
	setStr(&h.ResponseRate, card, "responseRate")
	setStr(&h.ResponseRate, section, "hostResponseRate")
	setStr(&h.ResponseTime, card, "responseTime")
	setStr(&h.ResponseTime, section, "hostRespondTimeCopy", "hostResponseTime")

	if years, ok := count(card, "timeAsHost.years"); ok {
		h.MemberSince = strconv.Itoa(years) + " years hosting"
	}
	setStr(&h.MemberSince, card, "memberSince", "createdAt", "joinedDate")
	setStr(&h.MemberSince, section, "hostMemberSince")

	h.Languages = stringsOf(card.Get("languages"))
	if len(h.Languages) == 0 {
		h.Languages = languagesFromHighlights(section.Get("hostHighlights"))
	}
	if len(h.Languages) == 0 {
		h.Languages = stringsOf(section.Get("hostLanguages"))
	}
	return h
}

// languagesFromHighlights parses entries such as "Speaks English and French".
func languagesFromHighlights(highlights gjson.Result) []string {
	var out []string
	highlights.ForEach(func(_, h gjson.Result) bool {
		title := h.Get("title").String()
		rest, ok := cutPrefixFold(title, "speaks ")
		if !ok {
			return true
		}
		for _, part := range strings.FieldsFunc(rest, func(r rune) bool { return r == ',' || r == '&' }) {
			for _, lang := range strings.Split(part, " and ") {
				if lang = strings.TrimSpace(lang); lang != "" {
					out = append(out, lang)
				}
			}
		}
		return false
	})
	return out
}

func amenities(body gjson.Result) []string {
	groups, ok := firstAt(body, gjson.Result.IsArray, "seeAllAmenitiesGroups", "previewAmenitiesGroups", "amenityGroups")
	if !ok {
		return nil
	}
	var out []string
	groups.ForEach(func(_, g gjson.Result) bool {
		g.Get("amenities").ForEach(func(_, a gjson.Result) bool {
			if avail := a.Get("available"); avail.IsBool() && !avail.Bool() {
				return true
			}
			if title, ok := str(a, "title"); ok {
				out = append(out, title)
			}
			return true
		})
		return true
	})
	return out
}

// overview reads counts from items such as "4 guests", "2 bedrooms", "1.5 baths".
func overview(d *listing.ListingDetail, items gjson.Result) {
	items.ForEach(func(_, item gjson.Result) bool {
		title := item.Get("title").String()
		n := leadingInt(title)
		switch {
		case strings.Contains(title, "guest"):
			d.MaxGuests = n
		case strings.Contains(title, "bedroom"):
			d.Bedrooms = n
		case strings.Contains(title, "bed"):
			d.Beds = n
		case strings.Contains(title, "bath"):
			d.Bathrooms = leadingFloat(title)
		}
		return true
	})
}

// checkTimes picks the check-in and checkout rules out of the house rules.
func checkTimes(rules []string) (in, out string) {
	for _, r := range rules {
		lower := strings.ToLower(r)
		switch {
		case strings.HasPrefix(lower, "check-in") || strings.HasPrefix(lower, "checkin"):
			in = r
		case strings.HasPrefix(lower, "checkout") || strings.HasPrefix(lower, "check out") || strings.HasPrefix(lower, "check-out"):
			out = r
		}
	}
	return in, out
}

// setStr fills an empty *dst from the first string at paths.
func setStr(dst *string, v gjson.Result, paths ...string) {
	if *dst != "" {
		return
	}
	if s, ok := str(v, paths...); ok {
		*dst = s
	}
}

func setString(dst *string, s string) {
	if *dst == "" {
		*dst = s
	}
}

func appendUnique(dst []string, items ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			dst = append(dst, s)
		}
	}
	return dst
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return "", false
}
