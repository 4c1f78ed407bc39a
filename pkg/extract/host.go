package extract

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/stayscout/pkg/listing"
)

// Host extracts the host profile from a listing page. There is no markup tier.
func Host(raw []byte, id string) (*listing.HostProfile, Outcome, error) {
	d := load(raw)
	h, out, ok := run(d, hostFromJSON, HostFromSections, nil)
	if !ok {
		return nil, out, parseError(listing.OpHost, id, d)
	}
	return h, out, nil
}

// HostJSON decodes a host profile from a structured payload: a user profile
// object when present, otherwise the host section of a PDP payload.
func HostJSON(root gjson.Result) (*listing.HostProfile, bool) {
	if obj, ok := firstAt(root, gjson.Result.IsObject,
		"data.presentation.userProfileContainer.userProfile",
		"data.presentation.userProfileContainer",
		"data.user",
	); ok {
		return profileFromJSON(obj), true
	}
	return HostFromSections(root)
}

func hostFromJSON(v gjson.Result) (*listing.HostProfile, Tier, bool) {
	if h, ok := HostJSON(v); ok {
		return h, TierEmbedded, true
	}
	if obj, ok := firstAt(v, gjson.Result.IsObject,
		"props.pageProps.listing.host",
		"props.pageProps.listing.primaryHost",
	); ok {
		return profileFromJSON(obj), TierEmbedded, true
	}
	if s, ok := deepFind(v, MaxDepth, looksLikeHostSection); ok {
		h := hostFromSection(sectionBody(s))
		setString(&h.Name, "Unknown")
		return &h, TierDeepSearch, true
	}
	return nil, "", false
}

func looksLikeHostSection(v gjson.Result) bool {
	return v.IsObject() && strings.Contains(v.Get("sectionComponentType").String(), "HOST")
}

func profileFromJSON(v gjson.Result) *listing.HostProfile {
	h := &listing.HostProfile{
		HostID:            ident(v, "id", "hostId", "userId"),
		Name:              strOr(v, "Unknown", "name", "hostName", "firstName", "smartName"),
		IsSuperhost:       boolPtr(v, "isSuperhost"),
		ResponseTime:      strOr(v, "", "responseTime", "hostResponseTime"),
		MemberSince:       strOr(v, "", "memberSince", "createdAt", "hostMemberSince"),
		Languages:         stringsOf(v.Get("languages")),
		TotalListings:     countPtr(v, "listingsCount", "hostListingCount", "totalListingsCount"),
		Description:       strOr(v, "", "about", "description"),
		ProfilePictureURL: strOr(v, "", "profilePictureUrl", "pictureUrl"),
		IdentityVerified:  boolPtr(v, "isIdentityVerified", "identityVerified"),
	}
	if len(h.Languages) == 0 {
		h.Languages = stringsOf(v.Get("hostLanguages"))
	}
	if rate, ok := str(v, "responseRate", "hostResponseRate"); ok {
		h.ResponseRate = rate
	} else if n, ok := num(v, "responseRate", "hostResponseRate"); ok {
		h.ResponseRate = strconv.FormatFloat(n, 'f', -1, 64) + "%"
	}
	return h
}
