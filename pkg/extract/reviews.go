package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/stayscout/pkg/listing"
)

// Reviews extracts a page of reviews from a reviews document.
func Reviews(raw []byte, id string) (*listing.ReviewsPage, Outcome, error) {
	d := load(raw)
	page, out, ok := run(d,
		func(v gjson.Result) (*listing.ReviewsPage, Tier, bool) { return reviewsFromJSON(v, id) },
		func(v gjson.Result) (*listing.ReviewsPage, bool) { return reviewsFromSections(v, id) },
		func(doc *goquery.Document) (*listing.ReviewsPage, bool) { return reviewsFromMarkup(doc, id) },
	)
	if !ok {
		return nil, out, parseError(listing.OpReviews, id, d)
	}
	return page, out, nil
}

// ReviewsJSON decodes a StaysPdpReviewsQuery payload. ok is false when the
// reviews object is missing. The next cursor is the offset of the following
// page, present only while more reviews remain.
func ReviewsJSON(root gjson.Result, id string) (*listing.ReviewsPage, bool) {
	data := root.Get("data.presentation.stayProductDetailPage.reviews")
	if !data.IsObject() {
		return nil, false
	}

	page := &listing.ReviewsPage{ListingID: id, Reviews: []listing.Review{}}
	if s, ok := summaryFromRatings(data); ok {
		page.Summary = s
	}
	data.Get("reviews").ForEach(func(_, item gjson.Result) bool {
		if r, ok := reviewFromJSON(item); ok {
			page.Reviews = append(page.Reviews, r)
		}
		return true
	})

	offset, _ := count(data, "metadata.offset")
	if total, ok := count(data, "reviewsCount", "metadata.reviewsCount"); ok {
		if next := offset + len(page.Reviews); len(page.Reviews) > 0 && next < total {
			page.NextCursor = strconv.Itoa(next)
		}
	}
	return page, true
}

var reviewPaths = []string{
	"props.pageProps.reviews",
	"props.pageProps.listing.reviews",
	"data.presentation.stayProductDetailPage.reviews.reviews",
}

func reviewsFromJSON(v gjson.Result, id string) (*listing.ReviewsPage, Tier, bool) {
	tier := TierEmbedded
	arr, ok := firstAt(v, gjson.Result.IsArray, reviewPaths...)
	if !ok {
		obj, found := deepFind(v, MaxDepth, looksLikeReviews)
		if !found {
			return nil, "", false
		}
		arr, tier = obj.Get("reviews"), TierDeepSearch
	}

	page := &listing.ReviewsPage{ListingID: id, Summary: legacySummary(v)}
	arr.ForEach(func(_, item gjson.Result) bool {
		if r, ok := reviewFromJSON(item); ok {
			page.Reviews = append(page.Reviews, r)
		}
		return true
	})
	if len(page.Reviews) == 0 {
		return nil, "", false
	}
	return page, tier, true
}

// looksLikeReviews matches an object holding a reviews array whose items
// carry review fields.
func looksLikeReviews(v gjson.Result) bool {
	if !v.IsObject() {
		return false
	}
	arr := v.Get("reviews")
	if !arr.IsArray() {
		return false
	}
	match := false
	arr.ForEach(func(_, item gjson.Result) bool {
		match = item.Get("comments").Exists() || item.Get("comment").Exists() || item.Get("reviewer").Exists()
		return !match
	})
	return match
}

func reviewFromJSON(item gjson.Result) (listing.Review, bool) {
	comment, ok := str(item, "comments", "comment", "text", "body", "content")
	if !ok {
		return listing.Review{}, false
	}
	r := listing.Review{
		Author:           strOr(item, "Anonymous", "reviewer.firstName", "reviewer.name", "reviewerName", "author", "authorName"),
		Date:             strOr(item, "", "createdAt", "date", "localizedDate"),
		Rating:           numPtr(item, "rating"),
		Comment:          comment,
		Response:         strOr(item, "", "response", "response.comments", "response.text", "hostResponse.comments"),
		ReviewerLocation: strOr(item, "", "reviewer.location"),
		Language:         strOr(item, "", "language"),
		IsTranslated:     boolPtr(item, "isTranslated"),
	}
	return r, true
}

// summaryFromRatings reads an overall rating with per-category ratings.
func summaryFromRatings(v gjson.Result) (*listing.ReviewsSummary, bool) {
	overall, ok := num(v, "overallRating", "reviewSummary.overallRating")
	if !ok {
		return nil, false
	}
	s := &listing.ReviewsSummary{OverallRating: overall}
	s.TotalReviews, _ = count(v, "reviewsCount", "overallCount", "reviewSummary.totalReviews")

	cats, _ := firstAt(v, gjson.Result.IsArray, "ratings", "categoryRatings", "reviewSummary.categoryRatings")
	cats.ForEach(func(_, c gjson.Result) bool {
		score := numPtr(c, "value", "rating")
		if score == nil {
			if text, ok := str(c, "localizedRating"); ok {
				if f, err := strconv.ParseFloat(text, 64); err == nil {
					score = &f
				}
			}
		}
		if score == nil {
			if pct, ok := num(c, "percentage"); ok {
				score = listing.Ptr(pct * 5)
			}
		}

		label := strings.ToLower(strOr(c, "", "label", "name"))
		switch kind := c.Get("categoryType").String(); {
		case label == "cleanliness" || kind == "CLEANLINESS":
			s.Cleanliness = score
		case label == "accuracy" || kind == "ACCURACY":
			s.Accuracy = score
		case label == "communication" || kind == "COMMUNICATION":
			s.Communication = score
		case label == "location" || kind == "LOCATION":
			s.Location = score
		case label == "check-in" || label == "checkin" || label == "check_in" || kind == "CHECKIN":
			s.CheckIn = score
		case label == "value" || kind == "VALUE":
			s.Value = score
		}
		return true
	})
	return s, true
}

// legacySummary reads the flat rating fields of older page payloads.
func legacySummary(v gjson.Result) *listing.ReviewsSummary {
	for _, p := range []string{"props.pageProps.listing", "data.presentation.stayProductDetailPage.reviewsSummary"} {
		cur := v.Get(p)
		overall, ok := num(cur, "avgRating", "overallRating")
		if !ok {
			continue
		}
		total, _ := count(cur, "reviewsCount", "totalReviews")
		return &listing.ReviewsSummary{
			OverallRating: overall,
			TotalReviews:  total,
			Cleanliness:   numPtr(cur, "cleanlinessRating"),
			Accuracy:      numPtr(cur, "accuracyRating"),
			Communication: numPtr(cur, "communicationRating"),
			Location:      numPtr(cur, "locationRating"),
			CheckIn:       numPtr(cur, "checkinRating"),
			Value:         numPtr(cur, "valueRating"),
		}
	}
	return nil
}

func reviewsFromMarkup(doc *goquery.Document, id string) (*listing.ReviewsPage, bool) {
	page := &listing.ReviewsPage{ListingID: id}
	doc.Find("[data-testid='review'], [itemprop='review']").Each(func(_ int, s *goquery.Selection) {
		if text := collapse(s.Text()); text != "" {
			page.Reviews = append(page.Reviews, listing.Review{Author: "Guest", Comment: text})
		}
	})
	return page, len(page.Reviews) > 0
}
