package extract

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/stayscout/pkg/listing"
)

// Calendar extracts a price calendar from a calendar document. There is no
// markup tier: the rendered calendar carries no prices.
func Calendar(raw []byte, id string) (*listing.PriceCalendar, Outcome, error) {
	d := load(raw)
	cal, out, ok := run(d,
		func(v gjson.Result) (*listing.PriceCalendar, Tier, bool) { return calendarFromJSON(v, id) },
		nil, nil,
	)
	if !ok {
		return nil, out, parseError(listing.OpCalendar, id, d)
	}
	return cal, out, nil
}

// CalendarJSON decodes a PdpAvailabilityCalendar payload.
func CalendarJSON(root gjson.Result, id string) (*listing.PriceCalendar, bool) {
	cal, _, ok := calendarFromJSON(root, id)
	return cal, ok
}

var calendarPaths = []string{
	"props.pageProps.calendarData",
	"props.pageProps.listing.calendarData",
	"data.merlin.pdpAvailabilityCalendar",
}

func calendarFromJSON(v gjson.Result, id string) (*listing.PriceCalendar, Tier, bool) {
	tier := TierEmbedded
	data := v
	if !hasMonths(v) {
		var ok bool
		if data, ok = firstAt(v, func(r gjson.Result) bool { return r.IsObject() || r.IsArray() }, calendarPaths...); !ok {
			if data, ok = deepFind(v, MaxDepth, looksLikeCalendar); !ok {
				return nil, "", false
			}
			tier = TierDeepSearch
		}
	}

	cal := &listing.PriceCalendar{
		ListingID: id,
		Currency:  strOr(data, "$", "currency", "priceCurrency"),
	}
	today := now().Format(time.DateOnly)
	for _, day := range daysOf(data) {
		if cd, ok := calendarDay(day, today); ok {
			cal.Days = append(cal.Days, cd)
		}
	}
	if len(cal.Days) == 0 {
		return nil, "", false
	}
	cal.ComputeStats()
	return cal, tier, true
}

func hasMonths(v gjson.Result) bool {
	return v.Get("calendarMonths").IsArray() || v.Get("calendar_months").IsArray()
}

func looksLikeCalendar(v gjson.Result) bool {
	if v.IsObject() {
		return hasMonths(v) || hasDayItems(v.Get("days"))
	}
	return hasDayItems(v)
}

func hasDayItems(v gjson.Result) bool {
	if !v.IsArray() {
		return false
	}
	match := false
	v.ForEach(func(_, item gjson.Result) bool {
		match = item.Get("date").Exists() || item.Get("calendarDate").Exists()
		return !match
	})
	return match
}

func daysOf(data gjson.Result) []gjson.Result {
	months, ok := firstAt(data, gjson.Result.IsArray, "calendarMonths", "calendar_months")
	if ok {
		var days []gjson.Result
		months.ForEach(func(_, m gjson.Result) bool {
			days = append(days, m.Get("days").Array()...)
			return true
		})
		return days
	}
	if data.IsArray() {
		return data.Array()
	}
	return data.Get("days").Array()
}

// calendarDay decodes one night. today is the reference date in ISO form,
// so string comparison orders dates.
func calendarDay(v gjson.Result, today string) (listing.CalendarDay, bool) {
	date, ok := str(v, "date", "calendarDate")
	if !ok {
		return listing.CalendarDay{}, false
	}
	d := listing.CalendarDay{
		Date:              date,
		Available:         v.Get("available").Bool() || v.Get("isAvailable").Bool(),
		Price:             dayPrice(v),
		MinNights:         countPtr(v, "minNights", "minimumNights", "min_nights"),
		MaxNights:         countPtr(v, "maxNights", "maximumNights", "max_nights"),
		ClosedToArrival:   boolPtr(v, "closedToArrival"),
		ClosedToDeparture: boolPtr(v, "closedToDeparture"),
	}
	if !d.Available {
		d.Reason = unavailability(v, d, today)
	}
	return d, true
}

func dayPrice(v gjson.Result) *float64 {
	if p := numPtr(v, "price", "price.amount", "price.local_price", "price.native_price"); p != nil {
		return p
	}
	if p, ok := priceAt(v, "price", "localPriceFormatted", "price.localPriceFormatted", "price_string"); ok {
		return &p
	}
	return nil
}

// unavailability infers why an unavailable night cannot be booked. The
// checks run in a fixed order and the first match wins.
func unavailability(v gjson.Result, d listing.CalendarDay, today string) listing.UnavailabilityReason {
	if len(d.Date) >= len(today) && d.Date[:len(today)] < today {
		return listing.ReasonPastDate
	}
	status := strings.ToLower(strOr(v, "", "bookingStatusType", "booking_status_type", "bookingStatus"))
	if strings.Contains(status, "booked") || strings.Contains(status, "reservation") {
		return listing.ReasonBooked
	}
	if auto := boolPtr(v, "autoAvailability", "auto_availability"); auto != nil && !*auto {
		return listing.ReasonBlockedByHost
	}
	if blocked := boolPtr(v, "hostBlocked", "host_blocked", "blocked"); blocked != nil && *blocked {
		return listing.ReasonBlockedByHost
	}
	if d.ClosedToArrival != nil && *d.ClosedToArrival && d.ClosedToDeparture != nil && *d.ClosedToDeparture {
		return listing.ReasonMinNightRestriction
	}
	return listing.ReasonUnknown
}
