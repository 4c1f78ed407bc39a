package errors

import (
	"strings"
	"time"
	"unicode"
)

// DateLayout is the calendar date format accepted for check-in and check-out.
const DateLayout = "2006-01-02"

// MaxCalendarMonths bounds calendar and occupancy requests.
const MaxCalendarMonths = 12

// ValidateListingID validates a listing id before it is placed in a URL.
// Listing ids are decimal numbers; anything else is rejected so ids can never
// smuggle path segments or query strings into upstream requests.
func ValidateListingID(op, id string) error {
	if id == "" {
		return Validation(op, "listing id cannot be empty")
	}
	if len(id) > 32 {
		return Validation(op, "listing id too long (max 32 characters)")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return Validation(op, "listing id must be numeric, got %q", id)
		}
	}
	return nil
}

// ValidateDate parses a YYYY-MM-DD date for the named field.
func ValidateDate(op, field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, Validation(op, "%s must be formatted YYYY-MM-DD, got %q", field, value)
	}
	return t, nil
}

// ValidateMonths checks a calendar window length.
func ValidateMonths(op string, months int) error {
	if months < 1 || months > MaxCalendarMonths {
		return Validation(op, "months must be between 1 and %d, got %d", MaxCalendarMonths, months)
	}
	return nil
}

// ValidateText rejects free-text parameters (locations, cursors) that are
// empty when required, too long, or contain control characters.
func ValidateText(op, field, value string, required bool) error {
	if strings.TrimSpace(value) == "" {
		if required {
			return Validation(op, "%s cannot be empty", field)
		}
		return nil
	}
	if len(value) > 512 {
		return Validation(op, "%s too long (max 512 characters)", field)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return Validation(op, "%s contains invalid control characters", field)
		}
	}
	return nil
}
