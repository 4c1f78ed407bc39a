package errors

import (
	"strings"
	"testing"
)

func TestValidateListingID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid short", "123", false},
		{"valid long", "53771838458163234", false},

		{"empty", "", true},
		{"too long", strings.Repeat("1", 40), true},
		{"letters", "abc", true},
		{"path traversal", "../1", true},
		{"query smuggling", "12?x=1", true},
		{"negative", "-12", true},
		{"newline", "12\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateListingID("detail", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateListingID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeValidation) {
				t.Errorf("ValidateListingID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeValidation)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2025-06-01", false},
		{"2024-02-29", false},
		{"2025-13-01", true},
		{"06/01/2025", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ValidateDate("search", "checkin", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMonths(t *testing.T) {
	for _, m := range []int{1, 3, 12} {
		if err := ValidateMonths("calendar", m); err != nil {
			t.Errorf("ValidateMonths(%d) = %v, want nil", m, err)
		}
	}
	for _, m := range []int{-1, 0, 13} {
		if err := ValidateMonths("calendar", m); err == nil {
			t.Errorf("ValidateMonths(%d) = nil, want error", m)
		}
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		required bool
		wantErr  bool
	}{
		{"valid location", "Paris, France", true, false},
		{"unicode location", "São Paulo", true, false},
		{"optional empty", "", false, false},
		{"required empty", "", true, true},
		{"required blank", "   ", true, true},
		{"control char", "Paris\x00", true, true},
		{"too long", strings.Repeat("a", 600), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText("search", "location", tt.input, tt.required)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
