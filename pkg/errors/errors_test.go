package errors

import (
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeValidation, "test message: %s", "value")

	if err.Code != ErrCodeValidation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeValidation)
	}

	expected := "VALIDATION_ERROR: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeTransport, cause, "failed to fetch")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestErrorNamesOperationAndID(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"not found", NotFound("detail", "999"), `NOT_FOUND: detail "999": resource not found`},
		{"parse", Parse("search", "Paris", "no tier matched (%d bytes)", 12), `PARSE_ERROR: search "Paris": no tier matched (12 bytes)`},
		{"transport", Transport("reviews", "1", errors.New("timeout")), `TRANSPORT_ERROR: reviews "1": request failed: timeout`},
		{"rate limited", RateLimited("calendar", "2", 30*time.Second), `RATE_LIMITED: calendar "2": throttled by upstream, retry after 30s`},
		{"no id", Unsupported("host"), `UNSUPPORTED: host: operation not supported by this source`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAt(t *testing.T) {
	base := Auth("", errors.New("boom"))
	got := At(base, "detail", "123")

	var e *Error
	if !errors.As(got, &e) {
		t.Fatal("At() did not return *Error")
	}
	if e.Op != "detail" || e.ID != "123" {
		t.Errorf("At() = op %q id %q, want detail/123", e.Op, e.ID)
	}
	if base.Op != "" {
		t.Error("At() mutated the original error")
	}

	plain := errors.New("plain")
	if At(plain, "detail", "1") != plain {
		t.Error("At() should pass through non-*Error values")
	}

	named := NotFound("search", "Rome")
	if At(named, "detail", "1") != error(named) {
		t.Error("At() should not rename an already annotated error")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", NotFound("detail", "1"), ErrCodeNotFound, true},
		{"non-matching code", NotFound("detail", "1"), ErrCodeParse, false},
		{"wrapped error", Wrap(ErrCodeTransport, New(ErrCodeValidation, "inner"), "outer"), ErrCodeTransport, true},
		{"fmt wrapped", errorsJoin(RateLimited("search", "x", 0)), ErrCodeRateLimited, true},
		{"non-Error type", errors.New("plain error"), ErrCodeValidation, false},
		{"nil error", nil, ErrCodeValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("context"), err)
}

func TestGetCode(t *testing.T) {
	if got := GetCode(Parse("detail", "1", "bad")); got != ErrCodeParse {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeParse)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(Transport("search", "", errors.New("reset"))) {
		t.Error("transport errors should be retryable")
	}
	for _, err := range []error{NotFound("detail", "1"), RateLimited("detail", "1", 0), Parse("detail", "1", "x")} {
		if IsRetryable(err) {
			t.Errorf("IsRetryable(%v) = true, want false", err)
		}
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(NotFound("detail", "999")); got != `detail "999": resource not found` {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
}
