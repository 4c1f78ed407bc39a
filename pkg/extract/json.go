package extract

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// The helpers below read the first path whose value has the wanted JSON
// type. Paths use gjson syntax.

func str(v gjson.Result, paths ...string) (string, bool) {
	for _, p := range paths {
		if r := v.Get(p); r.Type == gjson.String && r.Str != "" {
			return r.Str, true
		}
	}
	return "", false
}

func strOr(v gjson.Result, def string, paths ...string) string {
	if s, ok := str(v, paths...); ok {
		return s
	}
	return def
}

func num(v gjson.Result, paths ...string) (float64, bool) {
	for _, p := range paths {
		if r := v.Get(p); r.Type == gjson.Number {
			return r.Num, true
		}
	}
	return 0, false
}

func numPtr(v gjson.Result, paths ...string) *float64 {
	if f, ok := num(v, paths...); ok {
		return &f
	}
	return nil
}

// count reads a non-negative integer.
func count(v gjson.Result, paths ...string) (int, bool) {
	for _, p := range paths {
		if r := v.Get(p); r.Type == gjson.Number && r.Num >= 0 && r.Num == math.Trunc(r.Num) {
			return int(r.Num), true
		}
	}
	return 0, false
}

func countPtr(v gjson.Result, paths ...string) *int {
	if n, ok := count(v, paths...); ok {
		return &n
	}
	return nil
}

func boolPtr(v gjson.Result, paths ...string) *bool {
	for _, p := range paths {
		if r := v.Get(p); r.IsBool() {
			b := r.Bool()
			return &b
		}
	}
	return nil
}

// ident reads an id that may be encoded as a string or a number.
func ident(v gjson.Result, paths ...string) string {
	for _, p := range paths {
		r := v.Get(p)
		switch r.Type {
		case gjson.String:
			if r.Str != "" {
				return r.Str
			}
		case gjson.Number:
			if r.Num >= 0 && r.Num == math.Trunc(r.Num) {
				return strconv.FormatUint(uint64(r.Num), 10)
			}
		}
	}
	return ""
}

// stringsOf collects string items of an array, reading each item either as a
// string or at the first matching field path.
func stringsOf(arr gjson.Result, fields ...string) []string {
	var out []string
	arr.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String && item.Str != "" {
			out = append(out, item.Str)
			return true
		}
		if s, ok := str(item, fields...); ok {
			out = append(out, s)
		}
		return true
	})
	return out
}

// deepFind walks v depth-first and returns the first value matching pred.
// At most depth levels are visited, v itself counting as the first.
func deepFind(v gjson.Result, depth int, pred func(gjson.Result) bool) (gjson.Result, bool) {
	if depth <= 0 || !v.Exists() {
		return gjson.Result{}, false
	}
	if pred(v) {
		return v, true
	}
	if !v.IsObject() && !v.IsArray() {
		return gjson.Result{}, false
	}

	var found gjson.Result
	var ok bool
	v.ForEach(func(_, child gjson.Result) bool {
		found, ok = deepFind(child, depth-1, pred)
		return !ok
	})
	return found, ok
}

// firstAt returns the value at the first path that exists and satisfies accept.
func firstAt(v gjson.Result, accept func(gjson.Result) bool, paths ...string) (gjson.Result, bool) {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() && accept(r) {
			return r, true
		}
	}
	return gjson.Result{}, false
}

// parsePrice reads the number in a display price such as "$1,250" or "€95.50".
func parsePrice(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	return f, err == nil
}

func priceAt(v gjson.Result, paths ...string) (float64, bool) {
	for _, p := range paths {
		if s, ok := str(v, p); ok {
			if f, ok := parsePrice(s); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// currencySymbol returns the leading non-digit part of a display price.
func currencySymbol(price string) string {
	i := strings.IndexFunc(price, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		i = len(price)
	}
	return strings.TrimSpace(price[:i])
}

// decodeGlobalID decodes a base64 relay id such as "DemandStayListing:123".
func decodeGlobalID(encoded string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	_, id, ok := strings.Cut(string(raw), ":")
	return id, ok && id != ""
}

// EncodeGlobalID builds a base64 relay id for kind and id.
func EncodeGlobalID(kind, id string) string {
	return base64.StdEncoding.EncodeToString([]byte(kind + ":" + id))
}

// leadingInt returns the first whitespace-separated integer in s.
func leadingInt(s string) *int {
	for _, w := range strings.Fields(s) {
		if n, err := strconv.Atoi(w); err == nil {
			return &n
		}
	}
	return nil
}

// leadingFloat returns the first whitespace-separated number in s.
func leadingFloat(s string) *float64 {
	for _, w := range strings.Fields(s) {
		if f, err := strconv.ParseFloat(w, 64); err == nil {
			return &f
		}
	}
	return nil
}
