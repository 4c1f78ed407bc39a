package extract

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = bluemonday.StrictPolicy()
	lineBreaks  = strings.NewReplacer("<br />", "\n", "<br/>", "\n", "<br>", "\n")
)

// StripHTML reduces an HTML fragment to plain text. Line breaks survive as
// newlines; every other tag is dropped and entities are decoded.
func StripHTML(fragment string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(lineBreaks.Replace(fragment))))
}

// collapse trims s and folds internal whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
