// Package extract recovers typed records from upstream documents.
//
// Upstream pages are unreliable: the embedded JSON moves between releases,
// sometimes disappears behind a deferred-state script, and occasionally only
// the rendered markup is left. Each record kind is therefore decoded by a
// fixed sequence of tiers, cheapest and most reliable first:
//
//  1. the __NEXT_DATA__ JSON payload at the kind's known paths
//  2. a bounded deep search of that payload for an object of the right shape
//  3. when there is no __NEXT_DATA__ payload, the same two steps over every
//     deferred-state payload (with the PDP sections decoder tried first)
//  4. markup selectors that assemble a minimal record
//
// When nothing matches, the functions return a PARSE_ERROR naming the
// operation and the document size. Document content never appears in
// errors.
//
// The JSON decoders used by tiers 1 to 3 are exported so the structured
// source can decode its responses with the same logic.
package extract

import (
	"bytes"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/stayscout/pkg/errors"
	"github.com/matzehuels/stayscout/pkg/listing"
)

// Tier names the strategy that produced a record.
type Tier string

// Extraction tiers in priority order.
const (
	TierEmbedded   Tier = "embedded"    // known path in __NEXT_DATA__ or a JSON body
	TierDeepSearch Tier = "deep_search" // shape match anywhere in the payload
	TierDeferred   Tier = "deferred"    // deferred-state payload
	TierMarkup     Tier = "markup"      // HTML selectors
)

// Outcome describes how a record was extracted. It is diagnostic only.
type Outcome struct {
	Tier   Tier
	Reason string
}

// MaxDepth bounds the deep search.
const MaxDepth = 20

const (
	nextDataSelector = "script#__NEXT_DATA__"
	deferredSelector = "script[data-deferred-state], script[id^='data-deferred-state']"
)

// now is the reference clock for past-date inference.
var now = time.Now

// document is a parsed upstream response.
type document struct {
	raw      []byte
	html     *goquery.Document
	embedded gjson.Result   // __NEXT_DATA__ payload or the body itself when JSON
	deferred []gjson.Result // deferred-state payloads
}

func (d *document) hasEmbedded() bool { return d.embedded.Exists() }

// load parses raw as either a JSON body or an HTML page.
func load(raw []byte) *document {
	d := &document{raw: raw}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && gjson.ValidBytes(trimmed) {
		d.embedded = gjson.ParseBytes(trimmed)
		return d
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return d
	}
	d.html = doc

	if text := doc.Find(nextDataSelector).First().Text(); gjson.Valid(text) {
		d.embedded = gjson.Parse(text)
	}
	doc.Find(deferredSelector).Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); gjson.Valid(text) {
			d.deferred = append(d.deferred, gjson.Parse(text))
		}
	})
	return d
}

// niobeEntries returns the inner payloads of a deferred-state niobeClientData
// list, which holds [key, payload] pairs.
func niobeEntries(payload gjson.Result) []gjson.Result {
	var out []gjson.Result
	payload.Get("niobeClientData").ForEach(func(_, entry gjson.Result) bool {
		if inner := entry.Get("1"); inner.IsObject() {
			out = append(out, inner)
		}
		return true
	})
	return out
}

// run applies the tier sequence for one record kind.
//
// fromJSON implements tiers 1 and 2 for a payload and reports which of the two
// matched. fromSections, when non-nil, decodes a PDP sections payload and is
// tried before fromJSON for every deferred entry. fromMarkup implements tier 4.
func run[T any](
	d *document,
	fromJSON func(gjson.Result) (*T, Tier, bool),
	fromSections func(gjson.Result) (*T, bool),
	fromMarkup func(*goquery.Document) (*T, bool),
) (*T, Outcome, bool) {
	if d.hasEmbedded() {
		if rec, tier, ok := fromJSON(d.embedded); ok {
			return rec, Outcome{Tier: tier, Reason: "embedded payload"}, true
		}
	} else {
		for _, payload := range d.deferred {
			for _, inner := range niobeEntries(payload) {
				if fromSections != nil {
					if rec, ok := fromSections(inner); ok {
						return rec, Outcome{Tier: TierDeferred, Reason: "pdp sections"}, true
					}
				}
				if rec, _, ok := fromJSON(inner); ok {
					return rec, Outcome{Tier: TierDeferred, Reason: "niobe entry"}, true
				}
			}
			if rec, _, ok := fromJSON(payload); ok {
				return rec, Outcome{Tier: TierDeferred, Reason: "whole payload"}, true
			}
		}
	}

	if fromMarkup != nil && d.html != nil {
		if rec, ok := fromMarkup(d.html); ok {
			return rec, Outcome{Tier: TierMarkup, Reason: "semantic markup"}, true
		}
	}
	return nil, Outcome{Reason: "no tier matched"}, false
}

func parseError(op listing.Op, id string, d *document) error {
	return errors.Parse(string(op), id, "no extraction tier matched (%d-byte document)", len(d.raw))
}
