// Package pkg provides the core libraries for stayscout, a read-only client
// for short-term rental listings.
//
// # Overview
//
// stayscout answers seven questions about listings: search a location,
// fetch a listing's details, reviews, price calendar and host, and derive
// neighborhood statistics and an occupancy estimate. The pkg directory is
// organized into four areas:
//
//  1. [listing] - Domain records and request validation
//  2. [integrations] - Data sources (structured API, page scraping, composite)
//  3. [extract] and [analytics] - Parsing and derived figures
//  4. Infrastructure - [cache], [ratelimit], [credential], [httputil],
//     [errors], [observability] and [config]
//
// # Architecture
//
// The typical data flow:
//
//	request (CLI, HTTP or MCP)
//	         ↓
//	    [integrations/composite] (structured first, page scrape on failure)
//	         ↓
//	    [integrations/structured] or [integrations/document]
//	         ↓
//	    [cache] lookup → [ratelimit] → HTTP → [extract]
//	         ↓
//	    [listing] record (+ [analytics] for stats and occupancy)
//
// # Quick Start
//
//	cfg, _ := config.Load(config.Path(""))
//	rc, _ := cfg.OpenCache()
//	defer rc.Close()
//
//	src := cfg.NewSource(rc, nil)
//	detail, err := src.Detail(ctx, "12345678")
//	if err != nil {
//	    fmt.Println(errors.UserMessage(err))
//	}
//
// # Main Packages
//
// [integrations] - The [integrations.Source] interface every data source
// implements, plus the resty-based base client with cache-aside lookups and
// status mapping.
//
// [extract] - Tiered parsers for embedded page state, deferred state and
// markup, and for the structured API's JSON responses.
//
// [analytics] - Neighborhood statistics over a search page and occupancy
// estimates over a price calendar.
//
// [cache] - Response cache with in-memory LRU, Redis and null backends.
//
// [credential] - Lazily scraped API key with expiry and invalidation.
//
// [config] - TOML or YAML settings and the wiring of sources from them.
//
// # Testing
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/integrations/...   # Source clients against httptest fakes
//
// [listing]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/listing
// [integrations]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/integrations
// [integrations.Source]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/integrations#Source
// [integrations/composite]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/integrations/composite
// [integrations/structured]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/integrations/structured
// [integrations/document]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/integrations/document
// [extract]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/extract
// [analytics]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/analytics
// [cache]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/cache
// [ratelimit]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/ratelimit
// [credential]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/credential
// [httputil]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/observability
// [config]: https://pkg.go.dev/github.com/matzehuels/stayscout/pkg/config
package pkg
