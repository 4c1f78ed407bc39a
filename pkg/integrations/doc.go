// Package integrations provides the upstream source clients and the
// plumbing they share.
//
// # Overview
//
// Each retrieval path has its own subpackage:
//
//   - [structured]: persisted-query JSON endpoint, authenticated per request
//   - [document]: human-facing HTML pages, retried with linear backoff
//   - [composite]: structured first, document as fallback and merge source
//
// All three implement [Source], the inbound contract of the acquisition
// layer. Front-ends hold a Source and never look further down.
//
// # Shared Infrastructure
//
// The [Client] type bundles what every source needs: a resty client, its
// own rate limiter, a namespaced [cache.Cache] and a logger. [Cached] runs
// the cache-aside sequence and emits cache and fetch hooks. [CheckStatus]
// maps upstream HTTP statuses onto the error taxonomy in [errors].
//
// [structured]: github.com/matzehuels/stayscout/pkg/integrations/structured
// [document]: github.com/matzehuels/stayscout/pkg/integrations/document
// [composite]: github.com/matzehuels/stayscout/pkg/integrations/composite
// [cache.Cache]: github.com/matzehuels/stayscout/pkg/cache.Cache
// [errors]: github.com/matzehuels/stayscout/pkg/errors
package integrations
