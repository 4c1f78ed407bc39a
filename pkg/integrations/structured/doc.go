// Package structured fetches records from the upstream persisted-query
// endpoint.
//
// Each operation is a GET (search: POST) to
//
//	{base}/api/v3/{OperationName}/{sha256Hash}/
//
// carrying the operation name, locale, currency, JSON-encoded variables and
// the persisted-query extension. The API key from [credential.Manager] goes
// in the X-Airbnb-Api-Key header. Responses are decoded with the exported
// JSON decoders of [extract].
//
// The client never retries: any failure is surfaced as a typed error so
// the composite client can fall back to the document source.
//
// [credential.Manager]: github.com/matzehuels/stayscout/pkg/credential.Manager
// [extract]: github.com/matzehuels/stayscout/pkg/extract
package structured
