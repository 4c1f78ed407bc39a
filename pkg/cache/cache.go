// Package cache provides the response cache used by the source clients.
//
// All backends implement [Cache], a byte-oriented key/value store with a
// per-entry time-to-live. Payloads are the JSON encoding of typed records;
// callers always decode before returning, so cached bytes never leak past
// the client layer.
//
// # Backends
//
//   - [MemoryCache]: bounded in-process LRU with lazy expiry (default)
//   - [RedisCache]: shared store for several processes (opt-in)
//   - [NullCache]: stores nothing, used when caching is disabled
//
// A miss is a normal outcome, not an error. Backends that can fail (Redis)
// report errors, and callers treat a failed lookup as a miss.
//
// # Namespaces
//
// [Namespace] prefixes every key so that two sources caching the same
// logical entity with different payload shapes never collide:
//
//	structured := cache.Namespace("structured:", shared)
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a key/value store with per-entry expiry.
type Cache interface {
	// Get returns the payload for key. ok is false on a miss or when the
	// entry has expired.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key for ttl. ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GetJSON looks up key and decodes the payload into v.
// A payload that no longer decodes is dropped and reported as a miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it under key for ttl.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return len(data), c.Set(ctx, key, data, ttl)
}
