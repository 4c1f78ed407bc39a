package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCapacity is used when a non-positive capacity is configured.
const DefaultCapacity = 100

// entry is a cached payload with its creation time and lifetime.
type entry struct {
	data      []byte
	createdAt time.Time
	ttl       time.Duration
}

func (e entry) expired(now time.Time) bool {
	return e.ttl > 0 && !now.Before(e.createdAt.Add(e.ttl))
}

// MemoryCache is a bounded in-process cache with least-recently-used
// eviction and per-entry expiry. Expired entries are removed when next
// accessed; there is no background sweeper.
//
// Get promotes the entry it returns, which mutates the recency list, so it
// takes the exclusive lock. Len and Contains only read and share the lock.
type MemoryCache struct {
	mu  sync.RWMutex
	lru *simplelru.LRU[string, entry]
	now func() time.Time
}

// NewMemoryCache creates a cache holding at most capacity entries.
// A capacity <= 0 falls back to [DefaultCapacity].
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	lru, err := simplelru.NewLRU[string, entry](capacity, nil)
	if err != nil {
		// Unreachable: capacity is positive.
		panic(err)
	}
	return &MemoryCache{lru: lru, now: time.Now}
}

// Get returns the payload for key unless it is missing or expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Peek(key)
	if !ok {
		return nil, false, nil
	}
	if e.expired(c.now()) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	c.lru.Get(key)
	return e.data, true, nil
}

// Set inserts or overwrites key. At capacity, the least recently used
// entry is evicted first, whether or not it has expired.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, entry{data: data, createdAt: c.now(), ttl: ttl})
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
	return nil
}

// Contains reports whether key is present, without promoting it.
// Expired entries that have not been accessed yet still count.
func (c *MemoryCache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Contains(key)
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

// Purge removes every entry.
func (c *MemoryCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Close does nothing for the in-process cache.
func (c *MemoryCache) Close() error {
	return nil
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
