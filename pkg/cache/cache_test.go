package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source for expiry tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestCache(capacity int) (*MemoryCache, *fakeClock) {
	clk := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(capacity)
	c.now = clk.Now
	return c, clk
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(10)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v1"), time.Minute))
	data, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", string(data))

	require.NoError(t, c.Set(ctx, "k", []byte("v2"), time.Minute))
	data, _, _ = c.Get(ctx, "k")
	assert.Equal(t, "v2", string(data))
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestCache(10)

	require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Second))
	require.NoError(t, c.Set(ctx, "forever", []byte("y"), 0))

	clk.Advance(500 * time.Millisecond)
	_, ok, _ := c.Get(ctx, "short")
	assert.True(t, ok, "entry should live until its ttl elapses")

	clk.Advance(time.Second)
	_, ok, _ = c.Get(ctx, "short")
	assert.False(t, ok, "entry should expire after ttl")
	assert.False(t, c.Contains("short"), "expired entry should be removed on access")

	clk.Advance(24 * time.Hour)
	_, ok, _ = c.Get(ctx, "forever")
	assert.True(t, ok, "ttl <= 0 never expires")
}

func TestMemoryCache_ExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestCache(10)

	require.NoError(t, c.Set(ctx, "k", []byte("x"), time.Minute))
	clk.Advance(time.Minute)
	_, ok, _ := c.Get(ctx, "k")
	assert.False(t, ok, "entry is expired exactly at createdAt+ttl")
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(2)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Hour))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Hour))

	// Touch a so b becomes least recently used.
	_, ok, _ := c.Get(ctx, "a")
	require.True(t, ok)

	require.NoError(t, c.Set(ctx, "c", []byte("3"), time.Hour))
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))
}

func TestMemoryCache_EvictsExpiredLikeAnyOther(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestCache(2)

	require.NoError(t, c.Set(ctx, "old", []byte("1"), time.Second))
	require.NoError(t, c.Set(ctx, "new", []byte("2"), time.Hour))
	clk.Advance(2 * time.Second)

	require.NoError(t, c.Set(ctx, "third", []byte("3"), time.Hour))
	assert.False(t, c.Contains("old"))
	assert.Equal(t, 2, c.Len())
}

func TestMemoryCache_CapacityFallback(t *testing.T) {
	ctx := context.Background()
	for _, capacity := range []int{0, -5} {
		c := NewMemoryCache(capacity)
		for i := range DefaultCapacity + 10 {
			require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0))
		}
		assert.Equal(t, DefaultCapacity, c.Len(), "capacity %d", capacity)
	}
}

func TestMemoryCache_DeleteAndPurge(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(10)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Delete(ctx, "a"))
	require.NoError(t, c.Delete(ctx, "never-set"))
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(50)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range 200 {
				key := fmt.Sprintf("k%d", (w*200+i)%80)
				_ = c.Set(ctx, key, []byte("v"), time.Minute)
				_, _, _ = c.Get(ctx, key)
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}

func TestNamespace(t *testing.T) {
	ctx := context.Background()
	shared, _ := newTestCache(10)
	structured := Namespace("structured:", shared)
	document := Namespace("document:", shared)

	require.NoError(t, structured.Set(ctx, "detail:1", []byte("s"), 0))
	require.NoError(t, document.Set(ctx, "detail:1", []byte("d"), 0))

	got, ok, _ := structured.Get(ctx, "detail:1")
	require.True(t, ok)
	assert.Equal(t, "s", string(got))

	got, ok, _ = document.Get(ctx, "detail:1")
	require.True(t, ok)
	assert.Equal(t, "d", string(got))

	assert.True(t, shared.Contains("structured:detail:1"))
	assert.True(t, shared.Contains("document:detail:1"))

	require.NoError(t, structured.Delete(ctx, "detail:1"))
	assert.False(t, shared.Contains("structured:detail:1"))
	assert.True(t, shared.Contains("document:detail:1"))
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(10)

	type record struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}

	n, err := SetJSON(ctx, c, "r", record{Name: "Loft", Price: 120}, time.Minute)
	require.NoError(t, err)
	assert.Positive(t, n)

	var got record
	ok, err := GetJSON(ctx, c, "r", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, record{Name: "Loft", Price: 120}, got)

	// Corrupt payloads are dropped.
	require.NoError(t, c.Set(ctx, "bad", []byte("{not json"), 0))
	ok, err = GetJSON(ctx, c, "bad", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, c.Contains("bad"))
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache("not-a-redis-url://x", "stayscout:")
	assert.Error(t, err)
}

func TestRedisCache_Unreachable(t *testing.T) {
	c, err := NewRedisCache("redis://127.0.0.1:1/0?dial_timeout=100ms", "stayscout:")
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, c.Ping(ctx))
	_, ok, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "k", []byte("v"), time.Minute))
}
