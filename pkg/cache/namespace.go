package cache

import (
	"context"
	"time"
)

// Namespace wraps inner so that every key is stored under prefix.
// The wrapper shares inner's storage and capacity; closing it does not
// close inner.
func Namespace(prefix string, inner Cache) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &namespaced{inner: inner, prefix: prefix}
}

type namespaced struct {
	inner  Cache
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return n.inner.Set(ctx, n.prefix+key, data, ttl)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

func (n *namespaced) Close() error {
	return nil
}
