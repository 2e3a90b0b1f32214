package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes computed values by key with a TTL. At most one computation
// runs per key at a time; concurrent callers for an uncached key share the
// in-flight result. Hazard-dependent callers embed the hazard-set version in
// the key, so store mutations miss stale entries without explicit eviction.
type Cache[T any] struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry[T]
	flight  singleflight.Group
}

type entry[T any] struct {
	value     T
	createdAt time.Time
	expiresAt time.Time
}

// New creates a cache whose entries expire after ttl
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
	}
}

// GetOrCompute returns the cached value for key, invoking fn to compute it
// on a miss. Errors are not cached. The computation is shared by every
// waiter on the key, so it runs detached from the first caller's
// cancellation; each caller's context bounds only its own wait.
func (c *Cache[T]) GetOrCompute(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	ch := c.flight.DoChan(key, func() (interface{}, error) {
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(key, v)
		return v, nil
	})

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *Cache[T]) lookup(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[key]; ok && time.Now().Before(e.expiresAt) {
		return e.value, true
	}
	var zero T
	return zero, false
}

func (c *Cache[T]) store(key string, v T) {
	now := time.Now()
	c.mu.Lock()
	c.entries[key] = entry[T]{value: v, createdAt: now, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()
}

// Len returns the number of unexpired entries
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	now := time.Now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// Purge removes expired entries. Lookups already ignore them; this just
// releases memory for long-running processes.
func (c *Cache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
