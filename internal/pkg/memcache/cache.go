// Package memcache is a small in-process TTL cache with an injectable clock.
package memcache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

type Cache[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[T]
}

func New[T any](ttl time.Duration, now func() time.Time) *Cache[T] {
	if now == nil {
		now = time.Now
	}
	return &Cache[T]{ttl: ttl, now: now, entries: make(map[string]entry[T])}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set overwrites any existing value; concurrent writers are last-write-wins.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	c.entries[key] = entry[T]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Failed loads are not cached.
func (c *Cache[T]) GetOrLoad(key string, load func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Cache[T]) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry[T])
	c.mu.Unlock()
}
