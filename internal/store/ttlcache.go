package store

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// Cache is a concurrency-safe in-memory memo cache with a fixed TTL. Writes
// are last-writer-wins; entries are advisory, so racing recomputation for the
// same key is harmless.
type Cache[T any] struct {
	mu sync.RWMutex

	data map[string]entry[T]

	ttl        time.Duration // 0 = entries never expire
	maxEntries int           // 0 = unlimited
}

// NewCache creates a Cache with the given TTL and entry limit.
func NewCache[T any](ttl time.Duration, maxEntries int) *Cache[T] {
	return &Cache[T]{
		data:       make(map[string]entry[T]),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get returns the cached value for key if present and not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		var zero T
		return zero, false
	}
	if c.ttl > 0 && time.Since(e.storedAt) > c.ttl {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Put stores the value for key, unconditionally overwriting any previous
// entry, and enforces the entry limit by evicting expired entries first and
// the oldest entries after that.
func (c *Cache[T]) Put(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = entry[T]{value: value, storedAt: time.Now()}

	if c.maxEntries <= 0 || len(c.data) <= c.maxEntries {
		return
	}

	// Drop expired entries before resorting to age-based eviction.
	if c.ttl > 0 {
		cutoff := time.Now().Add(-c.ttl)
		for k, e := range c.data {
			if e.storedAt.Before(cutoff) && k != key {
				delete(c.data, k)
			}
		}
	}

	for len(c.data) > c.maxEntries {
		oldestKey := ""
		var oldest time.Time
		for k, e := range c.data {
			if k == key {
				continue
			}
			if oldestKey == "" || e.storedAt.Before(oldest) {
				oldestKey = k
				oldest = e.storedAt
			}
		}
		if oldestKey == "" {
			return
		}
		delete(c.data, oldestKey)
	}
}

// Len reports the number of entries currently held, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
