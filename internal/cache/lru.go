// Package cache provides a bounded in-process key/value store with
// per-entry TTL and least-recently-used eviction.
package cache

import (
	"container/list"
	"errors"
	"sync"
	"time"
)

// ErrInvalidCapacity is returned when a cache is constructed with a
// non-positive capacity.
var ErrInvalidCapacity = errors.New("cache capacity must be positive")

// Cache is a string-keyed LRU cache holding at most capacity entries.
// Expired entries are removed lazily when read; a read hit bumps the
// entry to most-recently-used. Safe for concurrent use.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// New creates a cache bounded to capacity entries.
func New[V any](capacity int) (*Cache[V], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Cache[V]{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}, nil
}

// Get returns the value for key. An entry whose TTL has elapsed is treated
// as a miss and removed as a side effect.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	el, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	ent := el.Value.(*entry[V])
	if !ent.expiresAt.IsZero() && time.Now().After(ent.expiresAt) {
		c.order.Remove(el)
		delete(c.entries, key)

		return zero, false
	}

	c.order.MoveToFront(el)

	return ent.value, true
}

// Put inserts or replaces the value for key. Insertion counts as a use
// for recency purposes. When the cache is full, the least-recently-used
// entry is evicted to make room. A ttl of zero or less means the entry
// never expires by time.
func (c *Cache[V]) Put(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if el, ok := c.entries[key]; ok {
		ent := el.Value.(*entry[V])
		ent.value = value
		ent.expiresAt = expiresAt
		c.order.MoveToFront(el)

		return
	}

	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}

	c.entries[key] = c.order.PushFront(&entry[V]{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	})
}

// Len returns the number of entries currently held, including entries
// whose TTL has elapsed but which have not been read since.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// evictOldest removes the least-recently-used entry. Caller must hold the lock.
func (c *Cache[V]) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}

	c.order.Remove(el)
	delete(c.entries, el.Value.(*entry[V]).key)
}
