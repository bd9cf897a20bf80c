package helper

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a bounded, TTL-aware cache with LRU eviction.
// It is safe for concurrent use; a hit refreshes the entry's recency.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List
	entries  map[K]*list.Element
	now      func() time.Time
}

type cacheEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// NewCache creates a cache holding at most capacity entries, each valid for ttl.
// A ttl of 0 disables expiry.
func NewCache[K comparable, V any](capacity int, ttl time.Duration) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		entries:  make(map[K]*list.Element),
		now:      time.Now,
	}
}

// Get returns the cached value for key if present and not expired.
// A hit moves the entry to the front of the recency order.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	element, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	entry := element.Value.(*cacheEntry[K, V])
	if c.ttl > 0 && c.now().After(entry.expiresAt) {
		c.order.Remove(element)
		delete(c.entries, key)
		return zero, false
	}

	c.order.MoveToFront(element)
	return entry.value, true
}

// Set inserts or replaces the value for key, evicting the least recently
// used entry if the cache is over capacity.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)

	if element, ok := c.entries[key]; ok {
		entry := element.Value.(*cacheEntry[K, V])
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(element)
		return
	}

	element := c.order.PushFront(&cacheEntry[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.entries[key] = element

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry[K, V]).key)
		}
	}
}

// Evict removes the entry for key if present.
func (c *Cache[K, V]) Evict(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.entries[key]; ok {
		c.order.Remove(element)
		delete(c.entries, key)
	}
}

// Len returns the number of entries currently held, including expired
// entries that have not been touched since expiry.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
