package cache

import (
	"fmt"
	"sync"
)

// Cache is a generic LRU cache with a soft limit. The limit is enforced by
// Trim only.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*lruNode[K, V]
	order   lruList[K, V]
	limit   int
	onEvict func(K, V)

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache holding at most limit entries after Trim. A limit of
// 0 means unlimited. onEvict, if non-nil, is called for every entry removed
// by Trim.
func New[K comparable, V any](limit int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*lruNode[K, V]),
		limit:   limit,
		onEvict: onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.moveToFront(node)
	return node.value, true
}

// Peek returns the value for key without touching its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.entries[key]; ok {
		return node.value, true
	}
	var zero V
	return zero, false
}

// Set stores value for key as the most recently used entry.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.entries[key]; ok {
		node.value = value
		c.order.moveToFront(node)
		return
	}
	node := &lruNode[K, V]{key: key, value: value}
	c.entries[key] = node
	c.order.pushFront(node)
}

// Delete removes key. It reports whether key was present. onEvict is not
// called.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.unlink(node)
	delete(c.entries, key)
	return true
}

// DeleteFunc removes every entry for which del returns true and returns how
// many were removed.
func (c *Cache[K, V]) DeleteFunc(del func(K, V) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, node := range c.entries {
		if del(key, node.value) {
			c.order.unlink(node)
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// Trim evicts least recently used entries until the cache is within its
// limit and returns the number evicted.
func (c *Cache[K, V]) Trim() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.limit <= 0 {
		return 0
	}
	n := 0
	for len(c.entries) > c.limit {
		node := c.order.back()
		c.order.unlink(node)
		delete(c.entries, node.key)
		if c.onEvict != nil {
			c.onEvict(node.key, node.value)
		}
		n++
	}
	c.evictions += uint64(n)
	return n
}

// Clear removes every entry without calling onEvict.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.order.clear()
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.limit,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the soft limit, 0 when unlimited.
	Capacity int
	// Hits is the number of successful Get calls.
	Hits uint64
	// Misses is the number of failed Get calls.
	Misses uint64
	// HitRate is Hits over all Get calls, 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of entries removed by Trim.
	Evictions uint64
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("Cache[%d/%d entries, %d hits, %d misses, %.1f%% hit rate, %d evictions]",
		s.Len, s.Capacity, s.Hits, s.Misses, s.HitRate*100, s.Evictions)
}
