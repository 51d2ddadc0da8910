// Package cache provides the engine's bounded memoization store. Keys are
// syntactic: an operation name plus the canonical text of its inputs. Two
// requests that are algebraically equal but textually different occupy
// separate entries on purpose.
package cache

import (
	"container/list"
	"strings"
	"sync"

	"github.com/eduforge/mathcore/backend/internal/engine/result"
)

// DefaultCapacity matches the historical memoization bound.
const DefaultCapacity = 128

type entry struct {
	key   string
	value *result.Computation
}

// Cache is a mutex-guarded LRU. Eviction happens only by capacity; stored
// envelopes are treated as immutable once inserted.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element

	hits   uint64
	misses uint64
}

// New creates a cache with the given capacity; non-positive values fall
// back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached envelope for key, marking it most recently used.
func (c *Cache) Get(key string) (*result.Computation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return el.Value.(*entry).value, true
}

// Put stores an envelope, evicting the least recently used entry when full.
// A key that is already present keeps its first value: at most one stored
// value per key.
func (c *Cache) Put(key string, value *result.Computation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&entry{key: key, value: value})
	c.items[key] = el
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).key)
		}
	}
}

// GetOrCompute returns the cached value for key or computes and stores it.
// Concurrent callers with the same key may compute redundantly; the first
// stored value wins and the cache is never corrupted.
func (c *Cache) GetOrCompute(key string, fn func() *result.Computation) *result.Computation {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := fn()
	c.Put(key, v)
	if stored, ok := c.Get(key); ok {
		return stored
	}
	return v
}

// Len reports the current number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Key renders an operation name and its canonical input parts into a single
// cache key. Separator bytes inside parts are escaped so distinct part
// lists never collide.
func Key(operation string, parts ...string) string {
	var b strings.Builder
	b.WriteString(operation)
	for _, p := range parts {
		b.WriteByte('|')
		b.WriteString(strings.ReplaceAll(p, "|", "||"))
	}
	return b.String()
}
