// Package cache provides a count-bounded LRU for computed projections, keyed
// by the canonical selection string. It lets the serving mode reuse results
// for repeated filter queries instead of re-running the pipeline.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/filmfilter/filmfilter/internal/pipeline"
)

// DefaultMaxEntries is the default capacity of the projection cache. Filter
// selections are tiny and few; a small cache covers realistic dashboards.
const DefaultMaxEntries = 128

// ProjectionCache is an LRU cache of pipeline results. Cached values are
// shared pointers; callers must treat them as read-only.
type ProjectionCache struct {
	mu         sync.Mutex
	entries    map[string]*lruEntry
	head       *lruEntry // Most recently used.
	tail       *lruEntry // Least recently used.
	maxEntries int

	hits   atomic.Int64
	misses atomic.Int64
}

// lruEntry is a doubly-linked list node for LRU tracking.
type lruEntry struct {
	key   string
	value *pipeline.Projections
	prev  *lruEntry
	next  *lruEntry
}

// NewProjectionCache creates a cache holding at most maxEntries results.
func NewProjectionCache(maxEntries int) *ProjectionCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	return &ProjectionCache{
		entries:    make(map[string]*lruEntry),
		maxEntries: maxEntries,
	}
}

// Get returns the cached projections for key, or nil when absent.
func (c *ProjectionCache) Get(key string) *pipeline.Projections {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		return nil
	}

	c.hits.Add(1)
	c.moveToFront(entry)

	return entry.value
}

// Put stores projections under key, evicting the least recently used entry
// when the cache is full. Nil values are not cached.
func (c *ProjectionCache) Put(key string, value *pipeline.Projections) {
	if value == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		entry.value = value
		c.moveToFront(entry)

		return
	}

	for len(c.entries) >= c.maxEntries && c.tail != nil {
		victim := c.tail
		c.removeFromList(victim)
		delete(c.entries, victim.key)
	}

	entry := &lruEntry{key: key, value: value}
	c.entries[key] = entry
	c.addToFront(entry)
}

// Len returns the number of cached entries.
func (c *ProjectionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Clear removes all entries.
func (c *ProjectionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*lruEntry)
	c.head = nil
	c.tail = nil
}

// Stats holds cache performance counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Stats returns a snapshot of the cache counters.
func (c *ProjectionCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: len(c.entries),
	}
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}

	return float64(s.Hits) / float64(total)
}

func (c *ProjectionCache) moveToFront(entry *lruEntry) {
	if entry == c.head {
		return
	}

	c.removeFromList(entry)
	c.addToFront(entry)
}

func (c *ProjectionCache) addToFront(entry *lruEntry) {
	entry.prev = nil
	entry.next = c.head

	if c.head != nil {
		c.head.prev = entry
	}

	c.head = entry

	if c.tail == nil {
		c.tail = entry
	}
}

func (c *ProjectionCache) removeFromList(entry *lruEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
}
