// Package cache memoizes zeta results for repeated inputs within a run.
package cache

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riemann-research/zeta/internal/zeta"
)

// staleAfter is how long an entry may go unread before cleanup drops it.
const staleAfter = 5 * time.Minute

// Key identifies one evaluation: the argument and the parameters it ran with.
type Key struct {
	S      complex128
	Params zeta.Params
}

type entry struct {
	result   zeta.Result
	accessed time.Time
}

// ResultCache is a bounded, concurrency-safe map from Key to zeta.Result.
type ResultCache struct {
	mu      sync.Mutex
	entries map[Key]entry
	maxSize int
	hits    int64
	misses  int64
	now     func() time.Time
}

// New returns a cache holding at most maxSize entries. maxSize <= 0 disables storage.
func New(maxSize int) *ResultCache {
	return &ResultCache{
		entries: make(map[Key]entry, min(max(maxSize, 0), 1024)),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the cached result for k, counting a hit or a miss.
func (c *ResultCache) Get(k Key) (zeta.Result, bool) {
	c.mu.Lock()
	e, ok := c.entries[k]
	if ok {
		e.accessed = c.now()
		c.entries[k] = e
	}
	c.mu.Unlock()

	if ok {
		atomic.AddInt64(&c.hits, 1)
		return e.result, true
	}
	atomic.AddInt64(&c.misses, 1)
	return zeta.Result{}, false
}

// Set stores r under k, making room first if the cache is full.
func (c *ResultCache) Set(k Key, r zeta.Result) {
	if c.maxSize <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[k]; !exists {
		c.cleanIfNeeded()
	}
	c.entries[k] = entry{result: r, accessed: c.now()}
}

// cleanIfNeeded drops stale entries once the cache is full; if none are stale
// it evicts the least recently read half. Caller holds mu.
func (c *ResultCache) cleanIfNeeded() {
	if len(c.entries) < c.maxSize {
		return
	}

	cutoff := c.now().Add(-staleAfter)
	for k, e := range c.entries {
		if e.accessed.Before(cutoff) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.maxSize {
		return
	}

	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].accessed.Before(c.entries[keys[j]].accessed)
	})
	for _, k := range keys[:len(keys)/2+1] {
		delete(c.entries, k)
	}
}

// HitRate is hits / (hits + misses), or 0 before any lookup.
func (c *ResultCache) HitRate() float64 {
	hits := float64(atomic.LoadInt64(&c.hits))
	misses := float64(atomic.LoadInt64(&c.misses))

	total := hits + misses
	if total == 0 {
		return 0
	}
	return hits / total
}

// Hits returns the number of successful lookups.
func (c *ResultCache) Hits() int64 { return atomic.LoadInt64(&c.hits) }

// Misses returns the number of failed lookups.
func (c *ResultCache) Misses() int64 { return atomic.LoadInt64(&c.misses) }

// Size is the number of stored entries.
func (c *ResultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear empties the cache and resets its counters.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]entry, min(max(c.maxSize, 0), 1024))
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}
