package repository

import (
	"sync"
	"time"

	"github.com/okian/ladder/internal/domain/types"
)

// pageCache memoizes recent listing pages for a short TTL, long enough
// to absorb bursts of identical requests (auto-refresh polling) without
// outliving the mutation rate.
//
// It has its own mutex, but Clear is only ever invoked from inside the
// rank index rebuild, which runs under the engine's exclusive lock; a
// rebuild changes the meaning of every page at once, so invalidation is
// a blanket clear rather than per key.
type pageCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[cacheKey]cacheEntry
}

type cacheKey struct {
	page     int
	pageSize int
}

type cacheEntry struct {
	result  types.ListResult
	created time.Time
}

func newPageCache(ttl time.Duration) *pageCache {
	return &pageCache{
		ttl:     ttl,
		entries: make(map[cacheKey]cacheEntry),
	}
}

// Get returns the cached result for (page, pageSize) while unexpired.
func (c *pageCache) Get(page, pageSize int) (types.ListResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[cacheKey{page: page, pageSize: pageSize}]
	if !ok || time.Since(e.created) >= c.ttl {
		return types.ListResult{}, false
	}
	return e.result, true
}

// Put stores a result with the current timestamp.
func (c *pageCache) Put(page, pageSize int, res types.ListResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{page: page, pageSize: pageSize}] = cacheEntry{
		result:  res,
		created: time.Now(),
	}
}

// Clear drops every entry.
func (c *pageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}

// Len returns the current number of cached pages, expired or not.
func (c *pageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
