package geography

import "sync"

// Cache memoizes resolved rating areas keyed by county id. Reference data is
// static between reloads, so entries never expire; Invalidate is called when
// the backing store reloads.
type Cache interface {
	Get(countyID int) (string, bool)
	Set(countyID int, ratingAreaID string)
	Invalidate()
}

// MemoryCache is the default in-process Cache.
type MemoryCache struct {
	mu    sync.RWMutex
	areas map[int]string
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{areas: make(map[int]string)}
}

// Get returns the cached rating area for a county.
func (c *MemoryCache) Get(countyID int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	area, ok := c.areas[countyID]
	return area, ok
}

// Set stores the rating area for a county.
func (c *MemoryCache) Set(countyID int, ratingAreaID string) {
	c.mu.Lock()
	c.areas[countyID] = ratingAreaID
	c.mu.Unlock()
}

// Invalidate drops every cached entry.
func (c *MemoryCache) Invalidate() {
	c.mu.Lock()
	c.areas = make(map[int]string)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.areas)
}
