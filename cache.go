package petkit

import (
	"sync"
	"time"
)

// Cache stores resolved cloud resources between refresh cycles.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key, or false when the key is
	// absent or its entry has expired.
	Get(key string) (any, bool)

	// Set stores value under key for ttl. A zero or negative ttl keeps
	// the entry until it is deleted.
	Set(key string, value any, ttl time.Duration)

	// Delete drops the entry stored under key, if any.
	Delete(key string)

	// Clear drops every entry.
	Clear()
}

// sweepEvery is the number of writes between bulk sweeps of expired entries
// in a MemoryCache.
const sweepEvery = 64

type cacheEntry struct {
	value     any
	expiresAt time.Time // zero: never expires
}

func (e *cacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache is the in-process Cache a client uses by default for resolved
// video descriptors. Expired entries are dropped lazily on read and swept in
// bulk every sweepEvery writes, so long-lived clients do not accumulate
// entries for videos that rotated out of the feed.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	writes  int
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*cacheEntry)}
}

func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if entry.expired(time.Now()) {
		c.Delete(key)
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryCache) Set(key string, value any, ttl time.Duration) {
	entry := &cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.writes++
	if c.writes >= sweepEvery {
		c.writes = 0
		c.sweep(time.Now())
	}
	c.mu.Unlock()
}

func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// sweep drops expired entries. Callers must hold mu.
func (c *MemoryCache) sweep(now time.Time) {
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
}

// WithVideoCache replaces the cache used for resolved cloud video
// descriptors. Pass a shared cache when several clients serve one account.
func WithVideoCache(cache Cache) Option {
	return func(c *Client) {
		if cache != nil {
			c.videoCache = cache
		}
	}
}
