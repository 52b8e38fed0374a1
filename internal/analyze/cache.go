package analyze

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL matches the server-side memoization window for analyses.
const DefaultCacheTTL = 15 * time.Minute

// CacheKey builds the canonical memoization key for a company analysis.
func CacheKey(companyName string, year int) string {
	return strings.ToLower(strings.TrimSpace(companyName)) + "::" + strconv.Itoa(year)
}

type cacheEntry struct {
	res       *Response
	expiresAt time.Time
}

// Cache is a TTL memo for analysis responses. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewCache builds a cache with the given TTL. A non-positive TTL falls back
// to DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached response for key, or nil when absent or expired.
func (c *Cache) Get(key string) *Response {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	return entry.res
}

// Set stores res under key for the cache's TTL.
func (c *Cache) Set(key string, res *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{res: res, expiresAt: c.now().Add(c.ttl)}
}

// Purge drops expired entries and reports how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of live entries, expired ones included until purged.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
