package chart

import (
	"sync"
	"time"
)

// DefaultTTL is how long a rendered image is reused.
const DefaultTTL = 60 * time.Second

type cacheEntry struct {
	createdAt time.Time
	image     []byte
}

// Cache keeps rendered PNGs for a short time, keyed by chart parameters.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now, entries: map[string]cacheEntry{}}
}

// Get returns a copy of a fresh entry.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.expired(entry) {
		delete(c.entries, key)
		return nil, false
	}
	img := make([]byte, len(entry.image))
	copy(img, entry.image)
	return img, true
}

// Set stores img under key and drops every expired entry.
func (c *Cache) Set(key string, img []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{createdAt: c.now(), image: img}
}

func (c *Cache) expired(e cacheEntry) bool {
	return !c.now().Before(e.createdAt.Add(c.ttl))
}
