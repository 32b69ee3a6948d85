package memory

import (
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is an in-memory TTL cache for search responses, keyed by
// "engine:query". One TTL for all entries; expired entries are swept in the
// background.
type Cache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]entry
	stop  chan struct{}
	once  sync.Once
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}

	c := &Cache{
		ttl:   ttl,
		items: make(map[string]entry),
		stop:  make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || time.Now().After(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.items[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Clear empties the cache and reports how many entries were dropped.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	c.items = make(map[string]entry)
	return n
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *Cache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, k)
		}
	}
}
