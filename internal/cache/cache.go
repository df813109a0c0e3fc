// internal/cache/cache.go
package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryCache is a TTL cache with periodic cleanup of expired entries.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

func NewInMemoryCache(ttl, cleanupFreq time.Duration) *InMemoryCache {
	c := &InMemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.cleanupLoop(cleanupFreq)
	return c
}

func (c *InMemoryCache) Set(_ context.Context, key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: data, expiresAt: time.Now().Add(c.ttl)}
}

func (c *InMemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *InMemoryCache) cleanupLoop(freq time.Duration) {
	ticker := time.NewTicker(freq)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// Close stops the cleanup routine.
func (c *InMemoryCache) Close() {
	c.once.Do(func() { close(c.done) })
}
