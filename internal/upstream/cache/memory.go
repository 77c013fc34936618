// Package cache holds the upstream response cache implementations.
package cache

import (
	"context"
	"sync"
	"time"

	"rotunda/pkg/platform/sentinel"
)

type entry struct {
	body      []byte
	expiresAt time.Time
}

// InMemoryCache provides an in-process response cache with TTL expiration.
// Expired entries are dropped lazily on read and by Sweep.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewInMemoryCache creates an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached body or sentinel.ErrNotFound if absent or expired.
func (c *InMemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, sentinel.ErrNotFound
	}
	return e.body, nil
}

// Set stores body under key for ttl. Non-positive TTLs are ignored.
func (c *InMemoryCache) Set(_ context.Context, key string, body []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	stored := make([]byte, len(body))
	copy(stored, body)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{body: stored, expiresAt: c.now().Add(ttl)}
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (c *InMemoryCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	dropped := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of stored entries, expired or not.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (c *InMemoryCache) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
