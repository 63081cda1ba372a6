// Package catalog manages the directory of selectable backend models.
package catalog

import (
	"sync"
	"time"

	"github.com/avelar/chatdeck/internal/models"
)

// FreshnessWindow is how long a cached model snapshot stays valid.
const FreshnessWindow = 5 * time.Minute

// Clock returns the current time. Injectable so expiry is testable.
type Clock func() time.Time

// Cache holds a model list snapshot with a freshness window. It is
// explicitly owned and passed to whoever needs model data instead of
// living in package state.
type Cache struct {
	mu       sync.RWMutex
	snapshot []models.ModelInfo
	cachedAt time.Time
	ttl      time.Duration
	now      Clock
}

// NewCache creates a cache with the given freshness window.
func NewCache(ttl time.Duration) *Cache {
	return NewCacheWithClock(ttl, time.Now)
}

// NewCacheWithClock creates a cache with an injected clock.
func NewCacheWithClock(ttl time.Duration, now Clock) *Cache {
	return &Cache{ttl: ttl, now: now}
}

// Get returns the cached snapshot, or nil when the cache is empty or
// older than the freshness window.
func (c *Cache) Get() []models.ModelInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil || c.now().Sub(c.cachedAt) > c.ttl {
		return nil
	}
	return c.snapshot
}

// Set replaces the snapshot and resets its timestamp.
func (c *Cache) Set(list []models.ModelInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = list
	c.cachedAt = c.now()
}

// Invalidate drops the snapshot so the next read goes to the network.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
}
