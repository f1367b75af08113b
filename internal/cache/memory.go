package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a Memory store created with a non-positive limit.
const DefaultMaxEntries = 10000

type memoryItem struct {
	value      []byte
	expiration time.Time
}

// Memory is a thread-safe in-memory Store with per-entry TTL and a bounded
// number of entries.
type Memory struct {
	data       map[string]memoryItem
	ttl        time.Duration
	maxEntries int
	nextSweep  time.Time
	now        func() time.Time
	mutex      sync.RWMutex
}

// NewMemory creates an in-memory store. Expired entries are dropped on Get
// and swept from Set at most once per TTL. When the store is full, Set
// evicts the entry closest to expiry.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		data:       make(map[string]memoryItem),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a copy of the stored value.
func (c *Memory) Get(_ context.Context, key string) ([]byte, error) {
	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, ErrMiss
	}
	if c.now().After(item.expiration) {
		c.mutex.Lock()
		if current, ok := c.data[key]; ok && current.expiration.Equal(item.expiration) {
			delete(c.data, key)
		}
		c.mutex.Unlock()
		return nil, ErrMiss
	}

	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

// Set stores a copy of value.
func (c *Memory) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	if !now.Before(c.nextSweep) {
		c.pruneLocked(now)
		c.nextSweep = now.Add(c.ttl)
	}

	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxEntries {
		c.pruneLocked(now)
		if len(c.data) >= c.maxEntries {
			c.evictOldestLocked()
		}
	}

	c.data[key] = memoryItem{
		value:      stored,
		expiration: now.Add(c.ttl),
	}
	return nil
}

// pruneLocked removes every entry expired at now.
func (c *Memory) pruneLocked(now time.Time) {
	for key, item := range c.data {
		if now.After(item.expiration) {
			delete(c.data, key)
		}
	}
}

// evictOldestLocked removes the entry with the earliest expiration.
func (c *Memory) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for key, item := range c.data {
		if !found || item.expiration.Before(oldest) {
			oldestKey, oldest, found = key, item.expiration, true
		}
	}
	if found {
		delete(c.data, oldestKey)
	}
}
