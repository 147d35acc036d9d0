// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     cache
// Description: Typed in-memory cache with idle expiry
// Author:      Nexus Root Team
// Created:     2026-03-16
// License:     MIT
// ============================================================================

package cache

import (
	"sync"
	"time"
)

// Config holds cache configuration
type Config struct {
	MaxItems int
	// TTL is how long an entry survives without being read
	TTL             time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		MaxItems:        10000,
		TTL:             10 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

type entry[V any] struct {
	value    V
	lastUsed time.Time
}

// Cache maps keys to values and forgets entries that were idle for
// longer than the TTL. Safe for concurrent use.
type Cache[V any] struct {
	mu       sync.Mutex
	items    map[string]*entry[V]
	maxItems int
	ttl      time.Duration
	now      func() time.Time

	hits   int64
	misses int64

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache and starts its cleanup loop. Call Close to stop it.
func New[V any](cfg Config) *Cache[V] {
	def := DefaultConfig()
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = def.MaxItems
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}

	c := &Cache[V]{
		items:    make(map[string]*entry[V]),
		maxItems: cfg.MaxItems,
		ttl:      cfg.TTL,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go c.cleanupLoop(cfg.CleanupInterval)
	return c
}

// Get returns the value for key and marks it as used
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok || c.expired(e) {
		delete(c.items, key)
		c.misses++
		var zero V
		return zero, false
	}
	e.lastUsed = c.now()
	c.hits++
	return e.value, true
}

// Set stores value under key
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, value)
}

// GetOrCreate returns the value for key, storing create() first when the
// key is missing. create runs under the cache lock.
func (c *Cache[V]) GetOrCreate(key string, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok && !c.expired(e) {
		e.lastUsed = c.now()
		c.hits++
		return e.value
	}
	c.misses++
	v := create()
	c.put(key, v)
	return v
}

// Delete removes key
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len returns the number of entries, including expired ones not yet
// cleaned up
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns hit and miss counters
func (c *Cache[V]) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Close stops the cleanup loop
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// put stores value, evicting the least recently used entry when full.
// Must be called with the lock held.
func (c *Cache[V]) put(key string, value V) {
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evictOldest()
	}
	c.items[key] = &entry[V]{value: value, lastUsed: c.now()}
}

func (c *Cache[V]) expired(e *entry[V]) bool {
	return c.now().Sub(e.lastUsed) > c.ttl
}

func (c *Cache[V]) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, e := range c.items {
		if oldestKey == "" || e.lastUsed.Before(oldest) {
			oldestKey = key
			oldest = e.lastUsed
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

func (c *Cache[V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache[V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.items {
		if c.expired(e) {
			delete(c.items, key)
		}
	}
}
