// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Entry is a stored value and the instant it stops being served.
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

func (e Entry) liveAt(t time.Time) bool {
	return !t.After(e.ExpiresAt)
}

// Stats is a point-in-time copy of the cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	TotalKeys int64
}

// Cache is a TTL map safe for concurrent use. Expired entries stay until a
// Get touches them.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the time source for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New returns an empty cache. Each feed passes its own TTL to SetWithTTL.
//
//	c := cache.New()
//	c.SetWithTTL("zones", zones, 30*time.Minute)
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key while it is live. An entry is live up to and
// including ExpiresAt; reading it after that instant deletes it.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && !entry.liveAt(c.now()) {
		delete(c.entries, key)
		c.evictions.Add(1)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return entry.Data, true
}

// SetWithTTL stores value until ttl from now, replacing any previous entry.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry{Data: value, ExpiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Clear drops every entry so the next reads of the rate-limited feeds go to
// the upstream. A sync requested with ?refresh=1 calls it.
func (c *Cache) Clear() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.evictions.Add(int64(n))
}

// Len counts stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetStats returns the counters and the number of stored keys.
func (c *Cache) GetStats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		TotalKeys: int64(c.Len()),
	}
}

// HitRate is hits over lookups, in percent. Zero before the first lookup.
func (c *Cache) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return 100 * float64(hits) / float64(hits+misses)
}
