// Package cache is the gateway's read cache: one region per upstream
// resource, a short freshness window, and a dependency graph so that a
// mutation in one region (say products) also invalidates the regions whose
// server-computed values depend on it (category product counts).
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     interface{}
	fetchedAt time.Time
}

// Cache stores fetched values by key. A key is "region" or "region:filter";
// invalidation always works on whole regions. Concurrent reads of the same
// key share a single fetch.
type Cache struct {
	ttl  time.Duration
	deps map[string][]string

	mu      sync.Mutex
	entries map[string]entry

	group singleflight.Group
}

// New creates a cache with the given freshness window and region dependency
// graph. deps maps a region to the regions that must also be invalidated
// whenever it is.
func New(ttl time.Duration, deps map[string][]string) *Cache {
	return &Cache{
		ttl:     ttl,
		deps:    deps,
		entries: make(map[string]entry),
	}
}

// Region returns the region part of a cache key.
func Region(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

// Get returns the cached value for key when it is still fresh, otherwise it
// runs fetch and caches the result. When fetch fails, any previously cached
// value is kept and returned alongside the error so a view can keep showing
// stale data next to its error state.
func (c *Cache) Get(ctx context.Context, key string, fetch func(context.Context) (interface{}, error)) (interface{}, error) {
	if value, ok := c.fresh(key); ok {
		return value, nil
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have filled the entry while this one
		// waited on the flight.
		if value, ok := c.fresh(key); ok {
			return value, nil
		}

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = entry{value: value, fetchedAt: time.Now()}
		c.mu.Unlock()
		return value, nil
	})

	if err != nil {
		if stale, ok := c.peek(key); ok {
			return stale, err
		}
		return nil, err
	}
	return value, nil
}

// Invalidate drops every key in the given regions and in all their declared
// dependent regions. The next read of a dropped key is forced to refetch.
func (c *Cache) Invalidate(regions ...string) {
	doomed := make(map[string]bool)
	var walk func(region string)
	walk = func(region string) {
		if doomed[region] {
			return
		}
		doomed[region] = true
		for _, dep := range c.deps[region] {
			walk(dep)
		}
	}
	for _, region := range regions {
		walk(region)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if doomed[Region(key)] {
			delete(c.entries, key)
		}
	}
}

// fresh returns the value for key if it exists and is inside the freshness
// window.
func (c *Cache) fresh(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || time.Since(e.fetchedAt) > c.ttl {
		return nil, false
	}
	return e.value, true
}

// peek returns the value for key regardless of freshness.
func (c *Cache) peek(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}
