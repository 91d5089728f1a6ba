// Package refcache memoizes reference data lookups (periods, levels, sections,
// subjects, teachers) keyed by kind and filter parameters.
//
// Entries never expire on their own; they live until Clear is called or the
// process restarts. Concurrent lookups of the same key share one underlying
// fetch, and failed fetches are never stored.
package refcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for a key on a cache miss
type FetchFunc func(ctx context.Context) (any, error)

// Stats counters since construction or the last Clear
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache process-wide reference data cache. The zero value is not usable; call New.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]any
	gen     uint64

	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates an empty cache
func New() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// Key builds the composite key kind + ":" + JSON(params).
// Map params are serialized with sorted keys by encoding/json, so equal filters give equal keys.
func Key(kind string, params any) (string, error) {
	if params == nil {
		return kind + ":", nil
	}
	b, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("refcache: encoding params for %s: %w", kind, err)
	}
	return kind + ":" + string(b), nil
}

// Fetch returns the cached value for (kind, params), calling fn on a miss.
//
// If another caller is already fetching the same key, Fetch waits for that
// result instead of calling fn again. The shared fetch is detached from the
// caller's cancellation: a caller whose ctx ends returns ctx.Err() early while
// the fetch keeps running for the others and still populates the cache.
func (c *Cache) Fetch(ctx context.Context, kind string, params any, fn FetchFunc) (any, error) {
	key, err := Key(kind, params)
	if err != nil {
		return nil, err
	}

	if v, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return v, nil
	}

	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	// the generation is part of the flight key so a fetch started before Clear
	// is not joined by callers arriving after it
	flightKey := fmt.Sprintf("%d|%s", gen, key)
	fetchCtx := context.WithoutCancel(ctx)

	ch := c.group.DoChan(flightKey, func() (any, error) {
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		c.misses.Add(1)

		v, err := fn(fetchCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.entries[key] = v
		}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

// Clear drops every entry. Fetches in flight complete for their callers but
// their results are not stored.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]any)
	c.gen++
	c.mu.Unlock()

	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns a snapshot of the counters
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()

	return Stats{
		Entries: n,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Fetch is the typed form of Cache.Fetch
func Fetch[T any](ctx context.Context, c *Cache, kind string, params any, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	v, err := c.Fetch(ctx, kind, params, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("refcache: %s holds %T, not %T", kind, v, zero)
	}
	return typed, nil
}
