// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"
)

// LoadFunc fetches the value for key from the backing store on a cache miss.
// Errors are returned to the caller and nothing is cached.
type LoadFunc[V any] func(ctx context.Context, key string) (V, error)

// Stats reports cache effectiveness counters
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Cache is a read-through, write-through map whose entries expire a fixed
// duration after their last access.
type Cache[V any] struct {
	items *ttlcache.Cache[string, V]
	load  LoadFunc[V]
	group singleflight.Group

	mu   sync.Mutex
	done chan struct{} // non-nil while the janitor runs
}

// New creates a cache with the given expiry after last access. load may be nil
// for caches that are only written to directly.
func New[V any](ttl time.Duration, load LoadFunc[V]) *Cache[V] {
	return &Cache[V]{
		items: ttlcache.New[string, V](
			ttlcache.WithTTL[string, V](ttl),
		),
		load: load,
	}
}

// Start launches the janitor that drops expired entries. Expired entries are
// never served even without it; it only bounds memory.
func (c *Cache[V]) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return
	}

	c.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		c.items.Start()
	}(c.done)
}

// Stop halts the janitor started by Start and waits for it to exit.
func (c *Cache[V]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		return
	}

	c.items.Stop()
	<-c.done
	c.done = nil
}

// Get returns the cached value without consulting the store.
// A hit extends the entry's lifetime.
func (c *Cache[V]) Get(key string) (V, bool) {
	if item := c.items.Get(key); item != nil {
		return item.Value(), true
	}
	var zero V
	return zero, false
}

// Set writes value for key, replacing any previous entry.
func (c *Cache[V]) Set(key string, value V) {
	c.items.Set(key, value, ttlcache.DefaultTTL)
}

// SetIfAbsent stores value unless key is already cached. It returns the value
// that ends up in the cache and whether this call stored it.
func (c *Cache[V]) SetIfAbsent(key string, value V) (V, bool) {
	item, found := c.items.GetOrSet(key, value)
	return item.Value(), !found
}

func (c *Cache[V]) Delete(key string) {
	c.items.Delete(key)
}

func (c *Cache[V]) Len() int {
	return c.items.Len()
}

// Load returns the cached value for key, reading it through from the store on
// a miss. Concurrent misses for the same key share a single store read, which
// is not cancelled with any one caller; each caller stops waiting when its own
// ctx ends.
func (c *Cache[V]) Load(ctx context.Context, key string) (V, error) {
	var zero V
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		v, err := c.load(loadCtx, key)
		if err != nil {
			return v, err
		}
		// A write that raced the load wins over the loaded value
		v, _ = c.SetIfAbsent(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *Cache[V]) Stats() Stats {
	m := c.items.Metrics()
	return Stats{Hits: m.Hits, Misses: m.Misses}
}
