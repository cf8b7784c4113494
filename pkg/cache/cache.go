// Package cache provides a small expiring cache shared between page loads.
// Concurrent misses for the same key are collapsed into a single fill.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultFillTimeout bounds a fill once it no longer follows the context of
// the caller that started it.
const DefaultFillTimeout = 30 * time.Second

// FillFunc produces the value for a missing key.
type FillFunc[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value   V
	expires time.Time
}

// TTL caches values for a fixed duration. Errors returned by a fill are
// passed through and never stored. A zero TTL disables caching but still
// collapses concurrent fills.
type TTL[V any] struct {
	ttl         time.Duration
	fillTimeout time.Duration
	now         func() time.Time
	mu          sync.Mutex
	items       map[string]entry[V]
	group       singleflight.Group
}

// New creates a cache whose entries live for ttl.
func New[V any](ttl time.Duration) *TTL[V] {
	return &TTL[V]{
		ttl:         ttl,
		fillTimeout: DefaultFillTimeout,
		now:         time.Now,
		items:       make(map[string]entry[V]),
	}
}

// Get returns the cached value for key or fills it. The fill is shared by
// every concurrent caller, so it runs detached from ctx under the fill
// timeout; ctx only bounds how long this caller waits.
func (c *TTL[V]) Get(ctx context.Context, key string, fill FillFunc[V]) (V, error) {
	var zero V
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fillTimeout)
		defer cancel()

		v, err := fill(fillCtx)
		if err != nil {
			return v, err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			c.items[key] = entry[V]{value: v, expires: c.now().Add(c.ttl)}
			c.mu.Unlock()
		}
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

func (c *TTL[V]) lookup(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expires) {
		delete(c.items, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Invalidate drops every entry.
func (c *TTL[V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry[V])
}

// Len returns the number of stored (possibly expired) entries.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
