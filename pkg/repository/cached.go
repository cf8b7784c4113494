package repository

import (
	"context"
	"time"

	"github.com/ShyamSunder149/portfolio/pkg/cache"
)

// CachedClient memoizes ListRepositories per owner so that repeated page
// loads stay within provider rate limits.
type CachedClient struct {
	next  Client
	cache *cache.TTL[[]Info]
}

// NewCachedClient wraps next with a cache of the given TTL.
func NewCachedClient(next Client, ttl time.Duration) *CachedClient {
	return &CachedClient{next: next, cache: cache.New[[]Info](ttl)}
}

// ListRepositories returns the cached listing for owner or asks the wrapped
// client. Failures are not cached.
func (c *CachedClient) ListRepositories(ctx context.Context, owner string) ([]Info, error) {
	repos, err := c.cache.Get(ctx, owner, func(ctx context.Context) ([]Info, error) {
		return c.next.ListRepositories(ctx, owner)
	})
	if err != nil {
		return nil, err
	}
	return append([]Info(nil), repos...), nil
}

// Invalidate drops all cached listings.
func (c *CachedClient) Invalidate() {
	c.cache.Invalidate()
}
