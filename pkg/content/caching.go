package content

import (
	"context"
	"time"

	"github.com/ShyamSunder149/portfolio/pkg/cache"
)

// CachingSource serves repeated fetches from memory for a TTL.
type CachingSource struct {
	next  Source
	cache *cache.TTL[[]byte]
}

// NewCachingSource wraps next with a cache of the given TTL.
func NewCachingSource(next Source, ttl time.Duration) *CachingSource {
	return &CachingSource{next: next, cache: cache.New[[]byte](ttl)}
}

// Fetch returns the cached bytes for resource or fetches them from the
// wrapped source. Failures are not cached.
func (c *CachingSource) Fetch(ctx context.Context, resource string) ([]byte, error) {
	data, err := c.cache.Get(ctx, resource, func(ctx context.Context) ([]byte, error) {
		return c.next.Fetch(ctx, resource)
	})
	if err != nil {
		return nil, asFetchError(resource, err)
	}
	return data, nil
}

// Invalidate drops all cached resources.
func (c *CachingSource) Invalidate() {
	c.cache.Invalidate()
}
