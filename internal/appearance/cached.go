package appearance

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jask/friendsearch/internal/search"
)

// Cached memoizes successful lookups of another resolver. Failures are not cached.
type Cached struct {
	next  Resolver
	cache *cache.Cache
}

func NewCached(next Resolver, ttl, cleanup time.Duration) *Cached {
	return &Cached{next: next, cache: cache.New(ttl, cleanup)}
}

func (c *Cached) Resolve(ctx context.Context, e search.Entity) (Appearance, error) {
	key := e.ID.String()
	if x, found := c.cache.Get(key); found {
		return x.(Appearance), nil
	}
	a, err := c.next.Resolve(ctx, e)
	if err != nil {
		return Appearance{}, err
	}
	c.cache.Set(key, a, cache.DefaultExpiration)
	return a, nil
}
