package usecase

import (
	"context"
	"time"

	"disability-jobs/internal/domain/job"
	"disability-jobs/internal/infrastructure/cache"
	"disability-jobs/internal/pkg/memcache"

	"github.com/ternarybob/arbor"
)

const DefaultFacetTTL = 5 * time.Minute

type FacetLoader interface {
	Facets(ctx context.Context) (job.FilterFacets, error)
}

// SharedCache is the optional cross-process tier, normally redis.
type SharedCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// FacetCache memoizes filter facets in process and, when configured, in a
// shared cache so all instances see the same invalidation.
type FacetCache struct {
	loader FacetLoader
	local  *memcache.Cache[job.FilterFacets]
	shared SharedCache
	ttl    time.Duration
	logger arbor.ILogger
}

func NewFacetCache(loader FacetLoader, shared SharedCache, ttl time.Duration, logger arbor.ILogger) *FacetCache {
	if ttl <= 0 {
		ttl = DefaultFacetTTL
	}
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &FacetCache{
		loader: loader,
		local:  memcache.New[job.FilterFacets](ttl, nil),
		shared: shared,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *FacetCache) Get(ctx context.Context) (job.FilterFacets, error) {
	return c.local.GetOrLoad(cache.KeyFacets, func() (job.FilterFacets, error) {
		var f job.FilterFacets
		if c.shared != nil {
			hit, err := c.shared.GetJSON(ctx, cache.KeyFacets, &f)
			if err != nil {
				c.logger.Warn().Err(err).Msg("shared facet cache read failed")
			} else if hit {
				c.logger.Debug().Msg("facet cache HIT (shared)")
				return f, nil
			}
		}

		c.logger.Debug().Msg("facet cache MISS")
		f, err := c.loader.Facets(ctx)
		if err != nil {
			return job.FilterFacets{}, err
		}
		if c.shared != nil {
			if err := c.shared.SetJSON(ctx, cache.KeyFacets, f, c.ttl); err != nil {
				c.logger.Warn().Err(err).Msg("shared facet cache write failed")
			}
		}
		return f, nil
	})
}

// Invalidate drops both tiers. Called after a completed sync.
func (c *FacetCache) Invalidate(ctx context.Context) {
	c.local.InvalidateAll()
	if c.shared != nil {
		if err := c.shared.Delete(ctx, cache.KeyFacets); err != nil {
			c.logger.Warn().Err(err).Msg("shared facet cache delete failed")
		}
	}
}
