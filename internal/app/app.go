// Package app ties the aggregation pipeline to the cache layer and produces
// response-ready results for the transport.
package app

import (
	"context"

	"joyfeed/internal/aggregate"
	"joyfeed/internal/cache"
	"joyfeed/internal/logger"
)

// Aggregator produces one region-scoped aggregation result. Fast mode
// aggregates the catalog's ultra-reliable feed subset instead.
type Aggregator interface {
	Aggregate(ctx context.Context, region string, fast bool) (*aggregate.Result, error)
}

// App serves story requests from the cache when possible and re-aggregates
// when the cached base result is missing or stale.
type App struct {
	agg      Aggregator
	cache    *cache.Cache
	pageSize int
}

// New wires the app. pageSize caps the items in any single response.
func New(agg Aggregator, c *cache.Cache, pageSize int) *App {
	return &App{agg: agg, cache: c, pageSize: pageSize}
}

// Stories answers one query: resolve the region-scoped base result (cached
// or freshly aggregated), apply the caller's filters, and page the payload.
// Filtered (q/category) results are derived per request and never cached.
func (a *App) Stories(ctx context.Context, q aggregate.Query) (*aggregate.Result, error) {
	base, err := a.base(ctx, q.Region, q.Fast)
	if err != nil {
		return nil, err
	}

	items := q.Apply(base.Stories)
	if len(items) > a.pageSize {
		items = items[:a.pageSize]
	}
	return &aggregate.Result{
		GeneratedAt: base.GeneratedAt,
		Count:       len(items),
		Stories:     items,
	}, nil
}

// Refresh re-resolves the base result for a region, refilling the cache when
// the entry is missing or stale. Used by the cache warmer.
func (a *App) Refresh(ctx context.Context, region string) error {
	_, err := a.base(ctx, region, false)
	return err
}

// base returns the unfiltered region-scoped result. A fresh cache entry is
// served as-is. On a miss or stale entry we aggregate; if that hard-fails and
// a stale entry exists, the stale result is still servable. Two concurrent
// misses may both aggregate; the later write winning is harmless since both
// results are equally valid.
func (a *App) base(ctx context.Context, region string, fast bool) (*aggregate.Result, error) {
	key := cache.Key(region, fast)
	cached, fresh, ok := a.cache.Get(key)
	if ok && fresh {
		return cached, nil
	}

	// An aggregation runs to completion and lands in the cache even if the
	// original caller has already disconnected.
	res, err := a.agg.Aggregate(context.WithoutCancel(ctx), region, fast)
	if err != nil {
		if ok {
			logger.Warn("aggregation failed, serving stale result", "key", key, "error", err)
			return cached, nil
		}
		return nil, err
	}
	if err := a.cache.Put(key, res); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
	}
	return res, nil
}
