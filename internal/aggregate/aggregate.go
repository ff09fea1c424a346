// Package aggregate runs the feed aggregation pipeline: fetch, normalize,
// classify, deduplicate, rank.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"joyfeed/internal/classify"
	"joyfeed/internal/fetch"
	"joyfeed/internal/logger"
	"joyfeed/internal/metrics"
	"joyfeed/internal/registry"
	"joyfeed/internal/story"
)

// Result is one immutable aggregation outcome. Its JSON shape doubles as the
// response body and the cache payload.
type Result struct {
	GeneratedAt time.Time     `json:"updatedAt"`
	Count       int           `json:"count"`
	Stories     []story.Story `json:"items"`
}

// Aggregator merges all per-feed results into a ranked uplifting-story list.
type Aggregator struct {
	registry    *registry.Registry
	fetcher     *fetch.Fetcher
	rules       []classify.Rule
	maxStories  int
	concurrency int
	stats       *metrics.Metrics
	now         func() time.Time
}

// New wires an Aggregator. maxStories caps the retained result set and
// concurrency bounds parallel feed fetches.
func New(reg *registry.Registry, fetcher *fetch.Fetcher, rules []classify.Rule, maxStories, concurrency int, stats *metrics.Metrics) *Aggregator {
	return &Aggregator{
		registry:    reg,
		fetcher:     fetcher,
		rules:       rules,
		maxStories:  maxStories,
		concurrency: concurrency,
		stats:       stats,
		now:         time.Now,
	}
}

// Aggregate fetches the region's feed set (regional feeds plus the common
// bucket, or everything when region is empty), then normalizes, filters for
// positivity, deduplicates and ranks newest first. Fast mode swaps the feed
// set for the catalog's small ultra-reliable subset. Individual feed failures
// contribute zero stories; only an unusable feed set is a hard error.
func (a *Aggregator) Aggregate(ctx context.Context, region string, fast bool) (*Result, error) {
	urls := a.registry.FeedsFor(region)
	if fast {
		urls = a.registry.FastFeeds()
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no feeds resolved for region %q", region)
	}

	start := a.now()
	logger.Info("aggregation started", "region", region, "fast", fast, "feeds", len(urls))

	results := a.fetcher.FetchAll(ctx, urls, a.concurrency)

	fetchTime := a.now()
	var stories []story.Story
	rejected := 0
	for i, res := range results {
		entries := res.Entries()
		if len(entries) == 0 {
			continue
		}
		a.stats.AddEntriesSeen(len(entries))
		feedRegion := a.registry.InferRegion(urls[i])
		for _, item := range entries {
			s := story.Normalize(item, res.FeedTitle, feedRegion, fetchTime)
			if s.ID == "" {
				continue
			}
			text := s.Title + " " + s.Excerpt
			if !classify.IsPositive(text) {
				rejected++
				continue
			}
			s.Categories = classify.Categorize(text, a.rules)
			stories = append(stories, s)
		}
	}
	a.stats.AddStoriesRejected(rejected)

	before := len(stories)
	stories = story.Dedupe(stories)
	a.stats.AddDuplicatesFiltered(before - len(stories))

	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].PublishedAt.After(stories[j].PublishedAt)
	})
	if len(stories) > a.maxStories {
		stories = stories[:a.maxStories]
	}

	duration := time.Since(start)
	a.stats.RecordAggregationTime(duration)
	a.stats.SetLastRun()
	logger.Info("aggregation completed",
		"region", region,
		"fast", fast,
		"stories", len(stories),
		"rejected", rejected,
		"duplicates", before-len(stories),
		"duration", duration.String(),
	)

	return &Result{
		GeneratedAt: a.now(),
		Count:       len(stories),
		Stories:     stories,
	}, nil
}

// textIndex is the lowercased haystack the free-text filter searches.
func textIndex(s story.Story) string {
	parts := []string{s.Title, s.Excerpt, s.Site, s.SourceTitle}
	parts = append(parts, s.Categories...)
	if s.Region != nil {
		parts = append(parts, *s.Region)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
