// Package cache stores the last aggregation result per filter key. Entries
// are never evicted; staleness is judged by age at read time so a stale
// result stays servable until a fresh one overwrites it.
package cache

import (
	"sync"
	"time"

	"joyfeed/internal/aggregate"
	"joyfeed/internal/metrics"
)

// Entry is one stored aggregation result with its write time.
type Entry struct {
	Result    *aggregate.Result `json:"result"`
	WrittenAt time.Time         `json:"written_at"`
}

// Backend is the storage capability behind the cache. The in-memory
// implementation is always available; a persistent one is optional.
type Backend interface {
	Get(key string) (*Entry, bool)
	Set(key string, e *Entry) error
}

// Key builds the cache key for a base result. Fast-mode results aggregate a
// different feed set, so they never share an entry with full results.
func Key(region string, fast bool) string {
	switch {
	case fast && region == "":
		return "fast"
	case fast:
		return "fast:" + region
	case region == "":
		return "all"
	default:
		return "region:" + region
	}
}

// Cache wraps a Backend with TTL bookkeeping. The clock is injected so tests
// can age entries without sleeping.
type Cache struct {
	backend Backend
	ttl     time.Duration
	stats   *metrics.Metrics
	now     func() time.Time
}

// New creates a Cache over the given backend.
func New(backend Backend, ttl time.Duration, stats *metrics.Metrics) *Cache {
	return &Cache{
		backend: backend,
		ttl:     ttl,
		stats:   stats,
		now:     time.Now,
	}
}

// Get returns the stored result for key and whether it is still fresh.
// A stale entry is still returned; the caller decides whether to serve it.
func (c *Cache) Get(key string) (result *aggregate.Result, fresh bool, ok bool) {
	e, ok := c.backend.Get(key)
	if !ok || e.Result == nil {
		c.stats.IncrementCacheMisses()
		return nil, false, false
	}
	fresh = c.now().Sub(e.WrittenAt) <= c.ttl
	if fresh {
		c.stats.IncrementCacheHits()
	} else {
		c.stats.IncrementCacheMisses()
	}
	return e.Result, fresh, true
}

// Put overwrites the entry for key. Backend write errors are returned so the
// caller can log them; a failed write only costs a future cache miss.
func (c *Cache) Put(key string, result *aggregate.Result) error {
	return c.backend.Set(key, &Entry{Result: result, WrittenAt: c.now()})
}

// Memory is the process-lifetime in-memory backend.
type Memory struct {
	mu    sync.RWMutex
	items map[string]*Entry
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]*Entry)}
}

func (m *Memory) Get(key string) (*Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.items[key]
	return e, ok
}

func (m *Memory) Set(key string, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = e
	return nil
}
