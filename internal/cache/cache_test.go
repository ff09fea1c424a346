package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joyfeed/internal/aggregate"
	"joyfeed/internal/metrics"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "all", Key("", false))
	assert.Equal(t, "region:Europe", Key("Europe", false))
	assert.Equal(t, "fast", Key("", true))
	assert.Equal(t, "fast:Europe", Key("Europe", true))
}

func TestCache_MissOnEmptyBackend(t *testing.T) {
	c := New(NewMemory(), 10*time.Minute, metrics.New())

	_, _, ok := c.Get("all")

	assert.False(t, ok)
}

func TestCache_FreshWithinTTL(t *testing.T) {
	c := New(NewMemory(), 10*time.Minute, metrics.New())
	clock := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	want := &aggregate.Result{GeneratedAt: clock, Count: 3}
	require.NoError(t, c.Put("all", want))

	clock = clock.Add(9 * time.Minute)
	got, fresh, ok := c.Get("all")

	require.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, want, got)
}

func TestCache_StaleEntryStillReturned(t *testing.T) {
	c := New(NewMemory(), 10*time.Minute, metrics.New())
	clock := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	want := &aggregate.Result{GeneratedAt: clock, Count: 3}
	require.NoError(t, c.Put("all", want))

	clock = clock.Add(11 * time.Minute)
	got, fresh, ok := c.Get("all")

	require.True(t, ok)
	assert.False(t, fresh)
	assert.Equal(t, want, got)
}

func TestCache_PutOverwritesAndRestoresFreshness(t *testing.T) {
	c := New(NewMemory(), 10*time.Minute, metrics.New())
	clock := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	require.NoError(t, c.Put("all", &aggregate.Result{Count: 1}))
	clock = clock.Add(time.Hour)
	require.NoError(t, c.Put("all", &aggregate.Result{Count: 2}))

	got, fresh, ok := c.Get("all")

	require.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, 2, got.Count)
}

func TestCache_KeysAreIndependent(t *testing.T) {
	c := New(NewMemory(), 10*time.Minute, metrics.New())

	require.NoError(t, c.Put(Key("Europe", false), &aggregate.Result{Count: 5}))

	_, _, ok := c.Get(Key("Asia", false))
	assert.False(t, ok)
	_, _, ok = c.Get(Key("Europe", true))
	assert.False(t, ok)

	got, _, ok := c.Get(Key("Europe", false))
	require.True(t, ok)
	assert.Equal(t, 5, got.Count)
}

func TestCache_HitAndMissCounters(t *testing.T) {
	stats := metrics.New()
	c := New(NewMemory(), 10*time.Minute, stats)
	clock := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Get("all")
	require.NoError(t, c.Put("all", &aggregate.Result{Count: 1}))
	c.Get("all")
	clock = clock.Add(time.Hour)
	c.Get("all")

	s := stats.GetStats()
	assert.Equal(t, int64(1), s["cache_hits"])
	assert.Equal(t, int64(2), s["cache_misses"])
}
