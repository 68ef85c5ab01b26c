package cache

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmfilter/filmfilter/internal/pipeline"
)

func proj(n int64) *pipeline.Projections {
	return &pipeline.Projections{
		TagFrequency: []pipeline.TagCount{{Tag: "t", Count: n}},
	}
}

func TestProjectionCacheGetPut(t *testing.T) {
	t.Parallel()

	c := NewProjectionCache(4)

	assert.Nil(t, c.Get("missing"))

	c.Put("a", proj(1))
	got := c.Get("a")
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.TagFrequency[0].Count)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestProjectionCacheNilValueNotStored(t *testing.T) {
	t.Parallel()

	c := NewProjectionCache(4)
	c.Put("a", nil)

	assert.Zero(t, c.Len())
}

func TestProjectionCacheEvictsLRU(t *testing.T) {
	t.Parallel()

	c := NewProjectionCache(2)

	c.Put("a", proj(1))
	c.Put("b", proj(2))

	// Touch "a" so "b" becomes the eviction victim.
	require.NotNil(t, c.Get("a"))

	c.Put("c", proj(3))

	assert.NotNil(t, c.Get("a"))
	assert.Nil(t, c.Get("b"))
	assert.NotNil(t, c.Get("c"))
	assert.Equal(t, 2, c.Len())
}

func TestProjectionCacheUpdateExisting(t *testing.T) {
	t.Parallel()

	c := NewProjectionCache(2)

	c.Put("a", proj(1))
	c.Put("a", proj(9))

	got := c.Get("a")
	require.NotNil(t, got)
	assert.Equal(t, int64(9), got.TagFrequency[0].Count)
	assert.Equal(t, 1, c.Len())
}

func TestProjectionCacheClear(t *testing.T) {
	t.Parallel()

	c := NewProjectionCache(4)
	c.Put("a", proj(1))
	c.Put("b", proj(2))

	c.Clear()

	assert.Zero(t, c.Len())
	assert.Nil(t, c.Get("a"))

	// Reuse after clear works.
	c.Put("c", proj(3))
	assert.NotNil(t, c.Get("c"))
}

func TestProjectionCacheDefaultCapacity(t *testing.T) {
	t.Parallel()

	c := NewProjectionCache(0)

	for i := range DefaultMaxEntries + 10 {
		c.Put(strconv.Itoa(i), proj(int64(i)))
	}

	assert.Equal(t, DefaultMaxEntries, c.Len())
}

func TestStatsHitRate(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Stats{}.HitRate())
	assert.InDelta(t, 0.75, Stats{Hits: 3, Misses: 1}.HitRate(), 1e-9)
}
