package routing

import (
	"testing"
	"time"

	"dogwalk-tracker/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSignatureStableAndDistinct(t *testing.T) {
	a := models.Path{{Latitude: 41.9, Longitude: -87.7}, {Latitude: 41.91, Longitude: -87.69}}
	b := models.Path{{Latitude: 41.9, Longitude: -87.7}, {Latitude: 41.92, Longitude: -87.69}}

	assert.Equal(t, Signature(a), Signature(a.Clone()))
	assert.NotEqual(t, Signature(a), Signature(b))
	assert.Equal(t, "", Signature(nil))
}

func TestCacheHitMissAndTTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewMatchCache(10, time.Hour)
	c.now = func() time.Time { return now }

	path := models.Path{{Latitude: 1, Longitude: 2}, {Latitude: 3, Longitude: 4}}
	_, ok := c.Get("sig")
	assert.False(t, ok)

	c.Set("sig", path)
	got, ok := c.Get("sig")
	assert.True(t, ok)
	assert.Equal(t, path, got)

	now = now.Add(2 * time.Hour)
	_, ok = c.Get("sig")
	assert.False(t, ok)

	stats := c.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(2), stats["misses"])
	assert.Equal(t, int64(1), stats["evictions"])
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewMatchCache(2, time.Hour)
	c.now = func() time.Time { return now }

	c.Set("a", models.Path{{Latitude: 1}})
	now = now.Add(time.Second)
	c.Set("b", models.Path{{Latitude: 2}})
	now = now.Add(time.Second)
	c.Get("a")
	now = now.Add(time.Second)
	c.Set("c", models.Path{{Latitude: 3}})

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	_, okC := c.Get("c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
}

func TestPruneExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewMatchCache(10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("old", models.Path{{Latitude: 1}})
	now = now.Add(2 * time.Minute)
	c.Set("fresh", models.Path{{Latitude: 2}})

	assert.Equal(t, 1, c.PruneExpired())
	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestCacheReturnsCopies(t *testing.T) {
	c := NewMatchCache(10, time.Hour)
	path := models.Path{{Latitude: 1, Longitude: 1}}
	c.Set("k", path)
	path[0].Latitude = 99

	got, _ := c.Get("k")
	assert.Equal(t, 1.0, got[0].Latitude)
	got[0].Latitude = 50

	again, _ := c.Get("k")
	assert.Equal(t, 1.0, again[0].Latitude)
}
