package routing

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"dogwalk-tracker/internal/models"
)

// MatchCache keeps routed geometries for waypoint sets that were already
// matched, so re-submitting the same drawing does not hit the routing API again
type MatchCache struct {
	entries    map[string]*CacheEntry
	mutex      sync.RWMutex
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	stats      CacheStats
}

// CacheEntry represents a cached routed path
type CacheEntry struct {
	Path         models.Path
	CreatedAt    time.Time
	LastAccessed time.Time
	HitCount     int
}

// CacheStats tracks cache performance
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	mutex     sync.RWMutex
}

// NewMatchCache creates a cache holding at most maxEntries paths for ttl
func NewMatchCache(maxEntries int, ttl time.Duration) *MatchCache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MatchCache{
		entries:    make(map[string]*CacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Signature derives the cache key for a waypoint sequence.
// Coordinates are rounded to ~1 m so redraws of the same line share a key.
func Signature(waypoints models.Path) string {
	if len(waypoints) == 0 {
		return ""
	}

	var b strings.Builder
	for _, p := range waypoints {
		fmt.Fprintf(&b, "%.5f,%.5f;", p.Latitude, p.Longitude)
	}

	hash := md5.Sum([]byte(b.String()))
	return fmt.Sprintf("%x", hash[:8])
}

// Get retrieves a routed path if present and not expired
func (c *MatchCache) Get(signature string) (models.Path, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, found := c.entries[signature]
	if !found {
		c.recordMiss()
		return nil, false
	}

	now := c.now()
	if now.Sub(entry.CreatedAt) > c.ttl {
		delete(c.entries, signature)
		c.recordMiss()
		c.recordEviction()
		return nil, false
	}

	entry.LastAccessed = now
	entry.HitCount++
	c.recordHit()
	return entry.Path.Clone(), true
}

// Set stores a routed path, evicting the least recently used entry when full
func (c *MatchCache) Set(signature string, path models.Path) {
	if signature == "" {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.entries[signature]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	now := c.now()
	c.entries[signature] = &CacheEntry{
		Path:         path.Clone(),
		CreatedAt:    now,
		LastAccessed: now,
	}
}

// evictOldest removes the least recently used entry. Caller holds the lock.
func (c *MatchCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.LastAccessed.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.LastAccessed
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.recordEviction()
		log.Printf("🗑️  Evicted oldest match cache entry: %s", oldestKey)
	}
}

// PruneExpired drops every entry older than the TTL and returns how many were removed
func (c *MatchCache) PruneExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.CreatedAt) > c.ttl {
			delete(c.entries, key)
			c.recordEviction()
			removed++
		}
	}
	return removed
}

// Run prunes expired entries every interval until ctx is done
func (c *MatchCache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.PruneExpired(); n > 0 {
				log.Printf("🧹 Pruned %d expired match cache entries", n)
			}
		}
	}
}

func (c *MatchCache) recordHit() {
	c.stats.mutex.Lock()
	defer c.stats.mutex.Unlock()
	c.stats.Hits++
}

func (c *MatchCache) recordMiss() {
	c.stats.mutex.Lock()
	defer c.stats.mutex.Unlock()
	c.stats.Misses++
}

func (c *MatchCache) recordEviction() {
	c.stats.mutex.Lock()
	defer c.stats.mutex.Unlock()
	c.stats.Evictions++
}

// GetStats returns cache statistics for the diagnostics endpoint
func (c *MatchCache) GetStats() map[string]interface{} {
	c.mutex.RLock()
	size := len(c.entries)
	c.mutex.RUnlock()

	c.stats.mutex.RLock()
	defer c.stats.mutex.RUnlock()

	hitRate := 0.0
	total := c.stats.Hits + c.stats.Misses
	if total > 0 {
		hitRate = float64(c.stats.Hits) / float64(total) * 100
	}

	return map[string]interface{}{
		"cache_size":  size,
		"max_entries": c.maxEntries,
		"hits":        c.stats.Hits,
		"misses":      c.stats.Misses,
		"hit_rate":    fmt.Sprintf("%.2f%%", hitRate),
		"evictions":   c.stats.Evictions,
		"ttl_hours":   int(c.ttl.Hours()),
	}
}
