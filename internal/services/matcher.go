package services

import (
	"context"
	"errors"
	"log"

	"dogwalk-tracker/internal/geo"
	"dogwalk-tracker/internal/models"
	"dogwalk-tracker/internal/services/routing"
)

var ErrTooFewWaypoints = errors.New("freehand path needs at least two points to match")

// MatchResult is the outcome of aligning a freehand path to walkable ways.
// When Fallback is set, Path is the original freehand path and Cause says why.
type MatchResult struct {
	Path         models.Path
	LengthMeters float64
	Fallback     bool
	Cause        error
	Waypoints    int
	Cached       bool
}

// Matcher snaps freehand drawings onto the routing network
type Matcher struct {
	routing   RoutingService
	cache     *routing.MatchCache
	maxPoints int
}

// NewMatcher creates a matcher. cache may be nil to disable caching.
func NewMatcher(r RoutingService, cache *routing.MatchCache) *Matcher {
	return &Matcher{
		routing:   r,
		cache:     cache,
		maxPoints: geo.DefaultMaxPoints,
	}
}

// MatchRoute never fails: routing errors degrade to the freehand path
func (m *Matcher) MatchRoute(ctx context.Context, freehand models.Path) MatchResult {
	if len(freehand) < 2 {
		return fallback(freehand, 0, ErrTooFewWaypoints)
	}

	waypoints := geo.Downsample(freehand, m.maxPoints)
	sig := routing.Signature(waypoints)

	if m.cache != nil {
		if cached, ok := m.cache.Get(sig); ok {
			log.Printf("💾 [MATCH] Cache hit for %d waypoints", len(waypoints))
			return MatchResult{
				Path:         cached,
				LengthMeters: geo.PathLength(cached),
				Waypoints:    len(waypoints),
				Cached:       true,
			}
		}
	}

	log.Printf("🧭 [MATCH] Matching freehand path (%d points → %d waypoints)", len(freehand), len(waypoints))

	routed, err := m.routing.Directions(ctx, waypoints)
	if err != nil {
		log.Printf("   ⚠️  Matching failed, keeping freehand path: %v", err)
		return fallback(freehand, len(waypoints), err)
	}

	if m.cache != nil {
		m.cache.Set(sig, routed)
	}

	return MatchResult{
		Path:         routed,
		LengthMeters: geo.PathLength(routed),
		Waypoints:    len(waypoints),
	}
}

func fallback(freehand models.Path, waypoints int, cause error) MatchResult {
	path := freehand.Clone()
	return MatchResult{
		Path:         path,
		LengthMeters: geo.PathLength(path),
		Fallback:     true,
		Cause:        cause,
		Waypoints:    waypoints,
	}
}
