package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"

	"dogwalk-tracker/internal/geo"
	"dogwalk-tracker/internal/models"
	"dogwalk-tracker/internal/services/routing"

	"github.com/google/uuid"
)

var (
	ErrRoutingRequestFailed = routing.ErrRequestFailed
	ErrRoutingResponseEmpty = routing.ErrResponseEmpty
	ErrInvalidTarget        = errors.New("target distance must be positive")
)

const (
	// LengthTolerance is how far (meters) a generated loop may miss the target
	// before a single corrected request is issued. Roughly a fifth of a mile.
	LengthTolerance = 322.0

	// MinCorrectedTarget keeps the corrected request length positive
	MinCorrectedTarget = 100.0

	maxSeed = 100000
)

// RoutingService is the subset of the routing client the planners need
type RoutingService interface {
	RoundTrip(ctx context.Context, req routing.RoundTripRequest) (models.Path, error)
	Directions(ctx context.Context, waypoints models.Path) (models.Path, error)
}

// AutoRouteGenerator builds circular walks of a requested length
type AutoRouteGenerator struct {
	routing RoutingService

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewAutoRouteGenerator creates a generator. A nil src seeds from the global source.
func NewAutoRouteGenerator(r RoutingService, src rand.Source) *AutoRouteGenerator {
	if src == nil {
		src = rand.NewSource(rand.Int63())
	}
	return &AutoRouteGenerator{
		routing: r,
		rng:     rand.New(src),
	}
}

func (g *AutoRouteGenerator) nextSeed() int64 {
	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	return int64(g.rng.Intn(maxSeed))
}

// GenerateCircularRoute requests a round trip from start of roughly targetMeters.
// At most two routing requests are issued, both with the same seed.
func (g *AutoRouteGenerator) GenerateCircularRoute(ctx context.Context, start models.GeoPoint, targetMeters float64, pref models.Preference) (models.RouteCandidate, error) {
	if targetMeters <= 0 || math.IsNaN(targetMeters) || math.IsInf(targetMeters, 0) {
		return models.RouteCandidate{}, fmt.Errorf("%w: got %v", ErrInvalidTarget, targetMeters)
	}

	seed := g.nextSeed()
	req := routing.RoundTripRequest{
		Start:        start,
		LengthMeters: targetMeters,
		Points:       pref.PointsHint(),
		Seed:         seed,
		Preference:   pref.RoutingFlag(),
	}

	log.Printf("🎲 [AUTO-ROUTE] Generating %.0fm %s loop (seed %d)", targetMeters, pref, seed)

	path, err := g.routing.RoundTrip(ctx, req)
	if err != nil {
		return models.RouteCandidate{}, fmt.Errorf("failed to generate route: %w", err)
	}
	attempts := 1
	actual := geo.PathLength(path)

	if math.Abs(actual-targetMeters) > LengthTolerance {
		corrected := targetMeters + (targetMeters - actual)
		if corrected < MinCorrectedTarget {
			corrected = MinCorrectedTarget
		}
		log.Printf("   📏 Off by %.0fm (got %.0fm), retrying with %.0fm", actual-targetMeters, actual, corrected)

		req.LengthMeters = corrected
		path, err = g.routing.RoundTrip(ctx, req)
		if err != nil {
			return models.RouteCandidate{}, fmt.Errorf("failed to generate corrected route: %w", err)
		}
		attempts++
		actual = geo.PathLength(path)
	}

	log.Printf("   ✅ Loop ready: %.0fm after %d request(s)", actual, attempts)

	return models.RouteCandidate{
		ID:           uuid.New().String(),
		Geometry:     path,
		LengthMeters: actual,
		TargetMeters: targetMeters,
		Seed:         seed,
		Preference:   pref,
		Attempts:     attempts,
	}, nil
}
