package geo

import (
	"math"
	"testing"

	"dogwalk-tracker/internal/models"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/assert"
)

var chicagoLoop = models.Path{
	{Latitude: 41.9000, Longitude: -87.7000},
	{Latitude: 41.9010, Longitude: -87.7000},
	{Latitude: 41.9010, Longitude: -87.6985},
	{Latitude: 41.9000, Longitude: -87.6985},
	{Latitude: 41.9000, Longitude: -87.7000},
}

func TestSegmentLengthKnownDistances(t *testing.T) {
	// Berlin TV Tower to Brandenburg Gate, roughly 2.2 km
	d := SegmentLength(
		models.GeoPoint{Latitude: 52.5208, Longitude: 13.4094},
		models.GeoPoint{Latitude: 52.5163, Longitude: 13.3777},
	)
	assert.InDelta(t, 2200, d, 110)

	same := models.GeoPoint{Latitude: 52.52, Longitude: 13.405}
	assert.Equal(t, 0.0, SegmentLength(same, same))
}

func TestSegmentLengthMatchesOrbHaversine(t *testing.T) {
	pairs := [][2]models.GeoPoint{
		{{Latitude: 41.9, Longitude: -87.7}, {Latitude: 41.91, Longitude: -87.69}},
		{{Latitude: 40.7128, Longitude: -74.0060}, {Latitude: 34.0522, Longitude: -118.2437}},
		{{Latitude: -33.86, Longitude: 151.21}, {Latitude: -33.87, Longitude: 151.2}},
	}
	for _, p := range pairs {
		ours := SegmentLength(p[0], p[1])
		ref := orbgeo.DistanceHaversine(
			orb.Point{p[0].Longitude, p[0].Latitude},
			orb.Point{p[1].Longitude, p[1].Latitude},
		)
		if rel := math.Abs(ours-ref) / ref; rel > 0.005 {
			t.Errorf("segment %v: ours %.2f m, orb %.2f m (rel %.4f)", p, ours, ref, rel)
		}
	}
}

func TestPathLengthZeroForShortPaths(t *testing.T) {
	assert.Equal(t, 0.0, PathLength(nil))
	assert.Equal(t, 0.0, PathLength(models.Path{}))
	assert.Equal(t, 0.0, PathLength(models.Path{{Latitude: 1, Longitude: 2}}))
	assert.Greater(t, PathLength(chicagoLoop[:2]), 0.0)
}

func TestPathLengthCrossCheck(t *testing.T) {
	ours := PathLength(chicagoLoop)
	ref := orbgeo.LengthHaversine(chicagoLoop.LineString())
	assert.InEpsilon(t, ref, ours, 0.005)
}

func TestPathLengthConcatenation(t *testing.T) {
	a := chicagoLoop[:3]
	b := chicagoLoop[3:]
	joined := append(a.Clone(), b...)

	want := PathLength(a) + SegmentLength(a[len(a)-1], b[0]) + PathLength(b)
	assert.InDelta(t, want, PathLength(joined), 1e-6)
}
