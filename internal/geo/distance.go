package geo

import (
	"dogwalk-tracker/internal/models"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean earth radius used by the map page's geometry
// library, so server-side lengths line up with what the page measures
const EarthRadiusMeters = 6371008.8

// SegmentLength returns the great-circle distance in meters between two points
func SegmentLength(a, b models.GeoPoint) float64 {
	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// PathLength sums the segment lengths of consecutive points.
// Paths with fewer than two points have zero length.
func PathLength(path models.Path) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += SegmentLength(path[i-1], path[i])
	}
	return total
}
