package geo

import "dogwalk-tracker/internal/models"

// DefaultMaxPoints caps the waypoints submitted to the routing service for matching
const DefaultMaxPoints = 50

// Downsample keeps every step-th point (step = ceil(len/maxPoints)) and always
// keeps the original final point. Paths at or under maxPoints are returned as is.
// The result never reorders points and never contains points not in the input.
func Downsample(path models.Path, maxPoints int) models.Path {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	if len(path) <= maxPoints {
		return path
	}

	step := (len(path) + maxPoints - 1) / maxPoints
	out := make(models.Path, 0, maxPoints+1)
	for i := 0; i < len(path); i += step {
		out = append(out, path[i])
	}

	last := len(path) - 1
	if last%step != 0 {
		out = append(out, path[last])
	}
	return out
}
