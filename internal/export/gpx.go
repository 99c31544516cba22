// Package export renders walks and plans in interchange formats
package export

import (
	"errors"
	"fmt"
	"time"

	"dogwalk-tracker/internal/models"

	"github.com/tkrajina/gpxgo/gpx"
)

var ErrEmptyWalk = errors.New("walk has no points")

// WalkMeta describes the walk in the GPX metadata
type WalkMeta struct {
	Name      string
	StartedAt *int64 // Unix timestamp
}

// GPX renders a walk as a GPX 1.1 document with one track and one segment.
// Fixes carry no per-point time, so only the document time is set.
func GPX(points models.Path, meta WalkMeta) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrEmptyWalk
	}

	segment := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, len(points))}
	for i, p := range points {
		segment.Points[i] = gpx.GPXPoint{
			Point: gpx.Point{Latitude: p.Latitude, Longitude: p.Longitude},
		}
	}

	name := meta.Name
	if name == "" {
		name = "Dog walk"
	}

	doc := &gpx.GPX{
		Creator: "dogwalk-tracker",
		Name:    name,
		Tracks: []gpx.GPXTrack{{
			Name:     name,
			Type:     "walking",
			Segments: []gpx.GPXTrackSegment{segment},
		}},
	}
	if meta.StartedAt != nil {
		t := time.Unix(*meta.StartedAt, 0).UTC()
		doc.Time = &t
	}

	data, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("failed to render GPX: %w", err)
	}
	return data, nil
}
