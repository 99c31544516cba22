package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// GeoPoint is a single position in decimal degrees
type GeoPoint struct {
	Latitude  float64 `json:"lat" db:"latitude"`
	Longitude float64 `json:"lng" db:"longitude"`
}

// Valid reports whether the point lies inside WGS84 bounds
func (p GeoPoint) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// LonLat returns the point in [lon, lat] order as used by GeoJSON bodies
func (p GeoPoint) LonLat() [2]float64 {
	return [2]float64{p.Longitude, p.Latitude}
}

// Path is an ordered sequence of points. Order defines the walked or drawn direction.
type Path []GeoPoint

// Clone returns a copy that does not share the backing array
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// LineString converts the path to an orb geometry ([lon, lat] order)
func (p Path) LineString() orb.LineString {
	ls := make(orb.LineString, len(p))
	for i, pt := range p {
		ls[i] = orb.Point{pt.Longitude, pt.Latitude}
	}
	return ls
}

// PathFromLineString converts an orb geometry back into a path
func PathFromLineString(ls orb.LineString) Path {
	out := make(Path, len(ls))
	for i, pt := range ls {
		out[i] = GeoPoint{Latitude: pt.Lat(), Longitude: pt.Lon()}
	}
	return out
}

// ErrInvalidFix marks a GPS sample that is missing coordinates or out of range
var ErrInvalidFix = errors.New("invalid fix coordinates")

// Fix is one GPS sample delivered by the page's geolocation watch
type Fix struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`  // meters, as reported by the device
	Timestamp int64    `json:"timestamp,omitempty"` // client-side, unix millis
}

// UnmarshalJSON requires both coordinates. A missing one would otherwise
// decode as 0 and pass for a real position.
func (f *Fix) UnmarshalJSON(data []byte) error {
	var raw struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Accuracy  *float64 `json:"accuracy"`
		Timestamp int64    `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Latitude == nil || raw.Longitude == nil {
		return fmt.Errorf("%w: latitude and longitude are required", ErrInvalidFix)
	}

	*f = Fix{
		Latitude:  *raw.Latitude,
		Longitude: *raw.Longitude,
		Accuracy:  raw.Accuracy,
		Timestamp: raw.Timestamp,
	}
	return nil
}

// Point drops the sample metadata
func (f Fix) Point() GeoPoint {
	return GeoPoint{Latitude: f.Latitude, Longitude: f.Longitude}
}
