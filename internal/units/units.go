// Package units converts distances between meters and the display units
// offered by the page. All internal distances are meters.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// Unit is a display/entry unit for distances
type Unit string

const (
	Meters     Unit = "meters"
	Kilometers Unit = "kilometers"
	Miles      Unit = "miles"
	Feet       Unit = "feet"
	Yards      Unit = "yards"
)

var ErrUnknownUnit = errors.New("unknown distance unit")

var metersPer = map[Unit]float64{
	Meters:     1,
	Kilometers: 1000,
	Miles:      1609.34,
	Feet:       0.3048,
	Yards:      0.9144,
}

var symbols = map[Unit]string{
	Meters:     "m",
	Kilometers: "km",
	Miles:      "mi",
	Feet:       "ft",
	Yards:      "yd",
}

// ParseUnit accepts full names and symbols. Empty input is the default unit (meters).
func ParseUnit(s string) (Unit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Meters, nil
	}
	if _, ok := metersPer[Unit(s)]; ok {
		return Unit(s), nil
	}
	for u, sym := range symbols {
		if s == sym {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// Valid reports whether u is one of the supported units
func (u Unit) Valid() bool {
	_, ok := metersPer[u]
	return ok
}

// Symbol is the short suffix used in formatted distances
func (u Unit) Symbol() string {
	return symbols[u]
}

// ToMeters converts value expressed in unit to meters
func ToMeters(value float64, unit Unit) (float64, error) {
	factor, ok := metersPer[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, string(unit))
	}
	return value * factor, nil
}

// FromMeters converts meters to unit
func FromMeters(value float64, unit Unit) (float64, error) {
	factor, ok := metersPer[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, string(unit))
	}
	return value / factor, nil
}
