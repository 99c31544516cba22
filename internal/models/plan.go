package models

import (
	"errors"
	"fmt"
	"strings"
)

// Preference is a routing strategy hint for auto-generated routes
type Preference string

const (
	PreferenceScenic   Preference = "scenic"
	PreferenceShortest Preference = "shortest"
)

var ErrUnknownPreference = errors.New("unknown route preference")

// ParsePreference accepts the wire names; an empty string selects scenic
func ParsePreference(s string) (Preference, error) {
	switch Preference(strings.ToLower(strings.TrimSpace(s))) {
	case "", PreferenceScenic:
		return PreferenceScenic, nil
	case PreferenceShortest:
		return PreferenceShortest, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreference, s)
}

// Label is the human readable name shown next to the stats
func (p Preference) Label() string {
	switch p {
	case PreferenceShortest:
		return "Shortest"
	case PreferenceScenic:
		return "Scenic"
	}
	return ""
}

// RoutingFlag maps the preference onto the routing service's preference parameter
func (p Preference) RoutingFlag() string {
	if p == PreferenceShortest {
		return "shortest"
	}
	return "recommended"
}

// PointsHint is the round-trip point density sent with a generation request
func (p Preference) PointsHint() int {
	if p == PreferenceShortest {
		return 3
	}
	return 5
}

// RouteCandidate is one auto-generated round trip. Immutable after creation.
type RouteCandidate struct {
	ID           string     `json:"id"`
	Geometry     Path       `json:"geometry"`
	LengthMeters float64    `json:"length_meters"`
	TargetMeters float64    `json:"target_meters"`
	Seed         int64      `json:"seed"`
	Preference   Preference `json:"preference"`
	Attempts     int        `json:"attempts"` // routing requests issued (1 or 2)
}

// PlanSource records how the active planned route was produced
type PlanSource string

const (
	PlanSourceFreehand PlanSource = "freehand" // drawn, never submitted for matching
	PlanSourceMatched  PlanSource = "matched"
	PlanSourceFallback PlanSource = "fallback" // matching failed, freehand kept
	PlanSourceAuto     PlanSource = "auto"
)

// PlannedRoute is the currently active plan. It is replaced wholesale, never merged.
type PlannedRoute struct {
	Path         Path       `json:"path"`
	LengthMeters float64    `json:"length_meters"`
	Source       PlanSource `json:"source"`
	Preference   Preference `json:"preference,omitempty"`
	CandidateID  string     `json:"candidate_id,omitempty"`
}

// PlannedRouteFromCandidate makes an auto-generated candidate the active plan
func PlannedRouteFromCandidate(c RouteCandidate) PlannedRoute {
	return PlannedRoute{
		Path:         c.Geometry.Clone(),
		LengthMeters: c.LengthMeters,
		Source:       PlanSourceAuto,
		Preference:   c.Preference,
		CandidateID:  c.ID,
	}
}

var ErrHistoryBoundary = errors.New("no further route in history")

// AutoRouteHistory holds the candidates generated in one planning session
// with a cursor for prev/next navigation
type AutoRouteHistory struct {
	Candidates []RouteCandidate `json:"candidates"`
	Cursor     int              `json:"cursor"`
}

func (h *AutoRouteHistory) Reset() {
	h.Candidates = nil
	h.Cursor = 0
}

func (h *AutoRouteHistory) Len() int {
	return len(h.Candidates)
}

// Append adds a candidate at the end and moves the cursor onto it
func (h *AutoRouteHistory) Append(c RouteCandidate) {
	h.Candidates = append(h.Candidates, c)
	h.Cursor = len(h.Candidates) - 1
}

// Current returns the candidate under the cursor
func (h *AutoRouteHistory) Current() (RouteCandidate, bool) {
	if len(h.Candidates) == 0 {
		return RouteCandidate{}, false
	}
	return h.Candidates[h.Cursor], true
}

func (h *AutoRouteHistory) Prev() (RouteCandidate, error) {
	if len(h.Candidates) == 0 || h.Cursor == 0 {
		return RouteCandidate{}, ErrHistoryBoundary
	}
	h.Cursor--
	return h.Candidates[h.Cursor], nil
}

func (h *AutoRouteHistory) Next() (RouteCandidate, error) {
	if h.Cursor >= len(h.Candidates)-1 {
		return RouteCandidate{}, ErrHistoryBoundary
	}
	h.Cursor++
	return h.Candidates[h.Cursor], nil
}
