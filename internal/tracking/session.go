package tracking

import (
	"fmt"
	"time"

	"dogwalk-tracker/internal/geo"
	"dogwalk-tracker/internal/models"

	"github.com/google/uuid"
)

// Session is the live walk being recorded. It is not safe for concurrent use;
// the controller serializes access.
//
//	idle ──start──▶ active ◀──resume── paused
//	                  │ └────pause────▶ │
//	                  └──stop──▶ stopped ◀──stop──┘
//	clear from any state returns to idle; start from stopped begins a new walk
type Session struct {
	id        string
	state     models.TrackState
	points    models.Path
	distance  float64
	startedAt *int64
	stoppedAt *int64
	now       func() time.Time
}

// NewSession returns an idle session
func NewSession() *Session {
	return &Session{
		state: models.TrackStateIdle,
		now:   time.Now,
	}
}

func (s *Session) State() models.TrackState {
	return s.state
}

func (s *Session) ID() string {
	return s.id
}

// Distance is the running total in meters
func (s *Session) Distance() float64 {
	return s.distance
}

func (s *Session) Len() int {
	return len(s.points)
}

// Points returns a copy of the recorded fixes
func (s *Session) Points() models.Path {
	return s.points.Clone()
}

func (s *Session) transitionError(action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, s.state)
}

// Start begins a fresh walk, discarding any points from a stopped one
func (s *Session) Start() error {
	if s.state != models.TrackStateIdle && s.state != models.TrackStateStopped {
		return s.transitionError("start")
	}

	startedAt := s.now().Unix()
	s.id = uuid.New().String()
	s.state = models.TrackStateActive
	s.points = models.Path{}
	s.distance = 0
	s.startedAt = &startedAt
	s.stoppedAt = nil
	return nil
}

func (s *Session) Pause() error {
	if s.state != models.TrackStateActive {
		return s.transitionError("pause")
	}
	s.state = models.TrackStatePaused
	return nil
}

func (s *Session) Resume() error {
	if s.state != models.TrackStatePaused {
		return s.transitionError("resume")
	}
	s.state = models.TrackStateActive
	return nil
}

// Stop freezes the session. Points stay readable for save and export.
func (s *Session) Stop() error {
	if s.state != models.TrackStateActive && s.state != models.TrackStatePaused {
		return s.transitionError("stop")
	}
	stoppedAt := s.now().Unix()
	s.state = models.TrackStateStopped
	s.stoppedAt = &stoppedAt
	return nil
}

// Clear discards everything and returns to idle
func (s *Session) Clear() {
	s.id = ""
	s.state = models.TrackStateIdle
	s.points = nil
	s.distance = 0
	s.startedAt = nil
	s.stoppedAt = nil
}

// AddFix appends a point and returns the segment length it added.
// The first point of a walk adds nothing.
func (s *Session) AddFix(p models.GeoPoint) (float64, error) {
	if s.state != models.TrackStateActive {
		return 0, fmt.Errorf("%w (state %s)", ErrNotReceiving, s.state)
	}
	if !p.Valid() {
		return 0, fmt.Errorf("%w: %.6f, %.6f", ErrInvalidFix, p.Latitude, p.Longitude)
	}

	segment := 0.0
	if n := len(s.points); n > 0 {
		segment = geo.SegmentLength(s.points[n-1], p)
	}
	s.points = append(s.points, p)
	s.distance += segment
	return segment, nil
}

// Snapshot copies the session for bindings
func (s *Session) Snapshot() models.TrackSnapshot {
	points := s.Points()
	if points == nil {
		points = models.Path{}
	}
	return models.TrackSnapshot{
		ID:             s.id,
		State:          s.state,
		Points:         points,
		DistanceMeters: s.distance,
		StartedAt:      s.startedAt,
		StoppedAt:      s.stoppedAt,
	}
}
