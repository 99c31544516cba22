package models

// TrackState represents where the live track session is in its lifecycle
type TrackState string

const (
	TrackStateIdle    TrackState = "idle"
	TrackStateActive  TrackState = "active"  // receiving fixes
	TrackStatePaused  TrackState = "paused"  // points retained, no fixes
	TrackStateStopped TrackState = "stopped" // read-only, save eligible
)

// TrackSnapshot is a read-only copy of the session handed to bindings
type TrackSnapshot struct {
	ID             string     `json:"id,omitempty"`
	State          TrackState `json:"state"`
	Points         Path       `json:"points"`
	DistanceMeters float64    `json:"distance_meters"`
	StartedAt      *int64     `json:"started_at,omitempty"` // Unix timestamp
	StoppedAt      *int64     `json:"stopped_at,omitempty"` // Unix timestamp
	WakeLockHeld   bool       `json:"wake_lock_held"`
}

// Stats is the structured form of the stats line
type Stats struct {
	Unit            string   `json:"unit"`
	Tracked         float64  `json:"tracked"`
	Planned         float64  `json:"planned,omitempty"`
	PercentComplete *float64 `json:"percent_complete,omitempty"`
	Preference      string   `json:"preference,omitempty"`
	Text            string   `json:"text"`
}
