// Package controller owns the single walk planner and tracker. Every
// mutation of the plan, the auto-route history and the track session goes
// through one Controller, serialized by its mutex.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"dogwalk-tracker/internal/database"
	"dogwalk-tracker/internal/models"
	"dogwalk-tracker/internal/services"
	"dogwalk-tracker/internal/tracking"
	"dogwalk-tracker/internal/units"
)

var (
	// ErrStaleResponse means a newer planning action superseded the request
	// while it was in flight; its result was discarded.
	ErrStaleResponse   = errors.New("response superseded by a newer planning action")
	ErrNoStartLocation = errors.New("no start location set")
	ErrInvalidPath     = errors.New("path point out of range")
)

// Event types pushed to the Notifier
const (
	EventPlan      = "plan"
	EventTrack     = "track"
	EventStats     = "stats"
	EventStart     = "start_location"
	EventNotice    = "notice"
	EventSavedWalk = "saved_walk"
)

// Notifier receives state pushes. Publish is called with the controller
// locked and must not block or call back into the controller.
type Notifier interface {
	Publish(eventType string, data interface{})
}

type RouteGenerator interface {
	GenerateCircularRoute(ctx context.Context, start models.GeoPoint, targetMeters float64, pref models.Preference) (models.RouteCandidate, error)
}

type RouteMatcher interface {
	MatchRoute(ctx context.Context, freehand models.Path) services.MatchResult
}

type Locator interface {
	Resolve(ctx context.Context, query string) (models.GeoPoint, error)
}

// Deps wires the controller to its collaborators
type Deps struct {
	Generator RouteGenerator
	Matcher   RouteMatcher
	Locator   Locator
	Provider  tracking.Provider
	WakeLock  *tracking.WakeLock
	Filter    *tracking.FixFilter
	Store     database.SlotStore
	Notifier  Notifier
}

type Controller struct {
	mutex sync.Mutex

	generator RouteGenerator
	matcher   RouteMatcher
	locator   Locator
	provider  tracking.Provider
	wakeLock  *tracking.WakeLock
	filter    *tracking.FixFilter
	store     database.SlotStore
	notifier  Notifier

	// planning
	generation uint64
	start      *models.GeoPoint
	plan       *models.PlannedRoute
	history    models.AutoRouteHistory
	preference models.Preference

	// tracking
	session  *tracking.Session
	sub      tracking.Subscription
	subToken uint64

	unit      units.Unit
	lastError string
}

// New creates the controller. Missing optional collaborators get inert defaults.
func New(d Deps) *Controller {
	if d.Filter == nil {
		d.Filter = tracking.NewFixFilter(0)
	}
	if d.WakeLock == nil {
		d.WakeLock = tracking.NewWakeLock(nil)
	}
	if d.Store == nil {
		d.Store = database.NewMemoryStore()
	}
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Provider == nil {
		d.Provider = tracking.NewFeedProvider()
	}

	return &Controller{
		generator:  d.Generator,
		matcher:    d.Matcher,
		locator:    d.Locator,
		provider:   d.Provider,
		wakeLock:   d.WakeLock,
		filter:     d.Filter,
		store:      d.Store,
		notifier:   d.Notifier,
		preference: models.PreferenceScenic,
		session:    tracking.NewSession(),
		unit:       units.Meters,
	}
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, interface{}) {}

// notice records a non-fatal condition and pushes it to the page. Caller holds the lock.
func (c *Controller) notice(err error) {
	c.lastError = err.Error()
	c.notifier.Publish(EventNotice, map[string]string{"message": err.Error()})
}

// pushStats sends the stats line in the current display unit. Caller holds the lock.
func (c *Controller) pushStats() {
	stats, err := c.statsLocked(c.unit)
	if err != nil {
		log.Printf("⚠️  Failed to build stats: %v", err)
		return
	}
	c.notifier.Publish(EventStats, stats)
}

func (c *Controller) statsLocked(unit units.Unit) (models.Stats, error) {
	planned := 0.0
	if c.plan != nil {
		planned = c.plan.LengthMeters
	}
	return tracking.BuildStats(c.session.Distance(), planned, unit, c.preference)
}

// Stats renders the stats in unit; an empty unit uses the display unit
func (c *Controller) Stats(unit units.Unit) (models.Stats, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if unit == "" {
		unit = c.unit
	}
	return c.statsLocked(unit)
}

// SetUnit changes the display unit used for pushed stats
func (c *Controller) SetUnit(unit units.Unit) error {
	if !unit.Valid() {
		return fmt.Errorf("%w: %q", units.ErrUnknownUnit, string(unit))
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.unit = unit
	c.pushStats()
	return nil
}

// Diagnostics summarizes internal counters
func (c *Controller) Diagnostics() map[string]interface{} {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return map[string]interface{}{
		"generation":     c.generation,
		"track_state":    c.session.State(),
		"track_points":   c.session.Len(),
		"subscribed":     c.sub != nil,
		"history_size":   c.history.Len(),
		"wake_lock_held": c.wakeLock.Held(),
		"fix_filter":     c.filter.GetStats(),
		"last_error":     c.lastError,
		"display_unit":   c.unit,
	}
}
