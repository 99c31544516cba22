package controller

import (
	"context"
	"fmt"
	"log"

	"dogwalk-tracker/internal/geo"
	"dogwalk-tracker/internal/models"
	"dogwalk-tracker/internal/services"
	"dogwalk-tracker/internal/units"
)

// PlanView is the read model of the planning state
type PlanView struct {
	Start      *models.GeoPoint        `json:"start,omitempty"`
	Plan       *models.PlannedRoute    `json:"plan"`
	History    []models.RouteCandidate `json:"history"`
	Cursor     int                     `json:"cursor"`
	Generation uint64                  `json:"generation"`
}

// MatchOutcome reports what MatchFreehand made the active plan
type MatchOutcome struct {
	Plan     models.PlannedRoute `json:"plan"`
	Fallback bool                `json:"fallback"`
	Notice   string              `json:"notice,omitempty"`
	Cached   bool                `json:"cached"`
}

// AutoPlanRequest asks for a generated loop. Target is expressed in Unit.
type AutoPlanRequest struct {
	Start      *models.GeoPoint
	Target     float64
	Unit       units.Unit
	Preference models.Preference
}

func (c *Controller) viewLocked() PlanView {
	history := make([]models.RouteCandidate, len(c.history.Candidates))
	copy(history, c.history.Candidates)

	var plan *models.PlannedRoute
	if c.plan != nil {
		p := *c.plan
		p.Path = p.Path.Clone()
		plan = &p
	}

	return PlanView{
		Start:      c.start,
		Plan:       plan,
		History:    history,
		Cursor:     c.history.Cursor,
		Generation: c.generation,
	}
}

// setPlanLocked supersedes the active plan and pushes it
func (c *Controller) setPlanLocked(plan *models.PlannedRoute) {
	c.plan = plan
	c.notifier.Publish(EventPlan, c.viewLocked())
	c.pushStats()
}

// Plan returns the current planning state
func (c *Controller) Plan() PlanView {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.viewLocked()
}

// PlannedRoute returns a copy of the active plan, or nil
func (c *Controller) PlannedRoute() *models.PlannedRoute {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.viewLocked().Plan
}

// Locate resolves the start location. An empty query uses the last device fix.
func (c *Controller) Locate(ctx context.Context, query string) (models.GeoPoint, error) {
	var (
		p   models.GeoPoint
		err error
	)
	if query == "" {
		var fix models.Fix
		fix, err = c.provider.CurrentPosition()
		p = fix.Point()
	} else if c.locator == nil {
		err = fmt.Errorf("%w: no geocoder configured", services.ErrGeocodeNotFound)
	} else {
		p, err = c.locator.Resolve(ctx, query)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err != nil {
		c.notice(err)
		return models.GeoPoint{}, err
	}

	c.start = &p
	c.notifier.Publish(EventStart, p)
	log.Printf("📌 Start location set to %.6f, %.6f", p.Latitude, p.Longitude)
	return p, nil
}

// BeginPlanning starts a new planning session: plan and history are reset and
// any in-flight planning request becomes stale
func (c *Controller) BeginPlanning() PlanView {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.generation++
	c.history.Reset()
	c.setPlanLocked(nil)
	return c.viewLocked()
}

func checkPath(path models.Path) error {
	for i, p := range path {
		if !p.Valid() {
			return fmt.Errorf("%w: point %d (%.6f, %.6f)", ErrInvalidPath, i, p.Latitude, p.Longitude)
		}
	}
	return nil
}

// SetFreehand makes a drawn path the plan without matching it
func (c *Controller) SetFreehand(path models.Path) (models.PlannedRoute, error) {
	if len(path) < 2 {
		return models.PlannedRoute{}, services.ErrTooFewWaypoints
	}
	if err := checkPath(path); err != nil {
		return models.PlannedRoute{}, err
	}

	plan := models.PlannedRoute{
		Path:         path.Clone(),
		LengthMeters: geo.PathLength(path),
		Source:       models.PlanSourceFreehand,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.generation++
	c.setPlanLocked(&plan)
	return plan, nil
}

// MatchFreehand snaps a drawn path onto walkable ways. Routing failures keep
// the freehand path as the plan and are reported in the outcome, not as an error.
func (c *Controller) MatchFreehand(ctx context.Context, path models.Path) (MatchOutcome, error) {
	if c.matcher == nil {
		return MatchOutcome{}, fmt.Errorf("%w: no matcher configured", services.ErrRoutingRequestFailed)
	}
	if err := checkPath(path); err != nil {
		return MatchOutcome{}, err
	}

	c.mutex.Lock()
	c.generation++
	gen := c.generation
	c.mutex.Unlock()

	res := c.matcher.MatchRoute(ctx, path)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.generation != gen {
		log.Printf("⏭️  Discarding stale match response (gen %d, now %d)", gen, c.generation)
		return MatchOutcome{}, ErrStaleResponse
	}

	plan := models.PlannedRoute{
		Path:         res.Path,
		LengthMeters: res.LengthMeters,
		Source:       models.PlanSourceMatched,
	}
	outcome := MatchOutcome{Fallback: res.Fallback, Cached: res.Cached}
	if res.Fallback {
		plan.Source = models.PlanSourceFallback
		outcome.Notice = "Route matching failed, using freehand path"
		if res.Cause != nil {
			c.notice(fmt.Errorf("route matching failed, using freehand path: %w", res.Cause))
		}
	}
	outcome.Plan = plan

	c.setPlanLocked(&plan)
	return outcome, nil
}

// AutoPlan generates a loop, appends it to the history and makes it the plan
func (c *Controller) AutoPlan(ctx context.Context, req AutoPlanRequest) (models.RouteCandidate, error) {
	if c.generator == nil {
		return models.RouteCandidate{}, fmt.Errorf("%w: no generator configured", services.ErrRoutingRequestFailed)
	}

	unit := req.Unit
	if unit == "" {
		unit = units.Meters
	}
	target, err := units.ToMeters(req.Target, unit)
	if err != nil {
		return models.RouteCandidate{}, err
	}
	pref := req.Preference
	if pref == "" {
		pref = models.PreferenceScenic
	}

	c.mutex.Lock()
	start := req.Start
	if start == nil {
		start = c.start
	}
	if start == nil {
		c.mutex.Unlock()
		return models.RouteCandidate{}, ErrNoStartLocation
	}
	origin := *start
	c.generation++
	gen := c.generation
	c.mutex.Unlock()

	candidate, err := c.generator.GenerateCircularRoute(ctx, origin, target, pref)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.generation != gen {
		log.Printf("⏭️  Discarding stale auto-route response (gen %d, now %d)", gen, c.generation)
		return models.RouteCandidate{}, ErrStaleResponse
	}
	if err != nil {
		c.notice(err)
		return models.RouteCandidate{}, err
	}

	c.start = &origin
	c.preference = pref
	c.history.Append(candidate)
	plan := models.PlannedRouteFromCandidate(candidate)
	c.setPlanLocked(&plan)
	return candidate, nil
}

// HistoryPrev selects the previous generated loop as the plan
func (c *Controller) HistoryPrev() (models.RouteCandidate, error) {
	return c.selectHistory(c.history.Prev)
}

// HistoryNext selects the next generated loop as the plan
func (c *Controller) HistoryNext() (models.RouteCandidate, error) {
	return c.selectHistory(c.history.Next)
}

func (c *Controller) selectHistory(move func() (models.RouteCandidate, error)) (models.RouteCandidate, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	candidate, err := move()
	if err != nil {
		return models.RouteCandidate{}, err
	}

	c.generation++
	c.preference = candidate.Preference
	plan := models.PlannedRouteFromCandidate(candidate)
	c.setPlanLocked(&plan)
	return candidate, nil
}

// ClearPlan destroys the plan and the history
func (c *Controller) ClearPlan() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.generation++
	c.history.Reset()
	c.setPlanLocked(nil)
}
