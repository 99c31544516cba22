package controller

import (
	"context"
	"errors"
	"fmt"
	"log"

	"dogwalk-tracker/internal/database"
	"dogwalk-tracker/internal/models"
	"dogwalk-tracker/internal/tracking"
)

func (c *Controller) snapshotLocked() models.TrackSnapshot {
	snap := c.session.Snapshot()
	snap.WakeLockHeld = c.wakeLock.Held()
	return snap
}

func (c *Controller) pushTrackLocked() models.TrackSnapshot {
	snap := c.snapshotLocked()
	c.notifier.Publish(EventTrack, snap)
	c.pushStats()
	return snap
}

// subscribeLocked opens a fix subscription. Deliveries carry a token so a fix
// raced past a cancel cannot reach a later session.
func (c *Controller) subscribeLocked() {
	c.cancelSubscriptionLocked()

	c.subToken++
	token := c.subToken
	c.sub = c.provider.Subscribe(
		func(fix models.Fix) { c.receiveFix(token, fix) },
		func(err error) { c.geolocationFailed(token, err) },
	)
}

func (c *Controller) cancelSubscriptionLocked() {
	if c.sub == nil {
		return
	}
	c.sub.Cancel()
	c.sub = nil
	c.subToken++
}

// engageWakeLockLocked asks for a wake lock; failure is a notice only
func (c *Controller) engageWakeLockLocked(ctx context.Context) {
	if err := c.wakeLock.Engage(ctx); err != nil {
		c.notice(fmt.Errorf("%w: %v", tracking.ErrWakeLockUnavailable, err))
	}
}

// Track returns the current session snapshot
func (c *Controller) Track() models.TrackSnapshot {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.snapshotLocked()
}

// StartTracking begins a new walk
func (c *Controller) StartTracking(ctx context.Context) (models.TrackSnapshot, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.session.Start(); err != nil {
		return c.snapshotLocked(), err
	}
	c.subscribeLocked()
	c.engageWakeLockLocked(ctx)

	log.Printf("🐕 Tracking started (session %s)", c.session.ID())
	return c.pushTrackLocked(), nil
}

func (c *Controller) PauseTracking(ctx context.Context) (models.TrackSnapshot, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.session.Pause(); err != nil {
		return c.snapshotLocked(), err
	}
	c.cancelSubscriptionLocked()
	c.wakeLock.Disengage(ctx)

	log.Printf("⏸️  Tracking paused at %.1fm", c.session.Distance())
	return c.pushTrackLocked(), nil
}

func (c *Controller) ResumeTracking(ctx context.Context) (models.TrackSnapshot, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.session.Resume(); err != nil {
		return c.snapshotLocked(), err
	}
	c.subscribeLocked()
	c.engageWakeLockLocked(ctx)

	log.Printf("▶️  Tracking resumed")
	return c.pushTrackLocked(), nil
}

func (c *Controller) StopTracking(ctx context.Context) (models.TrackSnapshot, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.session.Stop(); err != nil {
		return c.snapshotLocked(), err
	}
	c.cancelSubscriptionLocked()
	c.wakeLock.Disengage(ctx)

	log.Printf("🛑 Tracking stopped: %d points, %.1fm", c.session.Len(), c.session.Distance())
	return c.pushTrackLocked(), nil
}

// ClearTracking discards the session from any state
func (c *Controller) ClearTracking(ctx context.Context) models.TrackSnapshot {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cancelSubscriptionLocked()
	c.wakeLock.Disengage(ctx)
	c.session.Clear()
	return c.pushTrackLocked()
}

// SetVisibility follows the page's visibility so the wake lock can be reacquired
func (c *Controller) SetVisibility(ctx context.Context, visible bool) models.TrackSnapshot {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.wakeLock.VisibilityChanged(ctx, visible); err != nil {
		c.notice(fmt.Errorf("%w: %v", tracking.ErrWakeLockUnavailable, err))
	}
	return c.pushTrackLocked()
}

// CheckFix reports whether fix would be recorded by the active walk's filter
func (c *Controller) CheckFix(fix models.Fix) error {
	return c.filter.Check(fix)
}

func (c *Controller) receiveFix(token uint64, fix models.Fix) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if token != c.subToken {
		return
	}
	if !c.filter.Accept(fix) {
		return
	}
	if _, err := c.session.AddFix(fix.Point()); err != nil {
		log.Printf("⚠️  Fix dropped: %v", err)
		return
	}
	c.pushTrackLocked()
}

// geolocationFailed ends fix delivery. A walk with no points never really
// started and returns to idle; otherwise it is paused so it can be resumed.
func (c *Controller) geolocationFailed(token uint64, err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if token != c.subToken {
		return
	}

	log.Printf("❌ Geolocation error: %v", err)
	c.cancelSubscriptionLocked()
	c.wakeLock.Disengage(context.Background())

	if c.session.Len() == 0 {
		c.session.Clear()
	} else if pauseErr := c.session.Pause(); pauseErr != nil {
		log.Printf("⚠️  Could not pause after geolocation error: %v", pauseErr)
	}

	c.notice(err)
	c.pushTrackLocked()
}

// SaveWalk writes the session's points to the single saved-walk slot,
// replacing any previous walk. With no points the store is not touched.
func (c *Controller) SaveWalk(ctx context.Context) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	points := c.session.Points()
	value, err := tracking.EncodeWalk(points)
	if err != nil {
		c.notice(err)
		return 0, err
	}
	if err := c.store.Put(ctx, tracking.LastWalkKey, value); err != nil {
		return 0, fmt.Errorf("failed to save walk: %w", err)
	}

	log.Printf("💾 Walk saved (%d points)", len(points))
	return len(points), nil
}

// LoadWalk reads the saved walk. It does not touch the live session.
func (c *Controller) LoadWalk(ctx context.Context) (models.Path, error) {
	value, err := c.store.Get(ctx, tracking.LastWalkKey)
	if errors.Is(err, database.ErrSlotEmpty) {
		err = tracking.ErrNothingSaved
	}
	var points models.Path
	if err == nil {
		points, err = tracking.DecodeWalk(value)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err != nil {
		if errors.Is(err, tracking.ErrNothingSaved) {
			c.notice(err)
			return nil, err
		}
		return nil, fmt.Errorf("failed to load walk: %w", err)
	}

	c.notifier.Publish(EventSavedWalk, points)
	return points, nil
}
