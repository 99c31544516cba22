package controller

import (
	"context"
	"errors"
	"testing"

	"dogwalk-tracker/internal/geo"
	"dogwalk-tracker/internal/models"
	"dogwalk-tracker/internal/tracking"
	"dogwalk-tracker/internal/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixes(n int) []models.Fix {
	out := make([]models.Fix, n)
	for i := range out {
		out[i] = models.Fix{Latitude: 41.9 + float64(i)*0.0005, Longitude: -87.7}
	}
	return out
}

func TestTrackingFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.ctrl.StartTracking(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TrackStateActive, snap.State)
	assert.True(t, snap.WakeLockHeld)

	all := fixes(4)
	for _, fix := range all[:2] {
		assert.Equal(t, 1, f.feed.Publish(fix))
	}

	snap, err = f.ctrl.PauseTracking(ctx)
	require.NoError(t, err)
	assert.False(t, snap.WakeLockHeld)
	assert.Equal(t, 0, f.feed.Publish(all[2]), "paused session has no subscription")

	_, err = f.ctrl.ResumeTracking(ctx)
	require.NoError(t, err)
	f.feed.Publish(all[3])

	snap, err = f.ctrl.StopTracking(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TrackStateStopped, snap.State)
	require.Len(t, snap.Points, 3)

	want := models.Path{all[0].Point(), all[1].Point(), all[3].Point()}
	assert.Equal(t, want, snap.Points)
	assert.InDelta(t, geo.PathLength(want), snap.DistanceMeters, 1e-6)
	assert.Equal(t, 0, f.feed.Subscribers())
}

func TestInvalidTransitionsLeaveState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ctrl.PauseTracking(ctx)
	assert.True(t, errors.Is(err, tracking.ErrInvalidTransition))
	_, err = f.ctrl.StopTracking(ctx)
	assert.True(t, errors.Is(err, tracking.ErrInvalidTransition))
	assert.Equal(t, models.TrackStateIdle, f.ctrl.Track().State)
	assert.Equal(t, 0, f.feed.Subscribers())
}

func TestClearCancelsSubscription(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ctrl.StartTracking(ctx)
	require.NoError(t, err)
	f.feed.Publish(fixes(1)[0])

	snap := f.ctrl.ClearTracking(ctx)
	assert.Equal(t, models.TrackStateIdle, snap.State)
	assert.Empty(t, snap.Points)
	assert.Equal(t, 0, f.feed.Subscribers())

	// clearing twice is harmless
	f.ctrl.ClearTracking(ctx)
}

func TestLowAccuracyFixIgnored(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.StartTracking(context.Background())
	require.NoError(t, err)

	bad := 500.0
	f.feed.Publish(models.Fix{Latitude: 41.9, Longitude: -87.7, Accuracy: &bad})
	assert.Empty(t, f.ctrl.Track().Points)
}

func TestGeolocationErrorBeforeFirstFix(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.StartTracking(context.Background())
	require.NoError(t, err)

	f.feed.ReportError(tracking.GeolocationError(tracking.GeolocationPermissionDenied, "denied"))

	snap := f.ctrl.Track()
	assert.Equal(t, models.TrackStateIdle, snap.State)
	assert.False(t, snap.WakeLockHeld)
	assert.Equal(t, 0, f.feed.Subscribers())
	assert.Equal(t, 1, f.notifier.count(EventNotice))
}

func TestGeolocationErrorMidWalkPauses(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.StartTracking(context.Background())
	require.NoError(t, err)
	f.feed.Publish(fixes(1)[0])

	f.feed.ReportError(tracking.GeolocationError(tracking.GeolocationPositionUnavailable, "lost"))

	snap := f.ctrl.Track()
	assert.Equal(t, models.TrackStatePaused, snap.State)
	assert.Len(t, snap.Points, 1)

	_, err = f.ctrl.ResumeTracking(context.Background())
	assert.NoError(t, err)
}

func TestWakeLockUnavailableDoesNotBlockTracking(t *testing.T) {
	f := newFixture(t)
	f.ctrl.wakeLock = tracking.NewWakeLock(nil)

	snap, err := f.ctrl.StartTracking(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TrackStateActive, snap.State)
	assert.False(t, snap.WakeLockHeld)
	assert.Equal(t, 1, f.notifier.count(EventNotice))
}

func TestVisibilityReacquiresWakeLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ctrl.StartTracking(ctx)
	require.NoError(t, err)

	assert.False(t, f.ctrl.SetVisibility(ctx, false).WakeLockHeld)
	assert.True(t, f.ctrl.SetVisibility(ctx, true).WakeLockHeld)

	_, err = f.ctrl.StopTracking(ctx)
	require.NoError(t, err)
	assert.False(t, f.ctrl.SetVisibility(ctx, true).WakeLockHeld)
}

func TestSaveWithNoPointsLeavesStoreUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ctrl.SaveWalk(ctx)
	assert.True(t, errors.Is(err, tracking.ErrNothingToSave))
	assert.Equal(t, 0, f.store.puts)

	_, err = f.ctrl.StartTracking(ctx)
	require.NoError(t, err)
	_, err = f.ctrl.SaveWalk(ctx)
	assert.True(t, errors.Is(err, tracking.ErrNothingToSave))
	assert.Equal(t, 0, f.store.puts)
}

func TestLoadWithNothingSaved(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.LoadWalk(context.Background())
	assert.True(t, errors.Is(err, tracking.ErrNothingSaved))
}

func TestSaveAndLoadWalk(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ctrl.StartTracking(ctx)
	require.NoError(t, err)
	for _, fix := range fixes(3) {
		f.feed.Publish(fix)
	}
	_, err = f.ctrl.StopTracking(ctx)
	require.NoError(t, err)

	n, err := f.ctrl.SaveWalk(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	raw, err := f.store.Get(ctx, tracking.LastWalkKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"lat":41.9`)

	f.ctrl.ClearTracking(ctx)

	loaded, err := f.ctrl.LoadWalk(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
	assert.Equal(t, models.TrackStateIdle, f.ctrl.Track().State, "loading is independent of the session")
	assert.Equal(t, 1, f.notifier.count(EventSavedWalk))
}

func TestStatsAgainstPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stats, err := f.ctrl.Stats("")
	require.NoError(t, err)
	assert.Equal(t, "Tracked: 0.0 m", stats.Text)

	plan := models.Path{home, {Latitude: 41.91, Longitude: -87.7}}
	_, err = f.ctrl.SetFreehand(plan)
	require.NoError(t, err)

	_, err = f.ctrl.StartTracking(ctx)
	require.NoError(t, err)
	for _, fix := range fixes(2) {
		f.feed.Publish(fix)
	}

	stats, err = f.ctrl.Stats(units.Kilometers)
	require.NoError(t, err)
	require.NotNil(t, stats.PercentComplete)
	tracked := geo.PathLength(models.Path{fixes(2)[0].Point(), fixes(2)[1].Point()})
	assert.InDelta(t, tracked/geo.PathLength(plan)*100, *stats.PercentComplete, 1e-9)
	assert.Contains(t, stats.Text, " km / Planned: ")
	assert.Contains(t, stats.Text, "· Scenic")

	assert.Error(t, f.ctrl.SetUnit("parsecs"))
	require.NoError(t, f.ctrl.SetUnit(units.Miles))
	stats, err = f.ctrl.Stats("")
	require.NoError(t, err)
	assert.Equal(t, "miles", stats.Unit)
}
