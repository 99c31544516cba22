package tracking

import (
	"errors"
	"testing"
	"time"

	"dogwalk-tracker/internal/geo"
	"dogwalk-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walkPoints(n int) models.Path {
	p := make(models.Path, n)
	for i := range p {
		// a gentle zig-zag so segments differ in length and bearing
		p[i] = models.GeoPoint{
			Latitude:  51.5 + float64(i)*0.0003,
			Longitude: -0.12 + float64(i%3)*0.0002,
		}
	}
	return p
}

func TestIncrementalDistanceMatchesBulkLength(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start())

	points := walkPoints(40)
	for i, p := range points {
		_, err := s.AddFix(p)
		require.NoError(t, err)
		assert.InDelta(t, geo.PathLength(points[:i+1]), s.Distance(), 1e-6, "after %d fixes", i+1)
	}
	assert.Equal(t, points, s.Points())
}

func TestFirstFixAddsNoDistance(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start())

	seg, err := s.AddFix(models.GeoPoint{Latitude: 10, Longitude: 10})
	require.NoError(t, err)
	assert.Equal(t, 0.0, seg)
	assert.Equal(t, 0.0, s.Distance())
}

func TestPauseResumeMeasuresFromLastPoint(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start())

	points := walkPoints(4)
	for _, p := range points[:2] {
		_, err := s.AddFix(p)
		require.NoError(t, err)
	}
	before := s.Distance()

	require.NoError(t, s.Pause())
	_, err := s.AddFix(points[2])
	assert.True(t, errors.Is(err, ErrNotReceiving))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, before, s.Distance())

	require.NoError(t, s.Resume())
	seg, err := s.AddFix(points[3])
	require.NoError(t, err)
	assert.InDelta(t, geo.SegmentLength(points[1], points[3]), seg, 1e-9)
	assert.InDelta(t, before+seg, s.Distance(), 1e-9)
}

func TestTransitions(t *testing.T) {
	s := NewSession()

	assert.True(t, errors.Is(s.Pause(), ErrInvalidTransition))
	assert.True(t, errors.Is(s.Resume(), ErrInvalidTransition))
	assert.True(t, errors.Is(s.Stop(), ErrInvalidTransition))
	assert.Equal(t, models.TrackStateIdle, s.State())

	require.NoError(t, s.Start())
	assert.True(t, errors.Is(s.Start(), ErrInvalidTransition))
	assert.True(t, errors.Is(s.Resume(), ErrInvalidTransition))

	require.NoError(t, s.Pause())
	assert.True(t, errors.Is(s.Pause(), ErrInvalidTransition))
	require.NoError(t, s.Stop())
	assert.Equal(t, models.TrackStateStopped, s.State())

	_, err := s.AddFix(models.GeoPoint{Latitude: 1, Longitude: 1})
	assert.True(t, errors.Is(err, ErrNotReceiving))
	assert.True(t, errors.Is(s.Resume(), ErrInvalidTransition))
}

func TestStartAfterStopBeginsNewWalk(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start())
	firstID := s.ID()
	for _, p := range walkPoints(3) {
		s.AddFix(p)
	}
	require.NoError(t, s.Stop())

	require.NoError(t, s.Start())
	assert.NotEqual(t, firstID, s.ID())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0.0, s.Distance())
}

func TestClearDiscardsEverything(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start())
	for _, p := range walkPoints(3) {
		s.AddFix(p)
	}

	s.Clear()
	snap := s.Snapshot()
	assert.Equal(t, models.TrackStateIdle, snap.State)
	assert.Empty(t, snap.Points)
	assert.NotNil(t, snap.Points)
	assert.Zero(t, snap.DistanceMeters)
	assert.Empty(t, snap.ID)
	assert.Nil(t, snap.StartedAt)
}

func TestSnapshotTimestampsAndCopy(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := NewSession()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Start())
	s.AddFix(models.GeoPoint{Latitude: 1, Longitude: 1})
	now = now.Add(30 * time.Minute)
	require.NoError(t, s.Stop())

	snap := s.Snapshot()
	require.NotNil(t, snap.StartedAt)
	require.NotNil(t, snap.StoppedAt)
	assert.Equal(t, int64(1_700_000_000), *snap.StartedAt)
	assert.Equal(t, int64(1_700_001_800), *snap.StoppedAt)

	snap.Points[0].Latitude = 50
	assert.Equal(t, 1.0, s.Points()[0].Latitude)
}

func TestRejectsOutOfRangeFix(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start())

	_, err := s.AddFix(models.GeoPoint{Latitude: 91, Longitude: 0})
	assert.True(t, errors.Is(err, ErrInvalidFix))
	assert.Equal(t, 0, s.Len())
}
