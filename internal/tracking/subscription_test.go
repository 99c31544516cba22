package tracking

import (
	"errors"
	"testing"

	"dogwalk-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedDeliversToSubscribers(t *testing.T) {
	p := NewFeedProvider()

	var got []models.Fix
	sub := p.Subscribe(func(f models.Fix) { got = append(got, f) }, nil)

	fix := models.Fix{Latitude: 1, Longitude: 2}
	assert.Equal(t, 1, p.Publish(fix))
	assert.Equal(t, []models.Fix{fix}, got)

	sub.Cancel()
	assert.Equal(t, 0, p.Publish(models.Fix{Latitude: 3, Longitude: 4}))
	assert.Len(t, got, 1)
}

func TestCancelIsIdempotent(t *testing.T) {
	p := NewFeedProvider()
	a := p.Subscribe(func(models.Fix) {}, nil)
	b := p.Subscribe(func(models.Fix) {}, nil)
	assert.Equal(t, 2, p.Subscribers())

	a.Cancel()
	a.Cancel()
	assert.Equal(t, 1, p.Subscribers())

	b.Cancel()
	assert.Equal(t, 0, p.Subscribers())
}

func TestReportErrorReachesSubscribers(t *testing.T) {
	p := NewFeedProvider()

	var got error
	sub := p.Subscribe(nil, func(err error) { got = err })
	defer sub.Cancel()

	p.ReportError(GeolocationError(GeolocationPermissionDenied, "User denied Geolocation"))
	assert.True(t, errors.Is(got, ErrGeolocationDenied))
}

func TestCurrentPosition(t *testing.T) {
	p := NewFeedProvider()

	_, err := p.CurrentPosition()
	assert.True(t, errors.Is(err, ErrGeolocationUnavailable))

	p.Publish(models.Fix{Latitude: 5, Longitude: 6})
	fix, err := p.CurrentPosition()
	require.NoError(t, err)
	assert.Equal(t, 5.0, fix.Latitude)
}

func TestGeolocationErrorCodes(t *testing.T) {
	assert.True(t, errors.Is(GeolocationError(1, "denied"), ErrGeolocationDenied))
	assert.True(t, errors.Is(GeolocationError(2, "no signal"), ErrGeolocationUnavailable))
	assert.True(t, errors.Is(GeolocationError(3, "timeout"), ErrGeolocationUnavailable))
	assert.False(t, errors.Is(GeolocationError(3, "timeout"), ErrGeolocationDenied))
}
