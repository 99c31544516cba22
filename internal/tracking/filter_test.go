package tracking

import (
	"errors"
	"testing"

	"dogwalk-tracker/internal/models"

	"github.com/stretchr/testify/assert"
)

func accuracy(v float64) *float64 { return &v }

func TestFixFilter(t *testing.T) {
	f := NewFixFilter(0)

	assert.True(t, f.Accept(models.Fix{Latitude: 1, Longitude: 1}))
	assert.True(t, f.Accept(models.Fix{Latitude: 1, Longitude: 1, Accuracy: accuracy(100)}))
	assert.False(t, f.Accept(models.Fix{Latitude: 1, Longitude: 1, Accuracy: accuracy(250)}))
	assert.False(t, f.Accept(models.Fix{Latitude: 1, Longitude: 300}))

	stats := f.GetStats()
	assert.Equal(t, int64(4), stats["received"])
	assert.Equal(t, int64(2), stats["accepted"])
	assert.Equal(t, int64(1), stats["rejected_by_accuracy"])
	assert.Equal(t, int64(1), stats["rejected_invalid"])
	assert.Equal(t, MaxAccuracy, stats["max_accuracy_m"])
}

func TestFixFilterCheckDoesNotCount(t *testing.T) {
	f := NewFixFilter(20)

	assert.NoError(t, f.Check(models.Fix{Latitude: 1, Longitude: 1, Accuracy: accuracy(20)}))
	assert.True(t, errors.Is(f.Check(models.Fix{Latitude: 1, Longitude: 1, Accuracy: accuracy(21)}), ErrLowAccuracy))
	assert.True(t, errors.Is(f.Check(models.Fix{Latitude: -91, Longitude: 1}), ErrInvalidFix))

	assert.Equal(t, int64(0), f.GetStats()["received"])
}
