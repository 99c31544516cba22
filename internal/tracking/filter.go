package tracking

import (
	"errors"
	"fmt"
	"sync"

	"dogwalk-tracker/internal/models"
)

// MaxAccuracy is the worst reported GPS accuracy (meters) a fix may carry.
// Fixes beyond it would add jitter to the walked distance.
const MaxAccuracy = 100.0

// FixFilter screens incoming fixes before they reach the session
type FixFilter struct {
	maxAccuracy float64
	stats       FilterStats
}

// FilterStats counts how fixes were handled
type FilterStats struct {
	Received           int64
	Accepted           int64
	RejectedByAccuracy int64
	RejectedInvalid    int64
	mutex              sync.RWMutex
}

// NewFixFilter creates a filter. maxAccuracy <= 0 uses MaxAccuracy.
func NewFixFilter(maxAccuracy float64) *FixFilter {
	if maxAccuracy <= 0 {
		maxAccuracy = MaxAccuracy
	}
	return &FixFilter{maxAccuracy: maxAccuracy}
}

// Check reports why a fix would be dropped, without counting it.
// Fixes without an accuracy value are trusted.
func (f *FixFilter) Check(fix models.Fix) error {
	if !fix.Point().Valid() {
		return fmt.Errorf("%w: %.6f, %.6f", ErrInvalidFix, fix.Latitude, fix.Longitude)
	}
	if fix.Accuracy != nil && *fix.Accuracy > f.maxAccuracy {
		return fmt.Errorf("%w: %.0fm > %.0fm", ErrLowAccuracy, *fix.Accuracy, f.maxAccuracy)
	}
	return nil
}

// Accept reports whether a fix should be recorded and counts the outcome
func (f *FixFilter) Accept(fix models.Fix) bool {
	err := f.Check(fix)

	f.stats.mutex.Lock()
	defer f.stats.mutex.Unlock()

	f.stats.Received++
	switch {
	case errors.Is(err, ErrInvalidFix):
		f.stats.RejectedInvalid++
		return false
	case err != nil:
		f.stats.RejectedByAccuracy++
		return false
	}

	f.stats.Accepted++
	return true
}

// GetStats returns filter statistics for the diagnostics endpoint
func (f *FixFilter) GetStats() map[string]interface{} {
	f.stats.mutex.RLock()
	defer f.stats.mutex.RUnlock()

	return map[string]interface{}{
		"received":             f.stats.Received,
		"accepted":             f.stats.Accepted,
		"rejected_by_accuracy": f.stats.RejectedByAccuracy,
		"rejected_invalid":     f.stats.RejectedInvalid,
		"max_accuracy_m":       f.maxAccuracy,
	}
}
