package tracking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeLocker struct {
	fail     bool
	acquired int
	released int
}

func (f *fakeLocker) Acquire(ctx context.Context) error {
	if f.fail {
		return ErrWakeLockUnavailable
	}
	f.acquired++
	return nil
}

func (f *fakeLocker) Release(ctx context.Context) error {
	f.released++
	return nil
}

func TestWakeLockLifecycle(t *testing.T) {
	ctx := context.Background()
	locker := &fakeLocker{}
	w := NewWakeLock(locker)

	assert.NoError(t, w.Engage(ctx))
	assert.True(t, w.Held())
	assert.NoError(t, w.Engage(ctx))
	assert.Equal(t, 1, locker.acquired)

	w.Disengage(ctx)
	assert.False(t, w.Held())
	assert.Equal(t, 1, locker.released)

	w.Disengage(ctx)
	assert.Equal(t, 1, locker.released)
}

func TestWakeLockReacquiredOnVisibility(t *testing.T) {
	ctx := context.Background()
	locker := &fakeLocker{}
	w := NewWakeLock(locker)

	w.Engage(ctx)
	w.VisibilityChanged(ctx, false)
	assert.False(t, w.Held())

	assert.NoError(t, w.VisibilityChanged(ctx, true))
	assert.True(t, w.Held())
	assert.Equal(t, 2, locker.acquired)

	w.Disengage(ctx)
	w.VisibilityChanged(ctx, true)
	assert.False(t, w.Held())
	assert.Equal(t, 2, locker.acquired)
}

func TestWakeLockFailureIsReported(t *testing.T) {
	ctx := context.Background()
	w := NewWakeLock(&fakeLocker{fail: true})

	err := w.Engage(ctx)
	assert.True(t, errors.Is(err, ErrWakeLockUnavailable))
	assert.False(t, w.Held())
	assert.True(t, w.Wanted())

	nilLock := NewWakeLock(nil)
	assert.True(t, errors.Is(nilLock.Engage(ctx), ErrWakeLockUnavailable))
}
