package tracking

import (
	"context"
	"log"
	"sync"
)

// Locker asks the page to hold or drop a screen wake lock
type Locker interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

// WakeLock tracks whether a lock is wanted (tracking is logically active)
// and whether one is currently held. Acquisition failures are reported but
// never block tracking.
type WakeLock struct {
	locker Locker
	mutex  sync.Mutex
	wanted bool
	held   bool
}

func NewWakeLock(locker Locker) *WakeLock {
	return &WakeLock{locker: locker}
}

// Engage marks the lock as wanted and tries to acquire it
func (w *WakeLock) Engage(ctx context.Context) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.wanted = true
	return w.acquireLocked(ctx)
}

func (w *WakeLock) acquireLocked(ctx context.Context) error {
	if w.held {
		return nil
	}
	if w.locker == nil {
		return ErrWakeLockUnavailable
	}
	if err := w.locker.Acquire(ctx); err != nil {
		log.Printf("⚠️  Wake lock not acquired, tracking continues: %v", err)
		return err
	}
	w.held = true
	log.Printf("🔆 Wake lock acquired")
	return nil
}

// Disengage releases the lock and stops wanting it
func (w *WakeLock) Disengage(ctx context.Context) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.wanted = false
	if !w.held {
		return
	}
	w.held = false
	if w.locker == nil {
		return
	}
	if err := w.locker.Release(ctx); err != nil {
		log.Printf("⚠️  Wake lock release failed: %v", err)
		return
	}
	log.Printf("🌙 Wake lock released")
}

// VisibilityChanged follows the page's visibility. Browsers drop wake locks
// when the page is hidden; a restored page reacquires if tracking still wants one.
func (w *WakeLock) VisibilityChanged(ctx context.Context, visible bool) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !visible {
		w.held = false
		return nil
	}
	if !w.wanted {
		return nil
	}
	return w.acquireLocked(ctx)
}

func (w *WakeLock) Held() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.held
}

func (w *WakeLock) Wanted() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.wanted
}
