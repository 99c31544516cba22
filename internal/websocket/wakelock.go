package websocket

import (
	"context"
	"fmt"

	"dogwalk-tracker/internal/tracking"
)

// WakeLocker asks the connected page to hold a screen wake lock. The page
// owns the actual lock; without a connected page there is nobody to hold it.
type WakeLocker struct {
	hub *Hub
}

func NewWakeLocker(hub *Hub) *WakeLocker {
	return &WakeLocker{hub: hub}
}

func (l *WakeLocker) Acquire(ctx context.Context) error {
	if l.hub.GetClientCount() == 0 {
		return fmt.Errorf("%w: no page connected", tracking.ErrWakeLockUnavailable)
	}
	l.hub.Publish("wake_lock", map[string]string{"action": "acquire"})
	return nil
}

func (l *WakeLocker) Release(ctx context.Context) error {
	l.hub.Publish("wake_lock", map[string]string{"action": "release"})
	return nil
}
