package tracking

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"dogwalk-tracker/internal/models"
)

// Subscription is a handle to a continuous fix feed. Cancel is idempotent.
type Subscription interface {
	Cancel()
}

// Provider delivers position fixes from the device
type Provider interface {
	Subscribe(onFix func(models.Fix), onError func(error)) Subscription
	CurrentPosition() (models.Fix, error)
}

// FeedProvider fans fixes pushed by the page (WebSocket or HTTP) out to the
// active subscribers. Callbacks run on the publishing goroutine, outside the
// provider's lock.
type FeedProvider struct {
	mutex  sync.Mutex
	subs   map[uint64]*feedSubscription
	nextID uint64
	last   *models.Fix
}

type feedSubscription struct {
	id       uint64
	provider *FeedProvider
	onFix    func(models.Fix)
	onError  func(error)
	canceled atomic.Bool
	once     sync.Once
}

func NewFeedProvider() *FeedProvider {
	return &FeedProvider{
		subs: make(map[uint64]*feedSubscription),
	}
}

func (p *FeedProvider) Subscribe(onFix func(models.Fix), onError func(error)) Subscription {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.nextID++
	sub := &feedSubscription{
		id:       p.nextID,
		provider: p,
		onFix:    onFix,
		onError:  onError,
	}
	p.subs[sub.id] = sub
	log.Printf("📍 Fix subscription %d opened (%d active)", sub.id, len(p.subs))
	return sub
}

func (s *feedSubscription) Cancel() {
	s.once.Do(func() {
		s.canceled.Store(true)

		s.provider.mutex.Lock()
		delete(s.provider.subs, s.id)
		remaining := len(s.provider.subs)
		s.provider.mutex.Unlock()

		log.Printf("📍 Fix subscription %d closed (%d active)", s.id, remaining)
	})
}

func (p *FeedProvider) snapshot() []*feedSubscription {
	out := make([]*feedSubscription, 0, len(p.subs))
	for _, sub := range p.subs {
		out = append(out, sub)
	}
	return out
}

// Publish records fix as the latest known position and hands it to every
// subscriber. It returns how many subscribers received it.
func (p *FeedProvider) Publish(fix models.Fix) int {
	p.mutex.Lock()
	last := fix
	p.last = &last
	subs := p.snapshot()
	p.mutex.Unlock()

	delivered := 0
	for _, sub := range subs {
		if sub.canceled.Load() || sub.onFix == nil {
			continue
		}
		sub.onFix(fix)
		delivered++
	}
	return delivered
}

// ReportError forwards a geolocation failure to every subscriber
func (p *FeedProvider) ReportError(err error) {
	p.mutex.Lock()
	subs := p.snapshot()
	p.mutex.Unlock()

	for _, sub := range subs {
		if sub.canceled.Load() || sub.onError == nil {
			continue
		}
		sub.onError(err)
	}
}

// CurrentPosition is the one-shot fetch: the most recent fix the page sent
func (p *FeedProvider) CurrentPosition() (models.Fix, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.last == nil {
		return models.Fix{}, fmt.Errorf("%w: no position reported yet", ErrGeolocationUnavailable)
	}
	return *p.last, nil
}

// Subscribers returns the number of open subscriptions
func (p *FeedProvider) Subscribers() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.subs)
}

// Browser GeolocationPositionError codes
const (
	GeolocationPermissionDenied    = 1
	GeolocationPositionUnavailable = 2
	GeolocationTimeout             = 3
)

// GeolocationError maps a browser error code onto the error taxonomy
func GeolocationError(code int, message string) error {
	if code == GeolocationPermissionDenied {
		return fmt.Errorf("%w: %s", ErrGeolocationDenied, message)
	}
	return fmt.Errorf("%w (code %d): %s", ErrGeolocationUnavailable, code, message)
}
