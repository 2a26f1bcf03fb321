package feed

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

// FeedReader is the query side the manager refreshes from.
type FeedReader interface {
	FetchFeed(ctx context.Context) ([]domain.Activity, error)
}

// Manager owns the live feed query: one watch on the change bus, and a full
// ordered re-query per change event. Subscribers always receive the entire
// current list, never a diff.
type Manager struct {
	reader   FeedReader
	notifier domain.FeedNotifier
	group    singleflight.Group
}

func NewManager(reader FeedReader, notifier domain.FeedNotifier) *Manager {
	return &Manager{
		reader:   reader,
		notifier: notifier,
	}
}

// Subscribe opens the live query and delivers an initial snapshot followed
// by one snapshot per change event. Exactly one watch per subscription; a
// remounting view must Unsubscribe the old one first.
//
// onSnapshot runs on the manager's delivery goroutine. After Unsubscribe
// returns, onSnapshot is never called again.
func (m *Manager) Subscribe(ctx context.Context, onSnapshot func([]domain.Activity)) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	events, err := m.notifier.Watch(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)

		// Initial snapshot: the view starts from the store's truth, not
		// from empty state it would patch later.
		if !m.refresh(ctx, sub, onSnapshot) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					// Watch dropped. Whether and when to resubscribe is
					// the boundary's decision.
					logrus.Warn("feed watch closed, subscription ending")
					return
				}
				if !m.refresh(ctx, sub, onSnapshot) {
					return
				}
			}
		}
	}()

	return sub, nil
}

// refresh re-queries the full feed and hands it to the subscriber. Bursts
// of change events share one query through singleflight. Returns false when
// the subscription should end.
func (m *Manager) refresh(ctx context.Context, sub *Subscription, onSnapshot func([]domain.Activity)) bool {
	result, err, _ := m.group.Do("feed", func() (any, error) {
		return m.reader.FetchFeed(ctx)
	})
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		logrus.Errorf("failed to refresh feed snapshot: %v", err)
		// A failed refresh is skipped, not retried: the next change event
		// triggers the next query.
		return true
	}

	return sub.deliver(result.([]domain.Activity), onSnapshot)
}

// Subscription is one live feed subscription. Delivery and teardown
// serialize on mu: once Unsubscribe has returned, no onSnapshot call can
// begin.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

func (s *Subscription) deliver(activities []domain.Activity, onSnapshot func([]domain.Activity)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	onSnapshot(activities)
	return true
}

// Unsubscribe releases the subscription. Idempotent. An in-flight snapshot
// racing this call may still land before it returns, but never after.
func (s *Subscription) Unsubscribe() {
	s.mu.Lock()
	alreadyClosed := s.closed
	s.closed = true
	s.mu.Unlock()

	if alreadyClosed {
		return
	}
	s.cancel()
}

// Done closes when the subscription ends for any reason, including a
// dropped watch connection.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
