package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

type stubReader struct {
	mu   sync.Mutex
	feed []domain.Activity
}

func (s *stubReader) FetchFeed(ctx context.Context) ([]domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]domain.Activity, len(s.feed))
	copy(res, s.feed)
	return res, nil
}

func (s *stubReader) set(feed []domain.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = feed
}

type stubNotifier struct {
	events chan domain.FeedChange
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{events: make(chan domain.FeedChange, 16)}
}

func (s *stubNotifier) Publish(ctx context.Context, change domain.FeedChange) error {
	s.events <- change
	return nil
}

func (s *stubNotifier) Watch(ctx context.Context) (<-chan domain.FeedChange, error) {
	out := make(chan domain.FeedChange)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-s.events:
				if !ok {
					return
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func collectSnapshots() (func([]domain.Activity), chan []domain.Activity) {
	ch := make(chan []domain.Activity, 16)
	return func(activities []domain.Activity) {
		ch <- activities
	}, ch
}

func waitSnapshot(t *testing.T, ch chan []domain.Activity) []domain.Activity {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestManagerDeliversInitialAndUpdatedSnapshots(t *testing.T) {
	base := time.Now()
	reader := &stubReader{feed: []domain.Activity{activityAt(2, base.Add(2 * time.Second)), activityAt(1, base.Add(time.Second))}}
	notifier := newStubNotifier()
	m := NewManager(reader, notifier)

	onSnapshot, snaps := collectSnapshots()
	sub, err := m.Subscribe(context.Background(), onSnapshot)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	first := waitSnapshot(t, snaps)
	require.Len(t, first, 2)
	assert.Equal(t, int64(2), first[0].ID)

	// A remote writer posts C; the watcher gets the whole list again.
	reader.set([]domain.Activity{activityAt(3, base.Add(3 * time.Second)), activityAt(2, base.Add(2 * time.Second)), activityAt(1, base.Add(time.Second))})
	require.NoError(t, notifier.Publish(context.Background(), domain.FeedChange{Kind: domain.ChangeCreated, ActivityID: 3}))

	second := waitSnapshot(t, snaps)
	require.Len(t, second, 3)
	assert.Equal(t, int64(3), second[0].ID)
}

func TestManagerUnsubscribeIsIdempotentAndFinal(t *testing.T) {
	reader := &stubReader{}
	notifier := newStubNotifier()
	m := NewManager(reader, notifier)

	onSnapshot, snaps := collectSnapshots()
	sub, err := m.Subscribe(context.Background(), onSnapshot)
	require.NoError(t, err)

	waitSnapshot(t, snaps) // initial

	sub.Unsubscribe()
	sub.Unsubscribe()

	// Events after unsubscribe never reach the callback.
	select {
	case notifier.events <- domain.FeedChange{Kind: domain.ChangeCreated, ActivityID: 1}:
	default:
	}

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not end after Unsubscribe")
	}

	select {
	case snap := <-snaps:
		t.Fatalf("snapshot delivered after Unsubscribe returned: %v", snap)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestManagerEndsWhenWatchDrops(t *testing.T) {
	reader := &stubReader{}
	notifier := newStubNotifier()
	m := NewManager(reader, notifier)

	onSnapshot, snaps := collectSnapshots()
	sub, err := m.Subscribe(context.Background(), onSnapshot)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	waitSnapshot(t, snaps)

	// Simulate the connection dropping: the manager ends the subscription
	// and leaves resubscription to the boundary.
	close(notifier.events)

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not end after watch dropped")
	}
}

func TestManagerRemountReleasesPreviousSubscription(t *testing.T) {
	reader := &stubReader{}
	m := NewManager(reader, newStubNotifier())

	onSnapshot, snaps := collectSnapshots()
	first, err := m.Subscribe(context.Background(), onSnapshot)
	require.NoError(t, err)
	waitSnapshot(t, snaps)

	// View remount: release before opening the next subscription so no
	// duplicate delivery can happen.
	first.Unsubscribe()

	second, err := m.Subscribe(context.Background(), onSnapshot)
	require.NoError(t, err)
	defer second.Unsubscribe()

	waitSnapshot(t, snaps)
}
