package domain

import "context"

// ChangeKind says what happened to the feed collection.
type ChangeKind int8

const (
	ChangeCreated ChangeKind = iota
	ChangeLiked
	ChangeCommented
	ChangeDeleted
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "CREATED"
	case ChangeLiked:
		return "LIKED"
	case ChangeCommented:
		return "COMMENTED"
	case ChangeDeleted:
		return "DELETED"
	default:
		return "UNKNOWN"
	}
}

// FeedChange is one change notification on the activity collection.
type FeedChange struct {
	Kind       ChangeKind `json:"kind"`
	ActivityID int64      `json:"activity_id"`
}

// FeedNotifier is the push channel behind the live feed query. Writers
// publish after a successful store write; watchers re-derive the whole feed
// on every event they receive.
type FeedNotifier interface {
	Publish(ctx context.Context, change FeedChange) error

	// Watch delivers change events until ctx is cancelled or the underlying
	// connection drops, after which the returned channel is closed. The
	// notifier does not reconnect by itself; re-subscribing is the caller's
	// decision.
	Watch(ctx context.Context) (<-chan FeedChange, error)
}

type NotifyWorker interface {
	Start(ctx context.Context)

	// Send enqueues a change for publication. Never blocks; bursts collapse
	// into a single publication per flush.
	Send(change FeedChange)
}

// FeedState is the client-visible pair the read-model exposes.
type FeedState struct {
	Activities []Activity     `json:"activities"`
	Expanded   map[int64]bool `json:"expanded"`
}

// FeedView is the read side the interaction commands consult to re-derive
// preconditions immediately before acting.
type FeedView interface {
	// Lookup finds an activity in the latest snapshot.
	Lookup(activityID int64) (Activity, bool)

	State() FeedState

	ToggleExpanded(activityID int64)

	// Watch registers a listener called on every state change and returns
	// its cancel func.
	Watch(fn func(FeedState)) (cancel func())
}
