package feed

import (
	"sync"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

// ReadModel is the client-visible projection for one mounted feed view: the
// ordered activity list delivered by the subscription manager, plus the
// UI-only expanded flags. Data mutations come only from ApplySnapshot;
// ToggleExpanded is the single local mutation path.
type ReadModel struct {
	mu         sync.Mutex
	activities []domain.Activity
	expanded   map[int64]bool

	listeners map[int]func(domain.FeedState)
	nextID    int
}

var _ domain.FeedView = (*ReadModel)(nil)

func NewReadModel() *ReadModel {
	return &ReadModel{
		activities: []domain.Activity{},
		expanded:   make(map[int64]bool),
		listeners:  make(map[int]func(domain.FeedState)),
	}
}

// ApplySnapshot replaces the activity list wholesale and prunes expanded
// flags for ids no longer present. No merging, no patching: the snapshot is
// the truth.
func (m *ReadModel) ApplySnapshot(activities []domain.Activity) {
	m.mu.Lock()

	m.activities = make([]domain.Activity, len(activities))
	copy(m.activities, activities)

	alive := make(map[int64]bool, len(activities))
	for i := range activities {
		alive[activities[i].ID] = true
	}
	for id := range m.expanded {
		if !alive[id] {
			delete(m.expanded, id)
		}
	}

	state := m.stateLocked()
	fns := m.listenersLocked()
	m.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// ToggleExpanded flips the comment-section flag. An absent key reads as
// false, so the first toggle expands.
func (m *ReadModel) ToggleExpanded(activityID int64) {
	m.mu.Lock()
	if m.expanded[activityID] {
		delete(m.expanded, activityID)
	} else {
		m.expanded[activityID] = true
	}
	state := m.stateLocked()
	fns := m.listenersLocked()
	m.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// Lookup finds an activity in the latest snapshot. Commands use this to
// re-derive preconditions right before acting.
func (m *ReadModel) Lookup(activityID int64) (domain.Activity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.activities {
		if m.activities[i].ID == activityID {
			return m.activities[i], true
		}
	}
	return domain.Activity{}, false
}

// State returns value copies; callers can never reach the internal slices.
func (m *ReadModel) State() domain.FeedState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// Watch registers fn for every subsequent state change and returns its
// cancel func. Cancelling twice is harmless.
func (m *ReadModel) Watch(fn func(domain.FeedState)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *ReadModel) stateLocked() domain.FeedState {
	activities := make([]domain.Activity, len(m.activities))
	copy(activities, m.activities)
	expanded := make(map[int64]bool, len(m.expanded))
	for id, v := range m.expanded {
		expanded[id] = v
	}
	return domain.FeedState{Activities: activities, Expanded: expanded}
}

func (m *ReadModel) listenersLocked() []func(domain.FeedState) {
	fns := make([]func(domain.FeedState), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	return fns
}
