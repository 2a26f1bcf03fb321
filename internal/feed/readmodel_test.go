package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

func activityAt(id int64, createdAt time.Time) domain.Activity {
	return domain.Activity{
		ID:        id,
		Text:      "post",
		Author:    domain.Author{ID: 7, DisplayName: "someone"},
		CreatedAt: createdAt,
	}
}

func TestReadModelApplySnapshotReplacesWholesale(t *testing.T) {
	m := NewReadModel()
	base := time.Now()

	// Feed [A(createdAt=2), B(createdAt=1)] arrives in store order.
	a := activityAt(2, base.Add(2*time.Second))
	b := activityAt(1, base.Add(1*time.Second))
	m.ApplySnapshot([]domain.Activity{a, b})

	state := m.State()
	require.Len(t, state.Activities, 2)
	assert.Equal(t, int64(2), state.Activities[0].ID)
	assert.Equal(t, int64(1), state.Activities[1].ID)

	// A new post C lands on top; order is the store's, untouched.
	c := activityAt(3, base.Add(3*time.Second))
	m.ApplySnapshot([]domain.Activity{c, a, b})

	state = m.State()
	require.Len(t, state.Activities, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{state.Activities[0].ID, state.Activities[1].ID, state.Activities[2].ID})
}

func TestReadModelApplySnapshotIsPure(t *testing.T) {
	m := NewReadModel()
	snapshot := []domain.Activity{activityAt(1, time.Now())}
	m.ToggleExpanded(1)

	m.ApplySnapshot(snapshot)
	first := m.State()
	m.ApplySnapshot(snapshot)
	second := m.State()

	assert.Equal(t, first.Activities, second.Activities)
	assert.Equal(t, first.Expanded, second.Expanded)
	assert.True(t, second.Expanded[1], "expanded flag for a surviving id must not change")
}

func TestReadModelPrunesExpandedForVanishedIDs(t *testing.T) {
	m := NewReadModel()
	base := time.Now()
	m.ApplySnapshot([]domain.Activity{activityAt(1, base), activityAt(2, base.Add(time.Second))})

	m.ToggleExpanded(1)
	m.ToggleExpanded(2)

	// Activity 1 was deleted remotely; its transient flag goes with it.
	m.ApplySnapshot([]domain.Activity{activityAt(2, base.Add(time.Second))})

	state := m.State()
	assert.True(t, state.Expanded[2])
	_, stale := state.Expanded[1]
	assert.False(t, stale)
}

func TestReadModelToggleExpandedInvolution(t *testing.T) {
	m := NewReadModel()
	m.ApplySnapshot([]domain.Activity{activityAt(5, time.Now())})

	assert.False(t, m.State().Expanded[5], "absent key defaults to false")

	m.ToggleExpanded(5)
	assert.True(t, m.State().Expanded[5])

	m.ToggleExpanded(5)
	assert.False(t, m.State().Expanded[5], "double toggle returns to the original value")
}

func TestReadModelLookup(t *testing.T) {
	m := NewReadModel()
	ar := activityAt(9, time.Now())
	ar.Likes = []int64{4}
	m.ApplySnapshot([]domain.Activity{ar})

	got, ok := m.Lookup(9)
	require.True(t, ok)
	assert.True(t, got.LikedBy(4))
	assert.False(t, got.LikedBy(5))

	_, ok = m.Lookup(10)
	assert.False(t, ok)
}

func TestReadModelWatchNotifiesAndCancels(t *testing.T) {
	m := NewReadModel()

	var calls int
	cancel := m.Watch(func(domain.FeedState) {
		calls++
	})

	m.ApplySnapshot([]domain.Activity{activityAt(1, time.Now())})
	m.ToggleExpanded(1)
	assert.Equal(t, 2, calls)

	cancel()
	cancel() // idempotent
	m.ToggleExpanded(1)
	assert.Equal(t, 2, calls)
}

func TestReadModelStateReturnsCopies(t *testing.T) {
	m := NewReadModel()
	m.ApplySnapshot([]domain.Activity{activityAt(1, time.Now())})

	state := m.State()
	state.Activities[0].Text = "tampered"
	state.Expanded[1] = true

	fresh := m.State()
	assert.Equal(t, "post", fresh.Activities[0].Text)
	assert.False(t, fresh.Expanded[1])
}
