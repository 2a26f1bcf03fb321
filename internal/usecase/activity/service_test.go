package activity

import (
	"context"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

type fakeRepo struct {
	toggleCalls []toggleCall
	comments    []string
	deleted     []int64
	created     []string

	toggleErr  error
	commentErr error
	deleteErr  error
}

type toggleCall struct {
	activityID     int64
	userID         int64
	currentlyLiked bool
}

func (f *fakeRepo) CreateActivity(ctx context.Context, text string, author domain.Author) (int64, error) {
	f.created = append(f.created, text)
	return int64(len(f.created)), nil
}

func (f *fakeRepo) ToggleLike(ctx context.Context, activityID, userID int64, currentlyLiked bool) error {
	f.toggleCalls = append(f.toggleCalls, toggleCall{activityID, userID, currentlyLiked})
	return f.toggleErr
}

func (f *fakeRepo) PostComment(ctx context.Context, activityID int64, text string, author domain.Author) error {
	if f.commentErr != nil {
		return f.commentErr
	}
	f.comments = append(f.comments, text)
	return nil
}

func (f *fakeRepo) DeleteActivity(ctx context.Context, activityID, requesterID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, activityID)
	return nil
}

type fakeView struct {
	activities map[int64]domain.Activity
}

func (f *fakeView) Lookup(activityID int64) (domain.Activity, bool) {
	ar, ok := f.activities[activityID]
	return ar, ok
}

func (f *fakeView) State() domain.FeedState { return domain.FeedState{} }

func (f *fakeView) ToggleExpanded(activityID int64) {}

func (f *fakeView) Watch(fn func(domain.FeedState)) func() { return func() {} }

func testAuthor() domain.Author {
	return domain.Author{
		ID:          1,
		DisplayName: faker.Name(),
		AvatarURL:   faker.URL(),
	}
}

func TestToggleLikeDerivesHintFromView(t *testing.T) {
	repo := &fakeRepo{}
	view := &fakeView{activities: map[int64]domain.Activity{
		10: {ID: 10, Likes: []int64{1}},
		11: {ID: 11},
	}}
	svc := NewService(repo, view)

	// User 1 already likes 10: the repository is asked for a removal.
	require.NoError(t, svc.ToggleLike(context.Background(), 10, 1))
	// User 1 does not like 11 yet: an addition.
	require.NoError(t, svc.ToggleLike(context.Background(), 11, 1))

	require.Len(t, repo.toggleCalls, 2)
	assert.True(t, repo.toggleCalls[0].currentlyLiked)
	assert.False(t, repo.toggleCalls[1].currentlyLiked)
}

func TestToggleLikeOnMissingActivityIsSilentNoop(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeView{activities: map[int64]domain.Activity{}})

	err := svc.ToggleLike(context.Background(), 99, 1)

	assert.NoError(t, err)
	assert.Empty(t, repo.toggleCalls, "stale event against a deleted post must not reach the store")
}

func TestAddCommentRejectsEmptyTextBeforeRepo(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeView{})

	err := svc.AddComment(context.Background(), 1, "", testAuthor())

	assert.ErrorIs(t, err, domain.ErrBadParamInput)
	assert.Empty(t, repo.comments)
}

func TestAddCommentPassesThrough(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeView{})
	text := faker.Sentence()

	require.NoError(t, svc.AddComment(context.Background(), 1, text, testAuthor()))
	assert.Equal(t, []string{text}, repo.comments)
}

func TestDeleteRejectsForeignAuthorLocally(t *testing.T) {
	repo := &fakeRepo{}
	view := &fakeView{activities: map[int64]domain.Activity{
		10: {ID: 10, Author: domain.Author{ID: 2}},
	}}
	svc := NewService(repo, view)

	err := svc.Delete(context.Background(), 10, 1)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, repo.deleted, "authorship is checked before any store call")
}

func TestDeleteAbsorbsAlreadyGone(t *testing.T) {
	repo := &fakeRepo{deleteErr: domain.ErrNotFound}
	svc := NewService(repo, &fakeView{activities: map[int64]domain.Activity{}})

	// Deleted by another actor first: benign outcome, not a crash.
	assert.NoError(t, svc.Delete(context.Background(), 10, 1))
}

func TestDeleteSurfacesStoreRejection(t *testing.T) {
	repo := &fakeRepo{deleteErr: domain.ErrForbidden}
	// The local view has no copy, so the store-side check decides.
	svc := NewService(repo, &fakeView{activities: map[int64]domain.Activity{}})

	err := svc.Delete(context.Background(), 10, 1)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteByAuthorGoesThrough(t *testing.T) {
	repo := &fakeRepo{}
	view := &fakeView{activities: map[int64]domain.Activity{
		10: {ID: 10, Author: domain.Author{ID: 1}},
	}}
	svc := NewService(repo, view)

	require.NoError(t, svc.Delete(context.Background(), 10, 1))
	assert.Equal(t, []int64{10}, repo.deleted)
}
