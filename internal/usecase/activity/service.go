package activity

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

// Service hosts the interaction commands. It holds no state of its own:
// every precondition is re-derived from the feed view immediately before
// acting, and nothing here writes to the view — the next snapshot does.
type Service struct {
	repo domain.ActivityRepository
	view domain.FeedView
}

var _ domain.ActivityUsecase = (*Service)(nil)

// NewService will create a new activity command service object
func NewService(repo domain.ActivityRepository, view domain.FeedView) *Service {
	return &Service{
		repo: repo,
		view: view,
	}
}

func (s *Service) Post(ctx context.Context, text string, author domain.Author) (int64, error) {
	return s.repo.CreateActivity(ctx, text, author)
}

// ToggleLike reads the current like state from the latest snapshot and asks
// the repository for the opposite. A stale UI event against a just-deleted
// activity is absorbed silently: the next snapshot already told the user
// the post is gone.
func (s *Service) ToggleLike(ctx context.Context, activityID, userID int64) error {
	ar, ok := s.view.Lookup(activityID)
	if !ok {
		logrus.Infof("like toggle on missing activity %d ignored", activityID)
		return nil
	}

	return s.repo.ToggleLike(ctx, activityID, userID, ar.LikedBy(userID))
}

// AddComment validates at this boundary as well; the repository validates
// again before touching the store.
func (s *Service) AddComment(ctx context.Context, activityID int64, text string, author domain.Author) error {
	if text == "" {
		return domain.ErrBadParamInput
	}
	return s.repo.PostComment(ctx, activityID, text, author)
}

// Delete checks authorship against the latest snapshot first so a foreign
// requester is rejected without a store round trip. The store-side check
// remains authoritative. An activity that is already gone is a benign race,
// not a failure.
func (s *Service) Delete(ctx context.Context, activityID, requesterID int64) error {
	if ar, ok := s.view.Lookup(activityID); ok && ar.Author.ID != requesterID {
		return domain.ErrForbidden
	}

	err := s.repo.DeleteActivity(ctx, activityID, requesterID)
	if errors.Is(err, domain.ErrNotFound) {
		logrus.Infof("delete of already-gone activity %d absorbed", activityID)
		return nil
	}
	return err
}
