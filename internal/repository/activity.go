package repository

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

// activityRepository 协调层：validates intents, forwards them to the store as
// single logical writes, and announces successful writes on the change bus.
// It never mutates any read-model; every view re-derives from the next
// snapshot.
type activityRepository struct {
	store  domain.ActivityStore
	notify domain.NotifyWorker
}

var _ domain.ActivityRepository = (*activityRepository)(nil)

func NewActivityRepository(store domain.ActivityStore, notify domain.NotifyWorker) *activityRepository {
	return &activityRepository{
		store:  store,
		notify: notify,
	}
}

// ValidateActivityText enforces the creation-time text rules: non-empty
// after trimming, at most MaxActivityTextLen code points. Checked before any
// store call so malformed input never costs a round trip.
func ValidateActivityText(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrBadParamInput
	}
	if utf8.RuneCountInString(text) > domain.MaxActivityTextLen {
		return domain.ErrBadParamInput
	}
	return nil
}

func (r *activityRepository) CreateActivity(ctx context.Context, text string, author domain.Author) (int64, error) {
	if err := ValidateActivityText(text); err != nil {
		return 0, err
	}

	ar := domain.Activity{
		Text:   text,
		Author: author,
	}
	if err := r.store.Insert(ctx, &ar); err != nil {
		return 0, err
	}

	r.notify.Send(domain.FeedChange{Kind: domain.ChangeCreated, ActivityID: ar.ID})
	return ar.ID, nil
}

// ToggleLike picks set-add or set-remove from the caller's hint. The hint
// may be stale; the store op is atomic and idempotent either way, so the
// like set stays duplicate-free under any interleaving.
func (r *activityRepository) ToggleLike(ctx context.Context, activityID, userID int64, currentlyLiked bool) error {
	var err error
	if currentlyLiked {
		err = r.store.RemoveLike(ctx, activityID, userID)
	} else {
		err = r.store.AddLike(ctx, activityID, userID)
	}
	if err != nil {
		return err
	}

	r.notify.Send(domain.FeedChange{Kind: domain.ChangeLiked, ActivityID: activityID})
	return nil
}

func (r *activityRepository) PostComment(ctx context.Context, activityID int64, text string, author domain.Author) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrBadParamInput
	}

	c := domain.Comment{
		ActivityID: activityID,
		Author:     author,
		Text:       text,
	}
	if err := r.store.AppendComment(ctx, &c); err != nil {
		return err
	}

	r.notify.Send(domain.FeedChange{Kind: domain.ChangeCommented, ActivityID: activityID})
	return nil
}

func (r *activityRepository) DeleteActivity(ctx context.Context, activityID, requesterID int64) error {
	err := r.store.Delete(ctx, activityID, requesterID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			logrus.Warnf("user %d tried to delete foreign activity %d", requesterID, activityID)
		}
		return err
	}

	r.notify.Send(domain.FeedChange{Kind: domain.ChangeDeleted, ActivityID: activityID})
	return nil
}
