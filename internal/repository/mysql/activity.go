package mysql

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
	"github.com/Guyuepp/Go-Activity-Feed/internal/repository/mysql/model"
)

type activityStore struct {
	DB *gorm.DB
}

// mysql层只负责数据库操作
var _ domain.ActivityStore = (*activityStore)(nil)

// NewActivityStore 创建数据库操作层
func NewActivityStore(db *gorm.DB) *activityStore {
	return &activityStore{db}
}

// FetchFeed returns every activity ordered by created_at descending, with
// like sets and comment sequences assembled. The store's order is the feed
// order; nothing above this call re-sorts.
func (m *activityStore) FetchFeed(ctx context.Context) ([]domain.Activity, error) {
	var rows []model.Activity
	err := m.DB.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}

	if len(rows) == 0 {
		return []domain.Activity{}, nil
	}

	ids := make([]int64, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}

	var (
		likeRows    []model.ActivityLike
		commentRows []model.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.DB.WithContext(gctx).
			Where("activity_id IN ?", ids).
			Find(&likeRows).
			Error
	})
	g.Go(func() error {
		return m.DB.WithContext(gctx).
			Where("activity_id IN ?", ids).
			Order("created_at, id").
			Find(&commentRows).
			Error
	})
	if err := g.Wait(); err != nil {
		return nil, domain.ErrStoreUnavailable
	}

	likeMap := make(map[int64][]int64, len(rows))
	for _, lr := range likeRows {
		likeMap[lr.ActivityID] = append(likeMap[lr.ActivityID], lr.UserID)
	}
	commentMap := make(map[int64][]domain.Comment, len(rows))
	for i := range commentRows {
		commentMap[commentRows[i].ActivityID] = append(commentMap[commentRows[i].ActivityID], commentRows[i].ToDomain())
	}

	res := make([]domain.Activity, len(rows))
	for i := range rows {
		ar := rows[i].ToDomain()
		ar.Likes = likeMap[ar.ID]
		ar.Comments = commentMap[ar.ID]
		res[i] = ar
	}
	return res, nil
}

// Insert creates the activity row. created_at is omitted so the database
// assigns it; the backfilled ID is the store-assigned identifier.
func (m *activityStore) Insert(ctx context.Context, a *domain.Activity) error {
	row := model.NewActivityFromDomain(a)
	result := m.DB.WithContext(ctx).Omit("CreatedAt").Create(row)
	if result.Error != nil {
		return domain.ErrStoreUnavailable
	}
	a.ID = row.ID
	return nil
}

// AddLike is a set-add: a single INSERT that does nothing when the member
// is already present. Concurrent toggles from other devices can never
// produce a duplicate row.
func (m *activityStore) AddLike(ctx context.Context, activityID, uid int64) error {
	row := model.NewActivityLike(activityID, uid)
	result := m.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return domain.ErrStoreUnavailable
	}
	return nil
}

// RemoveLike is a set-remove: deleting an absent member affects zero rows
// and that is fine.
func (m *activityStore) RemoveLike(ctx context.Context, activityID, uid int64) error {
	result := m.DB.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", activityID, uid).
		Delete(&model.ActivityLike{})
	if result.Error != nil {
		return domain.ErrStoreUnavailable
	}
	return nil
}

// AppendComment appends to the ordered comment sequence. created_at comes
// from the database, so chronological order equals insertion order.
func (m *activityStore) AppendComment(ctx context.Context, c *domain.Comment) error {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.Activity{}).
		Where("id = ?", c.ActivityID).
		Count(&count).
		Error
	if err != nil {
		return domain.ErrStoreUnavailable
	}
	if count == 0 {
		return domain.ErrNotFound
	}

	row := model.NewCommentFromDomain(c)
	result := m.DB.WithContext(ctx).Omit("CreatedAt").Create(row)
	if result.Error != nil {
		return domain.ErrStoreUnavailable
	}
	c.ID = row.ID
	return nil
}

// Delete removes the activity and everything it owns inside one
// transaction. The author guard is on the activity row itself: zero rows
// affected means either a foreign author or a vanished post, and the two
// are reported distinctly.
func (m *activityStore) Delete(ctx context.Context, activityID, requesterID int64) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("id = ? AND author_id = ?", activityID, requesterID).
			Delete(&model.Activity{})
		if result.Error != nil {
			return domain.ErrStoreUnavailable
		}

		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Activity{}).Where("id = ?", activityID).Count(&count).Error; err != nil {
				return domain.ErrStoreUnavailable
			}
			if count > 0 {
				return domain.ErrForbidden
			}
			return domain.ErrNotFound
		}

		// Comments and likes have no independent lifecycle.
		if err := tx.Where("activity_id = ?", activityID).Delete(&model.Comment{}).Error; err != nil {
			return domain.ErrStoreUnavailable
		}
		if err := tx.Where("activity_id = ?", activityID).Delete(&model.ActivityLike{}).Error; err != nil {
			return domain.ErrStoreUnavailable
		}
		return nil
	})
}
