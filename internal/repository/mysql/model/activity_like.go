package model

import "time"

// ActivityLike is one membership row of an activity's like set. The
// composite primary key carries the set-uniqueness invariant: the same user
// can never appear twice no matter how many toggles race.
type ActivityLike struct {
	ActivityID int64     `gorm:"column:activity_id;primaryKey"`
	UserID     int64     `gorm:"column:user_id;primaryKey"`
	CreatedAt  time.Time `gorm:"type:datetime(6)"`
}

func (ActivityLike) TableName() string {
	return "activity_likes"
}

func NewActivityLike(activityID, userID int64) ActivityLike {
	return ActivityLike{
		ActivityID: activityID,
		UserID:     userID,
	}
}
