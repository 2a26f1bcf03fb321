package model

import (
	"time"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

// Activity row. The author columns are a snapshot frozen at creation time;
// created_at is filled by the database (inserts omit it) so feed order never
// depends on a client clock.
type Activity struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Text         string    `gorm:"type:varchar(1120);not null"`
	AuthorID     int64     `gorm:"column:author_id;not null;index"`
	AuthorName   string    `gorm:"column:author_name;type:varchar(45);not null"`
	AuthorAvatar string    `gorm:"column:author_avatar;type:varchar(255)"`
	CreatedAt    time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
}

func (Activity) TableName() string {
	return "activity"
}

func (m *Activity) ToDomain() domain.Activity {
	return domain.Activity{
		ID:   m.ID,
		Text: m.Text,
		Author: domain.Author{
			ID:          m.AuthorID,
			DisplayName: m.AuthorName,
			AvatarURL:   m.AuthorAvatar,
		},
		CreatedAt: m.CreatedAt,
	}
}

func NewActivityFromDomain(a *domain.Activity) *Activity {
	return &Activity{
		ID:           a.ID,
		Text:         a.Text,
		AuthorID:     a.Author.ID,
		AuthorName:   a.Author.DisplayName,
		AuthorAvatar: a.Author.AvatarURL,
		CreatedAt:    a.CreatedAt,
	}
}
