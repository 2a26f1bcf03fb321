package model

import (
	"time"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

type Comment struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	ActivityID   int64     `gorm:"column:activity_id;not null;index"`
	AuthorID     int64     `gorm:"column:author_id;not null"`
	AuthorName   string    `gorm:"column:author_name;type:varchar(45);not null"`
	AuthorAvatar string    `gorm:"column:author_avatar;type:varchar(255)"`
	Text         string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
}

func (Comment) TableName() string {
	return "activity_comments"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	return &Comment{
		ID:           c.ID,
		ActivityID:   c.ActivityID,
		AuthorID:     c.Author.ID,
		AuthorName:   c.Author.DisplayName,
		AuthorAvatar: c.Author.AvatarURL,
		Text:         c.Text,
		CreatedAt:    c.CreatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	return domain.Comment{
		ID:         m.ID,
		ActivityID: m.ActivityID,
		Author: domain.Author{
			ID:          m.AuthorID,
			DisplayName: m.AuthorName,
			AvatarURL:   m.AuthorAvatar,
		},
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}
