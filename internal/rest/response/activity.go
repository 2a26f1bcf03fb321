package response

import (
	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

const DateTimeFormat = "2006-01-02 15:04:05"

type Author struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

type Comment struct {
	ID        int64  `json:"id"`
	Author    Author `json:"author"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type Activity struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Author    Author    `json:"author"`
	Likes     []int64   `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt string    `json:"created_at"`
	Expanded  bool      `json:"expanded"`
}

type Feed struct {
	Activities []Activity `json:"activities"`
}

func newAuthorFromDomain(a domain.Author) Author {
	return Author{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		AvatarURL:   a.AvatarURL,
	}
}

// NewActivityFromDomain: Domain -> Response
func NewActivityFromDomain(a *domain.Activity, expanded bool) Activity {
	likes := make([]int64, len(a.Likes))
	copy(likes, a.Likes)

	comments := make([]Comment, len(a.Comments))
	for i := range a.Comments {
		comments[i] = Comment{
			ID:        a.Comments[i].ID,
			Author:    newAuthorFromDomain(a.Comments[i].Author),
			Text:      a.Comments[i].Text,
			CreatedAt: a.Comments[i].CreatedAt.Format(DateTimeFormat),
		}
	}

	return Activity{
		ID:        a.ID,
		Text:      a.Text,
		Author:    newAuthorFromDomain(a.Author),
		Likes:     likes,
		Comments:  comments,
		CreatedAt: a.CreatedAt.Format(DateTimeFormat),
		Expanded:  expanded,
	}
}

// NewFeedFromState projects the read-model state, folding each activity's
// expanded flag into its entry.
func NewFeedFromState(state domain.FeedState) Feed {
	res := make([]Activity, len(state.Activities))
	for i := range state.Activities {
		ar := &state.Activities[i]
		res[i] = NewActivityFromDomain(ar, state.Expanded[ar.ID])
	}
	return Feed{Activities: res}
}
