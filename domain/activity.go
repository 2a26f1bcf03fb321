package domain

import (
	"context"
	"time"
)

const (
	// MaxActivityTextLen is the post length cap, counted in code points.
	MaxActivityTextLen = 280
)

// Author is the identity snapshot captured when a post or comment is
// written. It is a copy, not a live reference: later profile edits do not
// rewrite history.
type Author struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Activity is representing a social post in the feed.
type Activity struct {
	ID        int64     `json:"id"`         // Store-assigned, immutable
	Text      string    `json:"text"`       // Immutable after creation
	Author    Author    `json:"author"`     // Snapshot at creation time
	Likes     []int64   `json:"likes"`      // Set of user IDs, no duplicates
	Comments  []Comment `json:"comments"`   // Append-only, chronological
	CreatedAt time.Time `json:"created_at"` // Store-assigned, the feed sort key
}

// LikedBy reports whether uid is a member of the like set.
func (a *Activity) LikedBy(uid int64) bool {
	for _, id := range a.Likes {
		if id == uid {
			return true
		}
	}
	return false
}

// Comment belongs to exactly one Activity and dies with it.
type Comment struct {
	ID         int64     `json:"id"`
	ActivityID int64     `json:"activity_id"`
	Author     Author    `json:"author"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActivityStore is the narrow document-store capability the engine consumes.
// Every write is a single logical store operation; the like set ops must be
// atomic under concurrent writers so a stale caller hint can never corrupt
// set membership.
type ActivityStore interface {
	// FetchFeed returns the entire feed ordered by created_at descending,
	// exactly as the store orders it. No client-side re-sorting happens
	// above this call.
	FetchFeed(ctx context.Context) ([]Activity, error)

	// Insert stores a new activity. The store assigns ID and CreatedAt and
	// backfills ID into a.
	Insert(ctx context.Context, a *Activity) error

	// AddLike adds uid to the activity's like set. Idempotent: adding a
	// member that is already present is not an error.
	AddLike(ctx context.Context, activityID, uid int64) error

	// RemoveLike removes uid from the like set. Removing an absent member
	// is not an error.
	RemoveLike(ctx context.Context, activityID, uid int64) error

	// AppendComment appends c to the activity's comment sequence with a
	// store-assigned ID and timestamp, backfilled into c.
	// Returns ErrNotFound if the activity no longer exists.
	AppendComment(ctx context.Context, c *Comment) error

	// Delete removes the activity and everything it owns, guarded by
	// authorship. Returns ErrForbidden when the row exists under another
	// author and ErrNotFound when it is already gone.
	Delete(ctx context.Context, activityID, requesterID int64) error
}

// ActivityRepository translates engine intents into store operations.
// Validation failures are reported before any store call is attempted.
type ActivityRepository interface {
	// CreateActivity validates text and stores a new post.
	// Returns ErrBadParamInput for empty text or text over
	// MaxActivityTextLen code points, without touching the store.
	CreateActivity(ctx context.Context, text string, author Author) (int64, error)

	// ToggleLike performs a set-add when currentlyLiked is false and a
	// set-remove when it is true. The hint picks the operation; the
	// store-level atomicity makes a stale hint harmless.
	ToggleLike(ctx context.Context, activityID, userID int64, currentlyLiked bool) error

	// PostComment validates text and appends a comment.
	PostComment(ctx context.Context, activityID int64, text string, author Author) error

	// DeleteActivity removes the post. The caller is expected to have
	// checked authorship already; the store-side check is authoritative.
	DeleteActivity(ctx context.Context, activityID, requesterID int64) error
}

// ActivityUsecase is the command surface exposed to the presentation
// boundary. Commands never mutate the read-model directly; client-visible
// state is rebuilt from the next feed snapshot.
type ActivityUsecase interface {
	Post(ctx context.Context, text string, author Author) (int64, error)

	// ToggleLike re-derives the current like state from the latest
	// read-model snapshot immediately before acting. A stale event against
	// a just-deleted activity is a silent no-op.
	ToggleLike(ctx context.Context, activityID, userID int64) error

	AddComment(ctx context.Context, activityID int64, text string, author Author) error

	// Delete verifies authorship locally before issuing the store call.
	// An already-gone activity is a benign outcome, not an error.
	Delete(ctx context.Context, activityID, requesterID int64) error
}
