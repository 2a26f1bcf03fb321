package rest

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
	"github.com/Guyuepp/Go-Activity-Feed/internal/rest/response"
)

// FeedHandler exposes the read-model to clients: the current state, a live
// SSE stream of snapshots, and the UI-only expanded toggle.
type FeedHandler struct {
	View domain.FeedView
}

func NewFeedHandler(view domain.FeedView) *FeedHandler {
	return &FeedHandler{
		View: view,
	}
}

// State returns the current (activities, expanded) pair
func (h *FeedHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, response.NewFeedFromState(h.View.State()))
}

// Stream pushes one SSE snapshot event per read-model change. A slow
// client skips intermediate snapshots; the latest one always wins.
func (h *FeedHandler) Stream(c *gin.Context) {
	updates := make(chan domain.FeedState, 1)
	cancel := h.View.Watch(func(state domain.FeedState) {
		// Keep only the newest pending state.
		select {
		case updates <- state:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- state:
			default:
			}
		}
	})
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.SSEvent("snapshot", response.NewFeedFromState(h.View.State()))
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case state := <-updates:
			c.SSEvent("snapshot", response.NewFeedFromState(state))
			return true
		}
	})
}

// ToggleExpanded flips the comment-section flag for one activity
func (h *FeedHandler) ToggleExpanded(c *gin.Context) {
	aid, err := activityID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	h.View.ToggleExpanded(aid)
	c.Status(http.StatusNoContent)
}
