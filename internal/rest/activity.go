package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
	"github.com/Guyuepp/Go-Activity-Feed/internal/rest/middleware"
	"github.com/Guyuepp/Go-Activity-Feed/internal/rest/request"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// ActivityHandler represent the httphandler for the interaction commands
type ActivityHandler struct {
	Service domain.ActivityUsecase
}

func NewActivityHandler(svc domain.ActivityUsecase) *ActivityHandler {
	return &ActivityHandler{
		Service: svc,
	}
}

// Post will store a new activity by given request body
func (h *ActivityHandler) Post(c *gin.Context) {
	var req request.Activity
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, ok := currentAuthor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := h.Service.Post(c.Request.Context(), req.Text, author)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Like toggles the current user's membership in the activity's like set
func (h *ActivityHandler) Like(c *gin.Context) {
	aid, err := activityID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	author, ok := currentAuthor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.Service.ToggleLike(c.Request.Context(), aid, author.ID); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateComment appends a comment to the activity
func (h *ActivityHandler) CreateComment(c *gin.Context) {
	aid, err := activityID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, ok := currentAuthor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.Service.AddComment(c.Request.Context(), aid, req.Text, author); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Comment created successfully"})
}

// Delete removes the activity. Destructive, so it demands the explicit
// confirm flag the UI sets after its "are you sure" step.
func (h *ActivityHandler) Delete(c *gin.Context) {
	aid, err := activityID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return
	}

	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deletion requires confirm=true"})
		return
	}

	author, ok := currentAuthor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.Service.Delete(c.Request.Context(), aid, author.ID); err != nil {
		if err == domain.ErrForbidden {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this activity"})
			return
		}
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func activityID(c *gin.Context) (int64, error) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, err
	}
	return int64(idP), nil
}

// currentAuthor snapshots the identity the middleware resolved
func currentAuthor(c *gin.Context) (domain.Author, bool) {
	v, exists := c.Get(middleware.IdentityKey)
	if !exists {
		return domain.Author{}, false
	}
	ident, ok := v.(domain.Identity)
	if !ok {
		return domain.Author{}, false
	}
	return domain.SnapshotAuthor(ident)
}

// getStatusCode will get the code of the error from domain.ActivityUsecase
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	logrus.Error(err)
	switch err {
	case domain.ErrInternalServerError:
		return http.StatusInternalServerError
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	case domain.ErrBadParamInput:
		return http.StatusBadRequest
	case domain.ErrForbidden:
		return http.StatusForbidden
	case domain.ErrStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
