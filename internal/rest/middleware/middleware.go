package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/Go-Activity-Feed/domain"
)

// IdentityKey is where the request-scoped identity lives in the gin context
const IdentityKey = "identity"

// CORS allows the mobile/web clients to talk to the engine from anywhere
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID, X-User-Name, X-User-Avatar")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SetRequestContextWithTimeout bounds every request-scoped store call
func SetRequestContextWithTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// headerIdentity is the Identity collaborator backed by the gateway-set
// headers. The engine does not authenticate; identity is an external given.
type headerIdentity struct {
	id     int64
	name   string
	avatar string
}

var _ domain.Identity = headerIdentity{}

func (h headerIdentity) CurrentUserID() (int64, bool) {
	return h.id, h.id > 0
}

func (h headerIdentity) CurrentUserDisplayName() string {
	return h.name
}

func (h headerIdentity) CurrentUserAvatarURL() string {
	return h.avatar
}

// Identity extracts the current user from the gateway-set headers and
// rejects requests without one before they reach any command.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := strconv.ParseInt(c.GetHeader("X-User-ID"), 10, 64)
		if err != nil || uid <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		c.Set(IdentityKey, domain.Identity(headerIdentity{
			id:     uid,
			name:   c.GetHeader("X-User-Name"),
			avatar: c.GetHeader("X-User-Avatar"),
		}))
		c.Next()
	}
}
