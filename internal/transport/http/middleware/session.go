package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "support_session"
	ContextUserIDKey  = "user_id"
)

// Session assigns each visitor a short random id via cookie and exposes it
// on the request context. No authentication is implied; the id only groups
// a visitor's messages in the conversation log.
func Session(cookieTTLSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := c.Cookie(SessionCookieName)
		if err != nil || userID == "" {
			userID = uuid.NewString()[:8]
			c.SetCookie(SessionCookieName, userID, cookieTTLSeconds, "/", "", false, true)
		}
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// UserID reads the session id placed by Session; "Guest" when absent.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	return "Guest"
}
