package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	sessionIDKey    = "sessionId"
	sessionIDHeader = "X-Session-Id"
)

// Session stores the caller's X-Session-Id header, if any, on the context.
// Handlers may overwrite it with the session named in the request body.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(sessionIDHeader)); id != "" {
			SetSessionID(c, id)
		}
		c.Next()
	}
}

// SetSessionID records the session a request acts on.
func SetSessionID(c *gin.Context, id string) {
	c.Set(sessionIDKey, id)
}

// SessionIDFromContext returns the session recorded for the request.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(sessionIDKey)
}
