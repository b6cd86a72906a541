package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is a private key type for request-context values. Using a custom
// type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	requestIDKey = contextKey("requestID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(userIDKey); v != nil {
		if userID, ok := v.(string); ok {
			return userID, true
		}
	}
	return "", false
}

// GetRequestIDFromCtx returns the request ID injected by the logging
// middleware, or empty when none is present.
func GetRequestIDFromCtx(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
