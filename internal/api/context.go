package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// currentUserID returns the authenticated user's ID from the Gin context, or
// the empty string for anonymous requests (OptionalAuth routes).
func currentUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// requireUserID returns the authenticated user's ID or writes a 401 and
// reports false. Routes behind VerifyToken always have one; this guards
// against wiring mistakes.
func requireUserID(c *gin.Context) (string, bool) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return "", false
	}
	return userID, true
}
