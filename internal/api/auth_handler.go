package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"commonroom-backend-go/internal/core"
)

// AuthHandler handles authentication related API endpoints.
type AuthHandler struct {
	userService core.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService) *AuthHandler {
	return &AuthHandler{userService: us}
}

// InitializeUserProfile handles POST /api/v1/users/initialize.
// Called by the client after a Firebase authentication event to ensure the
// backend profile document exists. The auth middleware has already validated
// the ID token and placed the claims in the context.
func (h *AuthHandler) InitializeUserProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	email := c.GetString("userEmail")
	displayName := c.GetString("userDisplayName")
	photoURL := c.GetString("userPhotoURL")

	user, created, err := h.userService.GetOrCreate(c.Request.Context(), userID, email, displayName, photoURL)
	if err != nil {
		log.Printf("InitializeUserProfile Error: userService.GetOrCreate failed for userID %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to initialize user profile", Details: err.Error()})
		return
	}

	if created {
		c.JSON(http.StatusCreated, user)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout handles POST /api/auth/logout. Authentication is stateless
// (Firebase ID tokens), so the server only clears the session cookie some
// clients set; token invalidation happens client-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("session", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
