package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"commonroom-backend-go/internal/core"
)

// UserHandler handles user profile API endpoints.
type UserHandler struct {
	userService core.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// GetCurrentUserProfile handles GET /api/v1/users/me.
func (h *UserHandler) GetCurrentUserProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrUserNotFound.Error()})
			return
		}
		log.Printf("GetCurrentUserProfile Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
		return
	}
	c.JSON(http.StatusOK, user)
}
