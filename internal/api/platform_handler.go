package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"commonroom-backend-go/internal/core"
	"commonroom-backend-go/internal/models"
)

// PlatformHandler handles platform and membership API endpoints.
type PlatformHandler struct {
	platformService core.PlatformService
}

// NewPlatformHandler creates a new PlatformHandler.
func NewPlatformHandler(ps core.PlatformService) *PlatformHandler {
	return &PlatformHandler{platformService: ps}
}

// mapPlatformErrorToStatus maps errors from core.PlatformService to HTTP
// status codes and ErrorResponse.
func mapPlatformErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrPlatformNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrPlatformNotFound.Error()}
	case errors.Is(err, core.ErrMemberNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrMemberNotFound.Error()}
	case errors.Is(err, core.ErrSlugTaken):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrSlugTaken.Error()}
	case errors.Is(err, core.ErrForbidden):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbidden.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// platformResponse projects a platform for the viewer. Locked private
// platforms expose only the public shell (name, slug, branding), never the
// description of what is inside.
func platformResponse(platform *models.Platform, role core.Role, feed core.FeedAccess) PlatformResponse {
	if feed == core.FeedLocked {
		platform = &models.Platform{
			ID:         platform.ID,
			Slug:       platform.Slug,
			Name:       platform.Name,
			Public:     platform.Public,
			IconPath:   platform.IconPath,
			BannerPath: platform.BannerPath,
		}
	}
	return PlatformResponse{Platform: platform, Role: string(role), Feed: string(feed)}
}

// CreatePlatform handles POST /platforms
func (h *PlatformHandler) CreatePlatform(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	platform, err := h.platformService.CreatePlatform(c.Request.Context(), userID, req)
	if err != nil {
		mapPlatformErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, platform)
}

// GetPlatform handles GET /platforms/:platformId
func (h *PlatformHandler) GetPlatform(c *gin.Context) {
	platform, role, feed, err := h.platformService.GetPlatform(c.Request.Context(), currentUserID(c), c.Param("platformId"))
	if err != nil {
		mapPlatformErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, platformResponse(platform, role, feed))
}

// GetPlatformBySlug handles GET /platforms/slug/:slug
func (h *PlatformHandler) GetPlatformBySlug(c *gin.Context) {
	platform, role, feed, err := h.platformService.GetPlatformBySlug(c.Request.Context(), currentUserID(c), c.Param("slug"))
	if err != nil {
		mapPlatformErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, platformResponse(platform, role, feed))
}

// UpdatePlatform handles PUT /platforms/:platformId
func (h *PlatformHandler) UpdatePlatform(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.UpdatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	platform, err := h.platformService.UpdatePlatform(c.Request.Context(), userID, c.Param("platformId"), req)
	if err != nil {
		mapPlatformErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, platform)
}

// DeletePlatform handles DELETE /platforms/:platformId
func (h *PlatformHandler) DeletePlatform(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.platformService.DeletePlatform(c.Request.Context(), userID, c.Param("platformId")); err != nil {
		mapPlatformErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Platform deleted"})
}

// JoinPlatform handles POST /platforms/:platformId/join
func (h *PlatformHandler) JoinPlatform(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	member, err := h.platformService.JoinPlatform(
		c.Request.Context(),
		c.Param("platformId"),
		userID,
		c.GetString("userDisplayName"),
		c.GetString("userPhotoURL"),
	)
	if err != nil {
		mapPlatformErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// GetMyMembership handles GET /platforms/:platformId/membership
func (h *PlatformHandler) GetMyMembership(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	member, err := h.platformService.GetMembership(c.Request.Context(), c.Param("platformId"), userID)
	if err != nil {
		mapPlatformErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// ListMembers handles GET /platforms/:platformId/members
func (h *PlatformHandler) ListMembers(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	members, err := h.platformService.ListMembers(c.Request.Context(), userID, c.Param("platformId"), limit)
	if err != nil {
		mapPlatformErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}
