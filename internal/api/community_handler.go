package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"commonroom-backend-go/internal/core"
	"commonroom-backend-go/internal/models"
)

// CommunityHandler handles community and membership type API endpoints.
type CommunityHandler struct {
	communityService core.CommunityService
	mtService        core.MembershipTypeService
}

// NewCommunityHandler creates a new CommunityHandler.
func NewCommunityHandler(cs core.CommunityService, mts core.MembershipTypeService) *CommunityHandler {
	return &CommunityHandler{communityService: cs, mtService: mts}
}

// mapCommunityErrorToStatus maps errors from the community and membership type
// services to HTTP status codes and ErrorResponse.
func mapCommunityErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrPlatformNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrPlatformNotFound.Error()}
	case errors.Is(err, core.ErrCommunityNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrCommunityNotFound.Error()}
	case errors.Is(err, core.ErrMembershipTypeNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrMembershipTypeNotFound.Error()}
	case errors.Is(err, core.ErrCommunityNotEmpty):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrCommunityNotEmpty.Error()}
	case errors.Is(err, core.ErrPriceRequired):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrPriceRequired.Error()}
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

// CreateCommunity handles POST /platforms/:platformId/communities
func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	community, err := h.communityService.CreateCommunity(c.Request.Context(), userID, c.Param("platformId"), req)
	if err != nil {
		mapCommunityErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, community)
}

// GetCommunity handles GET /platforms/:platformId/communities/:communityId
func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	community, access, err := h.communityService.GetCommunity(
		c.Request.Context(), currentUserID(c), c.Param("platformId"), c.Param("communityId"))
	if err != nil {
		mapCommunityErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, CommunityResponse{Community: community, Access: string(access)})
}

// ListCommunities handles GET /platforms/:platformId/communities
func (h *CommunityHandler) ListCommunities(c *gin.Context) {
	communities, err := h.communityService.ListCommunities(c.Request.Context(), c.Param("platformId"))
	if err != nil {
		mapCommunityErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, communities)
}

// UpdateCommunity handles PUT /platforms/:platformId/communities/:communityId
func (h *CommunityHandler) UpdateCommunity(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	community, err := h.communityService.UpdateCommunity(
		c.Request.Context(), userID, c.Param("platformId"), c.Param("communityId"), req)
	if err != nil {
		mapCommunityErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, community)
}

// DeleteCommunity handles DELETE /platforms/:platformId/communities/:communityId
func (h *CommunityHandler) DeleteCommunity(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.communityService.DeleteCommunity(
		c.Request.Context(), userID, c.Param("platformId"), c.Param("communityId")); err != nil {
		mapCommunityErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Community deleted"})
}

// CreateMembershipType handles POST /platforms/:platformId/membership-types
func (h *CommunityHandler) CreateMembershipType(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreateMembershipTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	mt, err := h.mtService.CreateMembershipType(c.Request.Context(), userID, c.Param("platformId"), req)
	if err != nil {
		mapCommunityErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, mt)
}

// GetMembershipType handles GET /platforms/:platformId/membership-types/:membershipTypeId
func (h *CommunityHandler) GetMembershipType(c *gin.Context) {
	mt, err := h.mtService.GetMembershipType(c.Request.Context(), c.Param("platformId"), c.Param("membershipTypeId"))
	if err != nil {
		mapCommunityErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, mt)
}

// ListMembershipTypes handles GET /platforms/:platformId/membership-types
func (h *CommunityHandler) ListMembershipTypes(c *gin.Context) {
	types, err := h.mtService.ListMembershipTypes(c.Request.Context(), c.Param("platformId"))
	if err != nil {
		mapCommunityErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// UpdateMembershipType handles PUT /platforms/:platformId/membership-types/:membershipTypeId
func (h *CommunityHandler) UpdateMembershipType(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateMembershipTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	mt, err := h.mtService.UpdateMembershipType(
		c.Request.Context(), userID, c.Param("platformId"), c.Param("membershipTypeId"), req)
	if err != nil {
		mapCommunityErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, mt)
}

// DeleteMembershipType handles DELETE /platforms/:platformId/membership-types/:membershipTypeId
func (h *CommunityHandler) DeleteMembershipType(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.mtService.DeleteMembershipType(
		c.Request.Context(), userID, c.Param("platformId"), c.Param("membershipTypeId")); err != nil {
		mapCommunityErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Membership type deleted"})
}
