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

// ForumHandler handles forum thread and reply API endpoints.
type ForumHandler struct {
	forumService core.ForumService
}

// NewForumHandler creates a new ForumHandler.
func NewForumHandler(fs core.ForumService) *ForumHandler {
	return &ForumHandler{forumService: fs}
}

// mapForumErrorToStatus maps errors from core.ForumService to HTTP status
// codes and ErrorResponse.
func mapForumErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrPlatformNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrPlatformNotFound.Error()}
	case errors.Is(err, core.ErrThreadNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrThreadNotFound.Error()}
	case errors.Is(err, core.ErrTitleRequired):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrTitleRequired.Error()}
	case errors.Is(err, core.ErrAccessLocked):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrAccessLocked.Error()}
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

// CreateThread handles POST /platforms/:platformId/threads
func (h *ForumHandler) CreateThread(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	thread, err := h.forumService.CreateThread(c.Request.Context(), userID, c.Param("platformId"), req)
	if err != nil {
		mapForumErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, thread)
}

// GetThread handles GET /platforms/:platformId/threads/:threadId
func (h *ForumHandler) GetThread(c *gin.Context) {
	thread, err := h.forumService.GetThread(c.Request.Context(), currentUserID(c), c.Param("platformId"), c.Param("threadId"))
	if err != nil {
		mapForumErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

// ListThreads handles GET /platforms/:platformId/threads
func (h *ForumHandler) ListThreads(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	threads, err := h.forumService.ListThreads(c.Request.Context(), currentUserID(c), c.Param("platformId"), limit)
	if err != nil {
		mapForumErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, threads)
}

// CreateReply handles POST /platforms/:platformId/threads/:threadId/replies
func (h *ForumHandler) CreateReply(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	reply, err := h.forumService.CreateReply(c.Request.Context(), userID, c.Param("platformId"), c.Param("threadId"), req)
	if err != nil {
		mapForumErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

// ListReplies handles GET /platforms/:platformId/threads/:threadId/replies
func (h *ForumHandler) ListReplies(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	replies, err := h.forumService.ListReplies(
		c.Request.Context(), currentUserID(c), c.Param("platformId"), c.Param("threadId"), limit)
	if err != nil {
		mapForumErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, replies)
}
