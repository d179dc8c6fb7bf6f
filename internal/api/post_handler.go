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

// PostHandler handles feed post, comment and reaction API endpoints.
type PostHandler struct {
	postService core.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(ps core.PostService) *PostHandler {
	return &PostHandler{postService: ps}
}

// mapPostErrorToStatus maps errors from core.PostService to HTTP status codes
// and ErrorResponse.
func mapPostErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrPlatformNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrPlatformNotFound.Error()}
	case errors.Is(err, core.ErrPostNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrPostNotFound.Error()}
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

// ListFeed handles GET /platforms/:platformId/posts?communityId=&limit=
func (h *PostHandler) ListFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	posts, err := h.postService.ListFeed(
		c.Request.Context(), currentUserID(c), c.Param("platformId"), c.Query("communityId"), limit)
	if err != nil {
		mapPostErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// CreatePost handles POST /platforms/:platformId/posts?communityId=
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	post, err := h.postService.CreatePost(
		c.Request.Context(), userID, c.Param("platformId"), c.Query("communityId"), req)
	if err != nil {
		mapPostErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost handles PUT /platforms/:platformId/posts/:postId
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), userID, c.Param("platformId"), c.Param("postId"), req)
	if err != nil {
		mapPostErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /platforms/:platformId/posts/:postId
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), userID, c.Param("platformId"), c.Param("postId")); err != nil {
		mapPostErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Post deleted"})
}

// SetPinned handles POST /platforms/:platformId/posts/:postId/pin
func (h *PostHandler) SetPinned(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req PinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.postService.SetPinned(c.Request.Context(), userID, c.Param("platformId"), c.Param("postId"), req.Pinned); err != nil {
		mapPostErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Pinned state updated"})
}

// LikePost handles POST /platforms/:platformId/posts/:postId/like
func (h *PostHandler) LikePost(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.postService.LikePost(c.Request.Context(), userID, c.Param("platformId"), c.Param("postId")); err != nil {
		mapPostErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Reaction recorded"})
}

// CreateComment handles POST /platforms/:platformId/posts/:postId/comments
func (h *PostHandler) CreateComment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	comment, err := h.postService.CreateComment(c.Request.Context(), userID, c.Param("platformId"), c.Param("postId"), req)
	if err != nil {
		mapPostErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListComments handles GET /platforms/:platformId/posts/:postId/comments
func (h *PostHandler) ListComments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	comments, err := h.postService.ListComments(
		c.Request.Context(), currentUserID(c), c.Param("platformId"), c.Param("postId"), limit)
	if err != nil {
		mapPostErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}
