package api

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"commonroom-backend-go/internal/core"
	"commonroom-backend-go/internal/models"
)

// ChatHandler handles live chat API endpoints.
type ChatHandler struct {
	chatService core.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(cs core.ChatService) *ChatHandler {
	return &ChatHandler{chatService: cs}
}

// mapChatErrorToStatus maps errors from core.ChatService to HTTP status codes
// and ErrorResponse.
func mapChatErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrPlatformNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrPlatformNotFound.Error()}
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

// SendMessage handles POST /platforms/:platformId/chat
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.SendChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), userID, c.Param("platformId"), req)
	if err != nil {
		mapChatErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListRecent handles GET /platforms/:platformId/chat
func (h *ChatHandler) ListRecent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	msgs, err := h.chatService.ListRecent(c.Request.Context(), userID, c.Param("platformId"), limit)
	if err != nil {
		mapChatErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// Stream handles GET /platforms/:platformId/chat/stream as server-sent
// events. New messages arrive from the Firestore snapshot listener and are
// flushed one event per message until the client disconnects.
func (h *ChatHandler) Stream(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ch, err := h.chatService.Stream(c.Request.Context(), userID, c.Param("platformId"))
	if err != nil {
		mapChatErrorToStatus(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-ch:
			if !open {
				return false
			}
			c.SSEvent("message", msg)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
