package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"commonroom-backend-go/internal/storage"
	"commonroom-backend-go/pkg/cache"
)

// MediaHandler handles object uploads and signed URL issuing.
type MediaHandler struct {
	storage  *storage.Service
	urlCache cache.Cache
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(svc *storage.Service, urlCache cache.Cache) *MediaHandler {
	if urlCache == nil {
		urlCache = cache.Noop{}
	}
	return &MediaHandler{storage: svc, urlCache: urlCache}
}

// SignVideoURL handles GET /api/video/sign?path=…
// Responds 400 for a missing path, 501 when signing is not configured and 500
// for any other signing failure. Successful URLs are cached for the signing
// TTL.
func (h *MediaHandler) SignVideoURL(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "path query parameter is required"})
		return
	}

	key := "signedurl:" + path
	if cached, err := h.urlCache.Get(key); err == nil && cached != "" {
		c.JSON(http.StatusOK, SignedURLResponse{URL: cached})
		return
	}

	url, err := h.storage.SignedURL(path)
	if err != nil {
		if errors.Is(err, storage.ErrSigningUnavailable) {
			c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "Signed URL issuing is not configured"})
			return
		}
		log.Printf("SignVideoURL Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to sign URL"})
		return
	}

	if err := h.urlCache.Set(key, url, h.storage.TTL()); err != nil {
		log.Printf("SignVideoURL Warning: failed to cache signed URL for '%s': %v", path, err)
	}

	c.JSON(http.StatusOK, SignedURLResponse{URL: url})
}

// Upload handles POST /api/v1/media/upload. Multipart upload of avatars,
// banners, icons and post images; the caller supplies a destination prefix
// and the object is stored under it namespaced by user.
func (h *MediaHandler) Upload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file form field is required", Details: err.Error()})
		return
	}

	prefix := c.PostForm("prefix")
	if prefix == "" {
		prefix = "uploads"
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to open uploaded file", Details: err.Error()})
		return
	}
	defer f.Close()

	objectPath := fmt.Sprintf("%s/%s/%s", prefix, userID, fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	storedPath, err := h.storage.Upload(c.Request.Context(), objectPath, contentType, f)
	if err != nil {
		if errors.Is(err, storage.ErrSigningUnavailable) {
			c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "Object storage is not configured"})
			return
		}
		log.Printf("Upload Error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store object"})
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{Path: storedPath})
}
