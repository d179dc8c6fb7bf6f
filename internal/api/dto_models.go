package api

import "commonroom-backend-go/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message or code
	Details string `json:"details,omitempty"` // More specific details about the error, if available
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PlatformResponse wraps a platform with the viewer's evaluated standing.
// For a locked private platform only the public shell is projected.
type PlatformResponse struct {
	Platform *models.Platform `json:"platform"`
	Role     string           `json:"role"`
	Feed     string           `json:"feed"` // "visible" or "locked"
}

// CommunityResponse wraps a community with the viewer's access outcome.
type CommunityResponse struct {
	Community *models.Community `json:"community"`
	Access    string            `json:"access"` // "full", "pinned_only" or "locked"
}

// PinRequest toggles a post's pinned flag.
type PinRequest struct {
	Pinned bool `json:"pinned"`
}

// UploadResponse returns the stored object path after an upload.
type UploadResponse struct {
	Path string `json:"path"`
}

// SignedURLResponse returns a time-limited delivery URL.
type SignedURLResponse struct {
	URL string `json:"url"`
}
