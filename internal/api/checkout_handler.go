package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"commonroom-backend-go/internal/core"
	"commonroom-backend-go/internal/models"
	"commonroom-backend-go/internal/payments"
)

// CheckoutHandler handles quote, checkout and payment API endpoints.
type CheckoutHandler struct {
	checkoutService core.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(cs core.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: cs}
}

// mapCheckoutErrorToStatus maps errors from core.CheckoutService to HTTP
// status codes and ErrorResponse.
func mapCheckoutErrorToStatus(c *gin.Context, err error) {
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
	case errors.Is(err, core.ErrPaymentNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrPaymentNotFound.Error()}
	case errors.Is(err, core.ErrCheckoutTargetInvalid):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrCheckoutTargetInvalid.Error()}
	case errors.Is(err, core.ErrPromoCodeInvalid):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrPromoCodeInvalid.Error()}
	case errors.Is(err, core.ErrNoPriceAvailable):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrNoPriceAvailable.Error()}
	case errors.Is(err, core.ErrInvalidSignature):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrInvalidSignature.Error()}
	case errors.Is(err, payments.ErrGateway):
		statusCode = http.StatusBadGateway
		errResponse = ErrorResponse{Error: "Payment gateway is unavailable", Details: err.Error()}
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

// Quote handles POST /checkout/quote. Quoting is read-only and open to
// anonymous visitors pricing an item before signing in.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	quote, err := h.checkoutService.Quote(c.Request.Context(), req)
	if err != nil {
		mapCheckoutErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// StartCheckout handles POST /checkout
func (h *CheckoutHandler) StartCheckout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	result, err := h.checkoutService.StartCheckout(c.Request.Context(), userID, req)
	if err != nil {
		mapCheckoutErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleNotification handles POST /checkout/notify, the public gateway
// webhook. The payload's signature is verified in the service; no auth
// middleware runs here.
func (h *CheckoutHandler) HandleNotification(c *gin.Context) {
	var n payments.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid notification payload", Details: err.Error()})
		return
	}

	if err := h.checkoutService.HandleNotification(c.Request.Context(), n); err != nil {
		mapCheckoutErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListMyPayments handles GET /payments/me
func (h *CheckoutHandler) ListMyPayments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	paymentsList, err := h.checkoutService.ListMyPayments(c.Request.Context(), userID, limit)
	if err != nil {
		mapCheckoutErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentsList)
}

// ListPlatformPayments handles GET /platforms/:platformId/payments
func (h *CheckoutHandler) ListPlatformPayments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	paymentsList, err := h.checkoutService.ListPlatformPayments(c.Request.Context(), userID, c.Param("platformId"), limit)
	if err != nil {
		mapCheckoutErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentsList)
}
