package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/core"
	"github.com/abordodesign/habitofit/internal/models"
)

// BillingHandler handles billing-related API endpoints.
type BillingHandler struct {
	billingService core.BillingService
	logger         *zap.Logger
}

func NewBillingHandler(bs core.BillingService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billingService: bs, logger: logger}
}

// CreateCheckoutSessionRequest carries the price the user is subscribing to.
type CreateCheckoutSessionRequest struct {
	PriceID string `json:"priceId" binding:"required"`
	BaseURL string `json:"baseUrl"`
}

// LinkCustomerRequest forces a re-link of the user to their payment
// customer record, optionally overriding the lookup email.
type LinkCustomerRequest struct {
	Email string `json:"email"`
}

// mapBillingErrorToStatus maps errors from core.BillingService to HTTP
// status codes and ErrorResponse.
func (h *BillingHandler) mapBillingErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrCustomerNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrCustomerNotFound.Error()}
	case errors.Is(err, core.ErrWebhookSignature):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Webhook signature verification failed"}
	case errors.Is(err, core.ErrWebhookProcessing):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Webhook processing error", Details: err.Error()}
	default:
		h.logger.Error("billing handler error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// GetSummary handles GET /billing/summary
func (h *BillingHandler) GetSummary(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	tokenEmail := c.GetString("userEmail")

	summary, err := h.billingService.Summary(c.Request.Context(), userID.(string), tokenEmail)
	if err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetCard handles GET /billing/card
// A projection of the summary for clients that only render the saved card.
func (h *BillingHandler) GetCard(c *gin.Context) {
	summary, ok := h.summaryFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": summary.Card})
}

// GetExpiry handles GET /billing/expiry
func (h *BillingHandler) GetExpiry(c *gin.Context) {
	summary, ok := h.summaryFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"renewalDate": summary.RenewalDate})
}

// GetStatus handles GET /billing/status
func (h *BillingHandler) GetStatus(c *gin.Context) {
	summary, ok := h.summaryFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": summary.Status, "statusLabel": summary.StatusLabel})
}

// summaryFor resolves the caller's summary, writing the error response
// itself. The bool reports whether the caller should continue.
func (h *BillingHandler) summaryFor(c *gin.Context) (*models.PaymentSummary, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return nil, false
	}
	summary, err := h.billingService.Summary(c.Request.Context(), userID.(string), c.GetString("userEmail"))
	if err != nil {
		h.mapBillingErrorToStatus(c, err)
		return nil, false
	}
	return summary, true
}

// LinkCustomer handles POST /billing/link-customer
func (h *BillingHandler) LinkCustomer(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req LinkCustomerRequest
	// Body is optional; a missing or empty body means "use the token email".
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	email := req.Email
	if email == "" {
		email = c.GetString("userEmail")
	}

	customer, err := h.billingService.LinkCustomer(c.Request.Context(), userID.(string), email)
	if err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// CreateCheckoutSession handles POST /billing/create-checkout-session
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	url, err := h.billingService.CreateCheckoutSession(c.Request.Context(), userID.(string), c.GetString("userEmail"), req.PriceID, req.BaseURL)
	if err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, CheckoutSessionResponse{URL: url})
}

// CreatePortalSession handles POST /billing/create-portal-session
func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	url, err := h.billingService.CreatePortalSession(c.Request.Context(), userID.(string), c.Query("returnUrl"))
	if err != nil {
		h.mapBillingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, PortalSessionResponse{URL: url})
}

// HandleStripeWebhook handles POST /billing/webhooks/stripe
// This endpoint is public; Stripe authenticates deliveries with the
// Stripe-Signature header, verified inside the service.
func (h *BillingHandler) HandleStripeWebhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing Stripe-Signature header"})
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		h.logger.Error("failed to read webhook payload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read webhook payload"})
		return
	}

	if err := h.billingService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		h.logger.Warn("webhook handling failed", zap.Error(err))
		h.mapBillingErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Webhook received successfully"})
}
