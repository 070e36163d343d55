package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/core"
)

// SubscriptionHandler exposes the subscription gate to the web client.
type SubscriptionHandler struct {
	subscriptionService core.SubscriptionService
	logger              *zap.Logger
}

func NewSubscriptionHandler(ss core.SubscriptionService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: ss, logger: logger}
}

// GetStatus handles GET /subscription/status
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	uid := userID.(string)

	status, label, err := h.subscriptionService.Status(c.Request.Context(), uid)
	if err != nil {
		h.logger.Error("subscription status lookup failed", zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
		return
	}

	c.JSON(http.StatusOK, SubscriptionStatusResponse{
		Status:    status,
		Label:     label,
		HasAccess: h.subscriptionService.HasAccess(c.Request.Context(), uid),
	})
}
