package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/core"
	"github.com/abordodesign/habitofit/internal/models"
)

// AdminHandler handles the staff panel endpoints.
type AdminHandler struct {
	adminService core.AdminService
	logger       *zap.Logger
}

func NewAdminHandler(as core.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{adminService: as, logger: logger}
}

func (h *AdminHandler) mapAdminErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrNotificationNotFound.Error()})
	case errors.Is(err, core.ErrInvalidUpload):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidUpload.Error()})
	default:
		h.logger.Error("admin handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CheckRole handles GET /admin/me
// Mounted behind auth only (not the admin gate) so the client can decide
// whether to show the panel at all.
func (h *AdminHandler) CheckRole(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	role, ok, err := h.adminService.Role(c.Request.Context(), userID.(string))
	if err != nil {
		h.mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, AdminCheckResponse{IsAdmin: ok, Role: role})
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		h.mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListNotifications handles GET /admin/notifications
func (h *AdminHandler) ListNotifications(c *gin.Context) {
	notifications, err := h.adminService.ListNotifications(c.Request.Context())
	if err != nil {
		h.mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// CreateNotification handles POST /admin/notifications
func (h *AdminHandler) CreateNotification(c *gin.Context) {
	var req models.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	n, err := h.adminService.CreateNotification(c.Request.Context(), req)
	if err != nil {
		h.mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

// UpdateNotification handles PUT /admin/notifications/:notificationId
func (h *AdminHandler) UpdateNotification(c *gin.Context) {
	id, ok := parseIDParam(c, "notificationId")
	if !ok {
		return
	}
	var req models.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	req.ID = id
	n, err := h.adminService.UpdateNotification(c.Request.Context(), req)
	if err != nil {
		h.mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// DeleteNotification handles DELETE /admin/notifications/:notificationId
func (h *AdminHandler) DeleteNotification(c *gin.Context) {
	id, ok := parseIDParam(c, "notificationId")
	if !ok {
		return
	}
	if err := h.adminService.DeleteNotification(c.Request.Context(), id); err != nil {
		h.mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Notification deleted"})
}

// Upload handles POST /admin/upload
func (h *AdminHandler) Upload(c *gin.Context) {
	var req models.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	url, err := h.adminService.Upload(c.Request.Context(), req)
	if err != nil {
		h.mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{URL: url})
}
