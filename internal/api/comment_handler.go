package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/core"
	"github.com/abordodesign/habitofit/internal/models"
)

// CommentHandler handles episode comment endpoints.
type CommentHandler struct {
	commentService core.CommentService
	adminService   core.AdminService
	logger         *zap.Logger
}

func NewCommentHandler(cs core.CommentService, as core.AdminService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{commentService: cs, adminService: as, logger: logger}
}

func (h *CommentHandler) mapCommentErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrCommentNotFound.Error()})
	case errors.Is(err, core.ErrEpisodeNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrEpisodeNotFound.Error()})
	case errors.Is(err, core.ErrEmptyComment):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrEmptyComment.Error()})
	case errors.Is(err, core.ErrInvalidScore):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidScore.Error()})
	case errors.Is(err, core.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You may only delete your own comments"})
	default:
		h.logger.Error("comment handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// List handles GET /episodes/:episodeId/comments
func (h *CommentHandler) List(c *gin.Context) {
	id, ok := parseIDParam(c, "episodeId")
	if !ok {
		return
	}
	comments, err := h.commentService.ListByEpisode(c.Request.Context(), id)
	if err != nil {
		h.mapCommentErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Create handles POST /episodes/:episodeId/comments
// The author is the authenticated user's email, never client-supplied.
func (h *CommentHandler) Create(c *gin.Context) {
	_, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	id, ok := parseIDParam(c, "episodeId")
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), id, c.GetString("userEmail"), req.Body, req.Rating)
	if err != nil {
		h.mapCommentErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Delete handles DELETE /comments/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	id, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	_, isAdmin, err := h.adminService.Role(c.Request.Context(), userID.(string))
	if err != nil {
		h.logger.Warn("admin role lookup failed during comment delete",
			zap.String("uid", userID.(string)), zap.Error(err))
		isAdmin = false
	}

	if err := h.commentService.Delete(c.Request.Context(), id, c.GetString("userEmail"), isAdmin); err != nil {
		h.mapCommentErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Comment deleted"})
}
