package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/core"
	"github.com/abordodesign/habitofit/internal/models"
)

// RatingHandler handles the rating endpoints.
type RatingHandler struct {
	ratingService core.RatingService
	logger        *zap.Logger
}

func NewRatingHandler(rs core.RatingService, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{ratingService: rs, logger: logger}
}

func (h *RatingHandler) mapRatingErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidScore):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidScore.Error()})
	case errors.Is(err, core.ErrInvalidItemType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidItemType.Error()})
	default:
		h.logger.Error("rating handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// Rate handles POST /ratings
func (h *RatingHandler) Rate(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}

	var req models.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.ratingService.Rate(c.Request.Context(), userID.(string), req.ItemID, req.ItemType, req.Score); err != nil {
		h.mapRatingErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Rating saved"})
}

// Get handles GET /ratings/:itemType/:itemId
// Returns the item's mean score together with the caller's own rating
// (null when they have not rated it).
func (h *RatingHandler) Get(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	itemType := c.Param("itemType")
	itemID := c.Param("itemId")

	avg, err := h.ratingService.Average(c.Request.Context(), itemID, itemType)
	if err != nil {
		h.mapRatingErrorToStatus(c, err)
		return
	}
	userScore, err := h.ratingService.UserScore(c.Request.Context(), userID.(string), itemID, itemType)
	if err != nil {
		h.mapRatingErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, RatingResponse{
		ItemID:    itemID,
		ItemType:  itemType,
		Average:   avg,
		UserScore: userScore,
	})
}
