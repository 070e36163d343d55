package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/core"
)

// FavoritesHandler handles the user's series bookmarks.
type FavoritesHandler struct {
	favoritesService core.FavoritesService
	logger           *zap.Logger
}

func NewFavoritesHandler(fs core.FavoritesService, logger *zap.Logger) *FavoritesHandler {
	return &FavoritesHandler{favoritesService: fs, logger: logger}
}

func (h *FavoritesHandler) mapFavoritesErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrSeriesNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrSeriesNotFound.Error()})
	default:
		h.logger.Error("favorites handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// List handles GET /favorites
func (h *FavoritesHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	favs, err := h.favoritesService.List(c.Request.Context(), userID.(string))
	if err != nil {
		h.mapFavoritesErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, favs)
}

// Add handles PUT /favorites/:seriesId
func (h *FavoritesHandler) Add(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	seriesID := c.Param("seriesId")
	if seriesID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Series ID is required"})
		return
	}
	if err := h.favoritesService.Add(c.Request.Context(), userID.(string), seriesID); err != nil {
		h.mapFavoritesErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Favorite added"})
}

// Remove handles DELETE /favorites/:seriesId
func (h *FavoritesHandler) Remove(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	seriesID := c.Param("seriesId")
	if seriesID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Series ID is required"})
		return
	}
	if err := h.favoritesService.Remove(c.Request.Context(), userID.(string), seriesID); err != nil {
		h.mapFavoritesErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Favorite removed"})
}

// GetStatus handles GET /favorites/:seriesId/status
func (h *FavoritesHandler) GetStatus(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	seriesID := c.Param("seriesId")
	if seriesID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Series ID is required"})
		return
	}
	isFav, err := h.favoritesService.IsFavorite(c.Request.Context(), userID.(string), seriesID)
	if err != nil {
		h.mapFavoritesErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, FavoriteStatusResponse{SeriesID: seriesID, IsFavorite: isFav})
}
