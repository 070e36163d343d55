package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/core"
	"github.com/abordodesign/habitofit/internal/models"
)

// CatalogHandler handles series and episode endpoints. Episode listings
// sit behind the subscription gate.
type CatalogHandler struct {
	catalogService      core.CatalogService
	subscriptionService core.SubscriptionService
	logger              *zap.Logger
}

func NewCatalogHandler(cs core.CatalogService, ss core.SubscriptionService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: cs, subscriptionService: ss, logger: logger}
}

// parseIDParam converts a numeric path parameter, answering 400 itself on
// failure. The bool reports whether the caller should continue.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}

func (h *CatalogHandler) mapCatalogErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrSeriesNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrSeriesNotFound.Error()}
	case errors.Is(err, core.ErrEpisodeNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrEpisodeNotFound.Error()}
	default:
		h.logger.Error("catalog handler error", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// ListSeries handles GET /series
func (h *CatalogHandler) ListSeries(c *gin.Context) {
	series, err := h.catalogService.ListSeries(c.Request.Context())
	if err != nil {
		h.mapCatalogErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetSeries handles GET /series/:seriesId
func (h *CatalogHandler) GetSeries(c *gin.Context) {
	id, ok := parseIDParam(c, "seriesId")
	if !ok {
		return
	}
	series, err := h.catalogService.GetSeries(c.Request.Context(), id)
	if err != nil {
		h.mapCatalogErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// ListEpisodes handles GET /series/:seriesId/episodes
// Episode content is what the subscription pays for, so the gate sits here.
func (h *CatalogHandler) ListEpisodes(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	id, ok := parseIDParam(c, "seriesId")
	if !ok {
		return
	}

	if !h.subscriptionService.HasAccess(c.Request.Context(), userID.(string)) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Active subscription required"})
		return
	}

	episodes, err := h.catalogService.ListEpisodes(c.Request.Context(), id)
	if err != nil {
		h.mapCatalogErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, episodes)
}

// --- Staff CRUD endpoints (mounted behind the admin gate) ---

// CreateSeries handles POST /admin/series
func (h *CatalogHandler) CreateSeries(c *gin.Context) {
	var req models.CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	series, err := h.catalogService.CreateSeries(c.Request.Context(), req)
	if err != nil {
		h.mapCatalogErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, series)
}

// UpdateSeries handles PUT /admin/series/:seriesId
func (h *CatalogHandler) UpdateSeries(c *gin.Context) {
	id, ok := parseIDParam(c, "seriesId")
	if !ok {
		return
	}
	var req models.UpdateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	series, err := h.catalogService.UpdateSeries(c.Request.Context(), id, req)
	if err != nil {
		h.mapCatalogErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// DeleteSeries handles DELETE /admin/series/:seriesId
func (h *CatalogHandler) DeleteSeries(c *gin.Context) {
	id, ok := parseIDParam(c, "seriesId")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteSeries(c.Request.Context(), id); err != nil {
		h.mapCatalogErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Series deleted"})
}

// CreateEpisode handles POST /admin/episodes
func (h *CatalogHandler) CreateEpisode(c *gin.Context) {
	var req models.CreateEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	episode, err := h.catalogService.CreateEpisode(c.Request.Context(), req)
	if err != nil {
		h.mapCatalogErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, episode)
}

// UpdateEpisode handles PUT /admin/episodes/:episodeId
func (h *CatalogHandler) UpdateEpisode(c *gin.Context) {
	id, ok := parseIDParam(c, "episodeId")
	if !ok {
		return
	}
	var req models.UpdateEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	episode, err := h.catalogService.UpdateEpisode(c.Request.Context(), id, req)
	if err != nil {
		h.mapCatalogErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, episode)
}

// DeleteEpisode handles DELETE /admin/episodes/:episodeId
func (h *CatalogHandler) DeleteEpisode(c *gin.Context) {
	id, ok := parseIDParam(c, "episodeId")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteEpisode(c.Request.Context(), id); err != nil {
		h.mapCatalogErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Episode deleted"})
}
