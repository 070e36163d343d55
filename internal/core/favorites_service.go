package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/db"
	"github.com/abordodesign/habitofit/internal/models"
)

var ErrSeriesNotFound = errors.New("series not found")

type favoritesService struct {
	favorites db.FavoriteRepository
	catalog   db.CatalogRepository
	cache     db.FavoritesCache
	logger    *zap.Logger
}

func NewFavoritesService(favorites db.FavoriteRepository, catalog db.CatalogRepository, cache db.FavoritesCache, logger *zap.Logger) FavoritesService {
	return &favoritesService{
		favorites: favorites,
		catalog:   catalog,
		cache:     cache,
		logger:    logger,
	}
}

func parseSeriesID(seriesID string) (uint, error) {
	id, err := strconv.ParseUint(seriesID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid series id %q", ErrSeriesNotFound, seriesID)
	}
	return uint(id), nil
}

func (s *favoritesService) Add(ctx context.Context, userID, seriesID string) error {
	id, err := parseSeriesID(seriesID)
	if err != nil {
		return err
	}
	series, err := s.catalog.GetSeries(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrSeriesNotFound
		}
		return fmt.Errorf("failed to load series: %w", err)
	}

	fav := &models.Favorite{
		UserID:      userID,
		SeriesID:    seriesID,
		Name:        series.Name,
		Description: series.Description,
		Image:       series.Image,
		Rating:      series.Rating,
	}
	if err := s.favorites.Set(ctx, fav); err != nil {
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	s.refreshCache(ctx, userID)
	return nil
}

func (s *favoritesService) Remove(ctx context.Context, userID, seriesID string) error {
	if err := s.favorites.Delete(ctx, userID, seriesID); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	s.refreshCache(ctx, userID)
	return nil
}

func (s *favoritesService) IsFavorite(ctx context.Context, userID, seriesID string) (bool, error) {
	exists, err := s.favorites.Exists(ctx, userID, seriesID)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

func (s *favoritesService) List(ctx context.Context, userID string) ([]*models.Favorite, error) {
	if cached, err := s.cache.Get(ctx, userID); err != nil {
		s.logger.Warn("favorites cache read failed", zap.String("uid", userID), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	favs, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, userID, favs); err != nil {
		s.logger.Warn("favorites cache write failed", zap.String("uid", userID), zap.Error(err))
	}
	return favs, nil
}

// load reads the canonical favorites and hydrates legacy id-only rows
// (written before the snapshot fields existed) from the catalog. Rows whose
// series has since been deleted are dropped from the result.
func (s *favoritesService) load(ctx context.Context, userID string) ([]*models.Favorite, error) {
	rows, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	favs := make([]*models.Favorite, 0, len(rows))
	for _, fav := range rows {
		if !fav.HasSnapshot() {
			hydrated, err := s.hydrate(ctx, fav)
			if err != nil {
				return nil, err
			}
			if hydrated == nil {
				continue
			}
			fav = hydrated
		}
		favs = append(favs, fav)
	}
	return favs, nil
}

func (s *favoritesService) hydrate(ctx context.Context, fav *models.Favorite) (*models.Favorite, error) {
	id, err := parseSeriesID(fav.SeriesID)
	if err != nil {
		s.logger.Warn("dropping favorite with malformed series id",
			zap.String("uid", fav.UserID), zap.String("seriesId", fav.SeriesID))
		return nil, nil
	}
	series, err := s.catalog.GetSeries(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to hydrate favorite: %w", err)
	}
	fav.Name = series.Name
	fav.Description = series.Description
	fav.Image = series.Image
	fav.Rating = series.Rating
	return fav, nil
}

// refreshCache repopulates the cache after a write. Best effort: the
// canonical store already holds the change.
func (s *favoritesService) refreshCache(ctx context.Context, userID string) {
	favs, err := s.load(ctx, userID)
	if err != nil {
		s.logger.Warn("favorites cache refresh skipped", zap.String("uid", userID), zap.Error(err))
		return
	}
	if err := s.cache.Put(ctx, userID, favs); err != nil {
		s.logger.Warn("favorites cache write failed", zap.String("uid", userID), zap.Error(err))
	}
}
