package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/db"
	"github.com/abordodesign/habitofit/internal/models"
)

var ErrEpisodeNotFound = errors.New("episode not found")

type catalogService struct {
	catalog db.CatalogRepository
	logger  *zap.Logger
}

func NewCatalogService(catalog db.CatalogRepository, logger *zap.Logger) CatalogService {
	return &catalogService{catalog: catalog, logger: logger}
}

func (s *catalogService) ListSeries(ctx context.Context) ([]*models.Series, error) {
	series, err := s.catalog.ListSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	return series, nil
}

func (s *catalogService) GetSeries(ctx context.Context, id uint) (*models.Series, error) {
	series, err := s.catalog.GetSeries(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	return series, nil
}

func (s *catalogService) ListEpisodes(ctx context.Context, seriesID uint) ([]*models.Episode, error) {
	if _, err := s.GetSeries(ctx, seriesID); err != nil {
		return nil, err
	}
	episodes, err := s.catalog.ListEpisodes(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	return episodes, nil
}

func (s *catalogService) CreateSeries(ctx context.Context, req models.CreateSeriesRequest) (*models.Series, error) {
	series := &models.Series{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.catalog.CreateSeries(ctx, series); err != nil {
		return nil, fmt.Errorf("failed to create series: %w", err)
	}
	s.logger.Info("series created", zap.Uint("id", series.ID), zap.String("name", series.Name))
	return series, nil
}

func (s *catalogService) UpdateSeries(ctx context.Context, id uint, req models.UpdateSeriesRequest) (*models.Series, error) {
	series, err := s.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		series.Name = *req.Name
	}
	if req.Description != nil {
		series.Description = *req.Description
	}
	if req.Image != nil {
		series.Image = *req.Image
	}
	if err := s.catalog.UpdateSeries(ctx, series); err != nil {
		return nil, fmt.Errorf("failed to update series: %w", err)
	}
	return series, nil
}

func (s *catalogService) DeleteSeries(ctx context.Context, id uint) error {
	if _, err := s.GetSeries(ctx, id); err != nil {
		return err
	}
	if err := s.catalog.DeleteSeries(ctx, id); err != nil {
		return fmt.Errorf("failed to delete series: %w", err)
	}
	s.logger.Info("series deleted", zap.Uint("id", id))
	return nil
}

func (s *catalogService) CreateEpisode(ctx context.Context, req models.CreateEpisodeRequest) (*models.Episode, error) {
	if _, err := s.GetSeries(ctx, req.SeriesID); err != nil {
		return nil, err
	}
	episode := &models.Episode{
		SeriesID:    req.SeriesID,
		Name:        req.Name,
		Subtitle:    req.Subtitle,
		VideoURL:    req.VideoURL,
		Position:    req.Position,
		DocumentURL: req.DocumentURL,
	}
	if err := s.catalog.CreateEpisode(ctx, episode); err != nil {
		return nil, fmt.Errorf("failed to create episode: %w", err)
	}
	s.logger.Info("episode created",
		zap.Uint("id", episode.ID), zap.Uint("seriesId", episode.SeriesID))
	return episode, nil
}

func (s *catalogService) UpdateEpisode(ctx context.Context, id uint, req models.UpdateEpisodeRequest) (*models.Episode, error) {
	episode, err := s.catalog.GetEpisode(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEpisodeNotFound
		}
		return nil, fmt.Errorf("failed to load episode: %w", err)
	}
	if req.Name != nil {
		episode.Name = *req.Name
	}
	if req.Subtitle != nil {
		episode.Subtitle = *req.Subtitle
	}
	if req.VideoURL != nil {
		episode.VideoURL = *req.VideoURL
	}
	if req.Position != nil {
		episode.Position = req.Position
	}
	if req.DocumentURL != nil {
		episode.DocumentURL = *req.DocumentURL
	}
	if err := s.catalog.UpdateEpisode(ctx, episode); err != nil {
		return nil, fmt.Errorf("failed to update episode: %w", err)
	}
	return episode, nil
}

func (s *catalogService) DeleteEpisode(ctx context.Context, id uint) error {
	if _, err := s.catalog.GetEpisode(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrEpisodeNotFound
		}
		return fmt.Errorf("failed to load episode: %w", err)
	}
	if err := s.catalog.DeleteEpisode(ctx, id); err != nil {
		return fmt.Errorf("failed to delete episode: %w", err)
	}
	s.logger.Info("episode deleted", zap.Uint("id", id))
	return nil
}
