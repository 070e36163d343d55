package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/abordodesign/habitofit/internal/models"
)

// gormCatalogRepository implements CatalogRepository on Postgres via GORM.
type gormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new gormCatalogRepository.
func NewGormCatalogRepository(gdb *gorm.DB) CatalogRepository {
	if gdb == nil {
		log.Fatal("GORM DB is not initialized for CatalogRepository.")
	}
	return &gormCatalogRepository{db: gdb}
}

func (r *gormCatalogRepository) ListSeries(ctx context.Context) ([]*models.Series, error) {
	var series []*models.Series
	if err := r.db.WithContext(ctx).Order("name asc").Find(&series).Error; err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	return series, nil
}

func (r *gormCatalogRepository) GetSeries(ctx context.Context, id uint) (*models.Series, error) {
	var s models.Series
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("series %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get series %d: %w", id, err)
	}
	return &s, nil
}

func (r *gormCatalogRepository) CreateSeries(ctx context.Context, s *models.Series) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("failed to create series: %w", err)
	}
	return nil
}

func (r *gormCatalogRepository) UpdateSeries(ctx context.Context, s *models.Series) error {
	if s.ID == 0 {
		return errors.New("series ID cannot be zero for UpdateSeries operation")
	}
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return fmt.Errorf("failed to update series %d: %w", s.ID, err)
	}
	return nil
}

// DeleteSeries removes the series and its episodes.
func (r *gormCatalogRepository) DeleteSeries(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("series_id = ?", id).Delete(&models.Episode{}).Error; err != nil {
			return fmt.Errorf("failed to delete episodes of series %d: %w", id, err)
		}
		res := tx.Delete(&models.Series{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete series %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("series %d not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

// UpdateSeriesRating writes only the cached aggregate column. This is an
// independent write with no atomicity guarantee relative to the rating row
// itself; a crash in between leaves the column stale until the next rate.
func (r *gormCatalogRepository) UpdateSeriesRating(ctx context.Context, id uint, rating float64) error {
	if err := r.db.WithContext(ctx).Model(&models.Series{}).Where("id = ?", id).
		Update("rating", rating).Error; err != nil {
		return fmt.Errorf("failed to update rating of series %d: %w", id, err)
	}
	return nil
}

// UpdateEpisodeRating writes only the cached aggregate column, with the
// same non-atomicity caveat as UpdateSeriesRating.
func (r *gormCatalogRepository) UpdateEpisodeRating(ctx context.Context, id uint, rating float64) error {
	if err := r.db.WithContext(ctx).Model(&models.Episode{}).Where("id = ?", id).
		Update("rating", rating).Error; err != nil {
		return fmt.Errorf("failed to update rating of episode %d: %w", id, err)
	}
	return nil
}

func (r *gormCatalogRepository) ListEpisodes(ctx context.Context, seriesID uint) ([]*models.Episode, error) {
	var episodes []*models.Episode
	if err := r.db.WithContext(ctx).
		Where("series_id = ?", seriesID).
		Order("position asc NULLS LAST").
		Order("name asc").
		Find(&episodes).Error; err != nil {
		return nil, fmt.Errorf("failed to list episodes of series %d: %w", seriesID, err)
	}
	return episodes, nil
}

func (r *gormCatalogRepository) GetEpisode(ctx context.Context, id uint) (*models.Episode, error) {
	var e models.Episode
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("episode %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get episode %d: %w", id, err)
	}
	return &e, nil
}

func (r *gormCatalogRepository) CreateEpisode(ctx context.Context, e *models.Episode) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to create episode: %w", err)
	}
	return nil
}

func (r *gormCatalogRepository) UpdateEpisode(ctx context.Context, e *models.Episode) error {
	if e.ID == 0 {
		return errors.New("episode ID cannot be zero for UpdateEpisode operation")
	}
	if err := r.db.WithContext(ctx).Save(e).Error; err != nil {
		return fmt.Errorf("failed to update episode %d: %w", e.ID, err)
	}
	return nil
}

func (r *gormCatalogRepository) DeleteEpisode(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Episode{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete episode %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("episode %d not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
