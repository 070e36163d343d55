package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/abordodesign/habitofit/internal/models"
)

// gormCommentRepository implements CommentRepository on Postgres via GORM.
type gormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new gormCommentRepository.
func NewGormCommentRepository(gdb *gorm.DB) CommentRepository {
	if gdb == nil {
		log.Fatal("GORM DB is not initialized for CommentRepository.")
	}
	return &gormCommentRepository{db: gdb}
}

// ListByEpisode returns comments newest first.
func (r *gormCommentRepository) ListByEpisode(ctx context.Context, episodeID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Order("created_at desc").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments of episode %d: %w", episodeID, err)
	}
	return comments, nil
}

func (r *gormCommentRepository) Create(ctx context.Context, c *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *gormCommentRepository) Get(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment %d: %w", id, err)
	}
	return &c, nil
}

func (r *gormCommentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment %d not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
