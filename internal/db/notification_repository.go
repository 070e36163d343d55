package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/abordodesign/habitofit/internal/models"
)

// gormNotificationRepository implements NotificationRepository on Postgres.
type gormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new gormNotificationRepository.
func NewGormNotificationRepository(gdb *gorm.DB) NotificationRepository {
	if gdb == nil {
		log.Fatal("GORM DB is not initialized for NotificationRepository.")
	}
	return &gormNotificationRepository{db: gdb}
}

// List returns notifications newest first.
func (r *gormNotificationRepository) List(ctx context.Context) ([]*models.Notification, error) {
	var notifications []*models.Notification
	if err := r.db.WithContext(ctx).Order("id desc").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *gormNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *gormNotificationRepository) Update(ctx context.Context, n *models.Notification) error {
	if n.ID == 0 {
		return errors.New("notification ID cannot be zero for Update operation")
	}
	res := r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", n.ID).
		Updates(map[string]interface{}{
			"title": n.Title,
			"body":  n.Body,
			"image": n.Image,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update notification %d: %w", n.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %d not found for update: %w", n.ID, ErrNotFound)
	}
	return nil
}

func (r *gormNotificationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Notification{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete notification %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %d not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
