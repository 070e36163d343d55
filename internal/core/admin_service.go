package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/db"
	"github.com/abordodesign/habitofit/internal/models"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidUpload        = errors.New("upload payload is not valid base64")
)

type adminService struct {
	admins        db.AdminRepository
	customers     db.CustomerRepository
	notifications db.NotificationRepository
	files         db.FileStore
	logger        *zap.Logger
}

func NewAdminService(admins db.AdminRepository, customers db.CustomerRepository, notifications db.NotificationRepository, files db.FileStore, logger *zap.Logger) AdminService {
	return &adminService{
		admins:        admins,
		customers:     customers,
		notifications: notifications,
		files:         files,
		logger:        logger,
	}
}

func (s *adminService) Role(ctx context.Context, uid string) (string, bool, error) {
	role, err := s.admins.GetRole(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load admin role: %w", err)
	}
	return role.Role, true, nil
}

// ListUsers joins profile documents with each user's latest subscription.
// Users whose subscription lookup fails are still listed, without status.
func (s *adminService) ListUsers(ctx context.Context) ([]*models.AdminUser, error) {
	profiles, err := s.admins.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user profiles: %w", err)
	}
	users := make([]*models.AdminUser, 0, len(profiles))
	for _, p := range profiles {
		user := &models.AdminUser{
			ID:       p.UID,
			Name:     p.Name,
			Email:    p.Email,
			PhotoURL: p.PhotoURL,
		}
		sub, err := s.customers.LatestSubscription(ctx, p.UID)
		switch {
		case err == nil:
			user.SubscriptionStatus = StatusLabel(sub.Status)
			end := sub.CurrentPeriodEnd.UnixMilli()
			user.CurrentPeriodEnd = &end
		case errors.Is(err, db.ErrNotFound):
			// never subscribed
		default:
			s.logger.Warn("subscription lookup failed for user listing",
				zap.String("uid", p.UID), zap.Error(err))
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *adminService) ListNotifications(ctx context.Context) ([]*models.Notification, error) {
	notifications, err := s.notifications.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *adminService) CreateNotification(ctx context.Context, req models.NotificationRequest) (*models.Notification, error) {
	n := &models.Notification{
		Title: req.Title,
		Body:  req.Body,
		Image: req.Image,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

func (s *adminService) UpdateNotification(ctx context.Context, req models.NotificationRequest) (*models.Notification, error) {
	n := &models.Notification{
		ID:    req.ID,
		Title: req.Title,
		Body:  req.Body,
		Image: req.Image,
	}
	if err := s.notifications.Update(ctx, n); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	return n, nil
}

func (s *adminService) DeleteNotification(ctx context.Context, id uint) error {
	if err := s.notifications.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *adminService) Upload(ctx context.Context, req models.UploadRequest) (string, error) {
	data, err := base64.StdEncoding.DecodeString(req.Base64)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	url, err := s.files.Upload(ctx, req.Bucket, req.Path, req.ContentType, data)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	s.logger.Info("file uploaded", zap.String("path", req.Path))
	return url, nil
}
