package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/db"
	"github.com/abordodesign/habitofit/internal/models"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyComment    = errors.New("comment body must not be empty")
	ErrForbidden       = errors.New("operation not allowed for this user")
)

type commentService struct {
	comments db.CommentRepository
	catalog  db.CatalogRepository
	logger   *zap.Logger
}

func NewCommentService(comments db.CommentRepository, catalog db.CatalogRepository, logger *zap.Logger) CommentService {
	return &commentService{comments: comments, catalog: catalog, logger: logger}
}

func (s *commentService) ListByEpisode(ctx context.Context, episodeID uint) ([]*models.Comment, error) {
	comments, err := s.comments.ListByEpisode(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *commentService) Create(ctx context.Context, episodeID uint, author, body string, rating *int) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyComment
	}
	if rating != nil && (*rating < minScore || *rating > maxScore) {
		return nil, ErrInvalidScore
	}
	if _, err := s.catalog.GetEpisode(ctx, episodeID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEpisodeNotFound
		}
		return nil, fmt.Errorf("failed to load episode: %w", err)
	}
	comment := &models.Comment{
		EpisodeID: episodeID,
		Author:    author,
		Body:      body,
		Rating:    rating,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, id uint, requester string, isAdmin bool) error {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if !isAdmin && comment.Author != requester {
		return ErrForbidden
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	s.logger.Info("comment deleted", zap.Uint("id", id), zap.String("by", requester))
	return nil
}
