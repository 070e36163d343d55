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

var (
	ErrInvalidScore    = errors.New("score must be between 1 and 5")
	ErrInvalidItemType = errors.New("item type must be series or episode")
)

const (
	minScore = 1
	maxScore = 5
)

type ratingService struct {
	ratings db.RatingRepository
	catalog db.CatalogRepository
	logger  *zap.Logger
}

func NewRatingService(ratings db.RatingRepository, catalog db.CatalogRepository, logger *zap.Logger) RatingService {
	return &ratingService{
		ratings: ratings,
		catalog: catalog,
		logger:  logger,
	}
}

func (s *ratingService) Rate(ctx context.Context, userID, itemID, itemType string, score int) error {
	if score < minScore || score > maxScore {
		return ErrInvalidScore
	}
	if !models.ValidItemType(itemType) {
		return ErrInvalidItemType
	}
	rating := &models.Rating{
		UserID:   userID,
		ItemID:   itemID,
		ItemType: itemType,
		Score:    score,
	}
	if err := s.ratings.Save(ctx, rating); err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	s.refreshItemRating(ctx, itemID, itemType)
	return nil
}

func (s *ratingService) Average(ctx context.Context, itemID, itemType string) (float64, error) {
	if !models.ValidItemType(itemType) {
		return 0, ErrInvalidItemType
	}
	ratings, err := s.ratings.ListByItem(ctx, itemType, itemID)
	if err != nil {
		return 0, fmt.Errorf("failed to list ratings: %w", err)
	}
	if len(ratings) == 0 {
		return 0, nil
	}
	var sum int
	for _, r := range ratings {
		sum += r.Score
	}
	return float64(sum) / float64(len(ratings)), nil
}

func (s *ratingService) UserScore(ctx context.Context, userID, itemID, itemType string) (*int, error) {
	if !models.ValidItemType(itemType) {
		return nil, ErrInvalidItemType
	}
	rating, err := s.ratings.Get(ctx, userID, itemType, itemID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load rating: %w", err)
	}
	score := rating.Score
	return &score, nil
}

// refreshItemRating recomputes the mean and writes it into the cached
// rating column of the rated series or episode. Best effort: the per-user
// rating is already stored, and the column is recomputed again on the next
// rating.
func (s *ratingService) refreshItemRating(ctx context.Context, itemID, itemType string) {
	id, err := strconv.ParseUint(itemID, 10, 64)
	if err != nil {
		s.logger.Warn("cannot refresh rating for malformed item id",
			zap.String("itemId", itemID), zap.String("itemType", itemType))
		return
	}
	avg, err := s.Average(ctx, itemID, itemType)
	if err != nil {
		s.logger.Warn("failed to recompute item rating",
			zap.String("itemId", itemID), zap.String("itemType", itemType), zap.Error(err))
		return
	}
	if itemType == models.ItemTypeEpisode {
		err = s.catalog.UpdateEpisodeRating(ctx, uint(id), avg)
	} else {
		err = s.catalog.UpdateSeriesRating(ctx, uint(id), avg)
	}
	if err != nil {
		s.logger.Warn("failed to store item rating",
			zap.String("itemId", itemID), zap.String("itemType", itemType), zap.Error(err))
	}
}
