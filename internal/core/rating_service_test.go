package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/models"
)

func newRatingFixture() (*fakeRatingRepo, *fakeCatalogRepo, RatingService) {
	ratings := newFakeRatingRepo()
	catalog := newFakeCatalogRepo()
	svc := NewRatingService(ratings, catalog, zap.NewNop())
	return ratings, catalog, svc
}

func TestRate_ScoreValidation(t *testing.T) {
	_, _, svc := newRatingFixture()
	for _, score := range []int{0, -1, 6, 100} {
		err := svc.Rate(context.Background(), "u1", "1", models.ItemTypeSeries, score)
		if !errors.Is(err, ErrInvalidScore) {
			t.Errorf("Rate with score %d: expected ErrInvalidScore, got %v", score, err)
		}
	}
}

func TestRate_ItemTypeValidation(t *testing.T) {
	_, _, svc := newRatingFixture()
	err := svc.Rate(context.Background(), "u1", "1", "movie", 3)
	if !errors.Is(err, ErrInvalidItemType) {
		t.Errorf("expected ErrInvalidItemType, got %v", err)
	}
}

func TestAverage_EmptyIsZero(t *testing.T) {
	_, _, svc := newRatingFixture()
	avg, err := svc.Average(context.Background(), "1", models.ItemTypeSeries)
	if err != nil {
		t.Fatalf("Average returned error: %v", err)
	}
	if avg != 0 {
		t.Errorf("Average of unrated item = %v, want 0", avg)
	}
}

func TestAverage_Mean(t *testing.T) {
	_, catalog, svc := newRatingFixture()
	catalog.series[1] = &models.Series{ID: 1}

	if err := svc.Rate(context.Background(), "u1", "1", models.ItemTypeSeries, 3); err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if err := svc.Rate(context.Background(), "u2", "1", models.ItemTypeSeries, 5); err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}

	avg, err := svc.Average(context.Background(), "1", models.ItemTypeSeries)
	if err != nil {
		t.Fatalf("Average returned error: %v", err)
	}
	if avg != 4.0 {
		t.Errorf("Average = %v, want 4.0", avg)
	}
}

func TestRate_ReplacesPreviousScore(t *testing.T) {
	ratings, catalog, svc := newRatingFixture()
	catalog.series[1] = &models.Series{ID: 1}

	if err := svc.Rate(context.Background(), "u1", "1", models.ItemTypeSeries, 2); err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if err := svc.Rate(context.Background(), "u1", "1", models.ItemTypeSeries, 5); err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}

	if len(ratings.docs) != 1 {
		t.Errorf("expected one rating document per (user,item), got %d", len(ratings.docs))
	}
	avg, _ := svc.Average(context.Background(), "1", models.ItemTypeSeries)
	if avg != 5.0 {
		t.Errorf("Average after re-rate = %v, want 5.0", avg)
	}
}

func TestRate_SeriesRefreshesCachedRating(t *testing.T) {
	_, catalog, svc := newRatingFixture()
	catalog.series[1] = &models.Series{ID: 1}

	if err := svc.Rate(context.Background(), "u1", "1", models.ItemTypeSeries, 3); err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if err := svc.Rate(context.Background(), "u2", "1", models.ItemTypeSeries, 4); err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}

	if got := catalog.ratingUpdates[1]; got != 3.5 {
		t.Errorf("cached series rating = %v, want 3.5", got)
	}
}

func TestRate_EpisodeRefreshesCachedRating(t *testing.T) {
	_, catalog, svc := newRatingFixture()
	catalog.episodes[10] = &models.Episode{ID: 10, SeriesID: 1}

	if err := svc.Rate(context.Background(), "u1", "10", models.ItemTypeEpisode, 4); err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if err := svc.Rate(context.Background(), "u2", "10", models.ItemTypeEpisode, 3); err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}

	if got := catalog.episodeRatingUpdates[10]; got != 3.5 {
		t.Errorf("cached episode rating = %v, want 3.5", got)
	}
	if len(catalog.ratingUpdates) != 0 {
		t.Errorf("episode ratings must not rewrite series columns, got %+v", catalog.ratingUpdates)
	}
}

func TestUserScore(t *testing.T) {
	_, catalog, svc := newRatingFixture()
	catalog.series[1] = &models.Series{ID: 1}

	score, err := svc.UserScore(context.Background(), "u1", "1", models.ItemTypeSeries)
	if err != nil {
		t.Fatalf("UserScore returned error: %v", err)
	}
	if score != nil {
		t.Errorf("expected nil score before rating, got %v", *score)
	}

	if err := svc.Rate(context.Background(), "u1", "1", models.ItemTypeSeries, 4); err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	score, err = svc.UserScore(context.Background(), "u1", "1", models.ItemTypeSeries)
	if err != nil {
		t.Fatalf("UserScore returned error: %v", err)
	}
	if score == nil || *score != 4 {
		t.Errorf("UserScore = %v, want 4", score)
	}

	// Ratings are keyed per item type: the series score must not leak into
	// the episode namespace.
	score, err = svc.UserScore(context.Background(), "u1", "1", models.ItemTypeEpisode)
	if err != nil {
		t.Fatalf("UserScore returned error: %v", err)
	}
	if score != nil {
		t.Errorf("expected nil episode score, got %v", *score)
	}
}
