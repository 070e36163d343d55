package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/abordodesign/habitofit/internal/models"
)

const favoritesCollection = "favorites"

// firestoreFavoriteRepository implements FavoriteRepository using Firestore.
// Documents are keyed {userID}_{seriesID}, so repeated adds collapse into a
// single row.
type firestoreFavoriteRepository struct {
	client *firestore.Client
}

// NewFirestoreFavoriteRepository creates a new firestoreFavoriteRepository.
func NewFirestoreFavoriteRepository(client *firestore.Client) FavoriteRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for FavoriteRepository.")
	}
	return &firestoreFavoriteRepository{client: client}
}

// Set upserts the favorite row under its deterministic document ID.
func (r *firestoreFavoriteRepository) Set(ctx context.Context, fav *models.Favorite) error {
	if fav == nil || fav.UserID == "" || fav.SeriesID == "" {
		return errors.New("userID and seriesID are required for Set operation")
	}
	docID := models.FavoriteDocID(fav.UserID, fav.SeriesID)
	_, err := r.client.Collection(favoritesCollection).Doc(docID).Set(ctx, fav)
	if err != nil {
		return fmt.Errorf("failed to set favorite '%s': %w", docID, err)
	}
	return nil
}

// Delete removes the favorite row. Deleting an absent row is not an error.
func (r *firestoreFavoriteRepository) Delete(ctx context.Context, userID, seriesID string) error {
	if userID == "" || seriesID == "" {
		return errors.New("userID and seriesID are required for Delete operation")
	}
	docID := models.FavoriteDocID(userID, seriesID)
	_, err := r.client.Collection(favoritesCollection).Doc(docID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete favorite '%s': %w", docID, err)
	}
	return nil
}

// Exists reports whether the (user, series) pair is favorited.
func (r *firestoreFavoriteRepository) Exists(ctx context.Context, userID, seriesID string) (bool, error) {
	if userID == "" || seriesID == "" {
		return false, errors.New("userID and seriesID are required for Exists operation")
	}
	docID := models.FavoriteDocID(userID, seriesID)
	_, err := r.client.Collection(favoritesCollection).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to get favorite '%s': %w", docID, err)
	}
	return true, nil
}

// ListByUser returns all favorite rows for a user, snapshots included.
func (r *firestoreFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*models.Favorite, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListByUser operation")
	}

	iter := r.client.Collection(favoritesCollection).Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	var favs []*models.Favorite
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate favorites for user '%s': %w", userID, err)
		}

		var fav models.Favorite
		if err := doc.DataTo(&fav); err != nil {
			// Log and skip problematic document rather than failing the list.
			log.Printf("Error decoding favorite (ID: %s) for user '%s': %v. Skipping.", doc.Ref.ID, userID, err)
			continue
		}
		favs = append(favs, &fav)
	}

	return favs, nil
}
