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

const ratingsCollection = "ratings"

// firestoreRatingRepository implements RatingRepository using Firestore.
// Documents are keyed {userID}_{itemType}_{itemID}: one row per tuple,
// last write wins.
type firestoreRatingRepository struct {
	client *firestore.Client
}

// NewFirestoreRatingRepository creates a new firestoreRatingRepository.
func NewFirestoreRatingRepository(client *firestore.Client) RatingRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for RatingRepository.")
	}
	return &firestoreRatingRepository{client: client}
}

// Save upserts the rating row under its deterministic document ID.
func (r *firestoreRatingRepository) Save(ctx context.Context, rating *models.Rating) error {
	if rating == nil || rating.UserID == "" || rating.ItemID == "" || rating.ItemType == "" {
		return errors.New("userID, itemID and itemType are required for Save operation")
	}
	docID := models.RatingDocID(rating.UserID, rating.ItemType, rating.ItemID)
	_, err := r.client.Collection(ratingsCollection).Doc(docID).Set(ctx, rating)
	if err != nil {
		return fmt.Errorf("failed to save rating '%s': %w", docID, err)
	}
	return nil
}

// Get retrieves one user's rating for an item.
func (r *firestoreRatingRepository) Get(ctx context.Context, userID, itemType, itemID string) (*models.Rating, error) {
	if userID == "" || itemID == "" || itemType == "" {
		return nil, errors.New("userID, itemID and itemType are required for Get operation")
	}
	docID := models.RatingDocID(userID, itemType, itemID)
	docSnap, err := r.client.Collection(ratingsCollection).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("rating '%s' not found: %w", docID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get rating '%s': %w", docID, err)
	}

	var rating models.Rating
	if err := docSnap.DataTo(&rating); err != nil {
		return nil, fmt.Errorf("failed to decode rating '%s': %w", docID, err)
	}
	return &rating, nil
}

// ListByItem returns every rating row for an item. Reads recompute the mean
// from the full row set; per-item counts stay small enough that no
// aggregate is maintained.
func (r *firestoreRatingRepository) ListByItem(ctx context.Context, itemType, itemID string) ([]*models.Rating, error) {
	if itemID == "" || itemType == "" {
		return nil, errors.New("itemID and itemType are required for ListByItem operation")
	}

	iter := r.client.Collection(ratingsCollection).
		Where("itemId", "==", itemID).
		Where("itemType", "==", itemType).
		Documents(ctx)
	defer iter.Stop()

	var ratings []*models.Rating
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate ratings for item '%s/%s': %w", itemType, itemID, err)
		}

		var rating models.Rating
		if err := doc.DataTo(&rating); err != nil {
			log.Printf("Error decoding rating (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		ratings = append(ratings, &rating)
	}

	return ratings, nil
}
