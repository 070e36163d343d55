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

const (
	adminsCollection = "admins"
	usersCollection  = "users"
)

// firestoreAdminRepository implements AdminRepository using Firestore.
type firestoreAdminRepository struct {
	client *firestore.Client
}

// NewFirestoreAdminRepository creates a new firestoreAdminRepository.
func NewFirestoreAdminRepository(client *firestore.Client) AdminRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for AdminRepository.")
	}
	return &firestoreAdminRepository{client: client}
}

// GetRole retrieves the staff role record for a user. A missing document
// means the user is not staff.
func (r *firestoreAdminRepository) GetRole(ctx context.Context, uid string) (*models.AdminRole, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for GetRole operation")
	}
	docSnap, err := r.client.Collection(adminsCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("admin record for user '%s' not found: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin record for user '%s': %w", uid, err)
	}

	var role models.AdminRole
	if err := docSnap.DataTo(&role); err != nil {
		return nil, fmt.Errorf("failed to decode admin record for user '%s': %w", uid, err)
	}
	if role.Role == "" {
		role.Role = "viewer"
	}
	return &role, nil
}

// ListProfiles returns every user profile document.
func (r *firestoreAdminRepository) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	iter := r.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	var profiles []*models.Profile
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate user profiles: %w", err)
		}

		var profile models.Profile
		if err := doc.DataTo(&profile); err != nil {
			log.Printf("Error decoding user profile (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		profile.UID = doc.Ref.ID
		profiles = append(profiles, &profile)
	}

	return profiles, nil
}
