package db

import (
	"context"
	"errors"

	"github.com/abordodesign/habitofit/internal/models"
)

// ErrNotFound is returned by repositories when the requested record does
// not exist. Services translate it into their own sentinel errors.
var ErrNotFound = errors.New("record not found")

// CustomerRepository stores the Firebase-user → Stripe-customer linkage and
// the subscription/payment documents mirrored from webhook deliveries.
type CustomerRepository interface {
	Get(ctx context.Context, uid string) (*models.Customer, error)
	// Set merges the linkage document; absent fields are left untouched.
	Set(ctx context.Context, customer *models.Customer) error
	// FindUIDByStripeID resolves the Firebase UID owning the given Stripe
	// customer ID, for webhook events that only carry the latter.
	FindUIDByStripeID(ctx context.Context, stripeID string) (string, error)
	// LatestSubscription returns the user's most recent subscription
	// (highest current_period_end), or ErrNotFound when none exist.
	LatestSubscription(ctx context.Context, uid string) (*models.Subscription, error)
	SaveSubscription(ctx context.Context, uid string, sub *models.Subscription) error
	SaveCheckoutSession(ctx context.Context, uid, sessionID string, created int64) error
	SavePayment(ctx context.Context, uid string, payment *models.PaymentSucceeded) error
}

// FavoriteRepository stores user→series bookmarks under deterministic
// document IDs, making writes idempotent.
type FavoriteRepository interface {
	Set(ctx context.Context, fav *models.Favorite) error
	Delete(ctx context.Context, userID, seriesID string) error
	Exists(ctx context.Context, userID, seriesID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Favorite, error)
}

// RatingRepository stores one rating per (user, item, type) tuple.
type RatingRepository interface {
	Save(ctx context.Context, rating *models.Rating) error
	// Get returns ErrNotFound when the user has not rated the item.
	Get(ctx context.Context, userID, itemType, itemID string) (*models.Rating, error)
	ListByItem(ctx context.Context, itemType, itemID string) ([]*models.Rating, error)
}

// AdminRepository reads staff role records and user profile documents.
type AdminRepository interface {
	// GetRole returns ErrNotFound when the user is not an admin.
	GetRole(ctx context.Context, uid string) (*models.AdminRole, error)
	ListProfiles(ctx context.Context) ([]*models.Profile, error)
}

// CatalogRepository is the relational store for series and episodes.
type CatalogRepository interface {
	ListSeries(ctx context.Context) ([]*models.Series, error)
	GetSeries(ctx context.Context, id uint) (*models.Series, error)
	CreateSeries(ctx context.Context, s *models.Series) error
	UpdateSeries(ctx context.Context, s *models.Series) error
	DeleteSeries(ctx context.Context, id uint) error
	// UpdateSeriesRating and UpdateEpisodeRating refresh the cached
	// aggregate rating columns.
	UpdateSeriesRating(ctx context.Context, id uint, rating float64) error
	UpdateEpisodeRating(ctx context.Context, id uint, rating float64) error

	ListEpisodes(ctx context.Context, seriesID uint) ([]*models.Episode, error)
	GetEpisode(ctx context.Context, id uint) (*models.Episode, error)
	CreateEpisode(ctx context.Context, e *models.Episode) error
	UpdateEpisode(ctx context.Context, e *models.Episode) error
	DeleteEpisode(ctx context.Context, id uint) error
}

// CommentRepository stores episode comments.
type CommentRepository interface {
	ListByEpisode(ctx context.Context, episodeID uint) ([]*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) error
	Get(ctx context.Context, id uint) (*models.Comment, error)
	Delete(ctx context.Context, id uint) error
}

// NotificationRepository stores staff notifications.
type NotificationRepository interface {
	List(ctx context.Context) ([]*models.Notification, error)
	Create(ctx context.Context, n *models.Notification) error
	Update(ctx context.Context, n *models.Notification) error
	Delete(ctx context.Context, id uint) error
}

// FavoritesCache is the advisory per-user favorites read cache. It is never
// authoritative: callers fall back to the remote store on any miss or
// decode failure, and cache errors must not fail the calling operation.
type FavoritesCache interface {
	Get(ctx context.Context, userID string) ([]*models.Favorite, error)
	Put(ctx context.Context, userID string, favs []*models.Favorite) error
}

// FileStore writes uploaded admin content (covers, handouts) to object
// storage and returns a public URL.
type FileStore interface {
	Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error)
}
