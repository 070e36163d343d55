package core

import (
	"context"

	"github.com/abordodesign/habitofit/internal/models"
)

// SubscriptionService answers whether a user may watch gated content.
type SubscriptionService interface {
	// HasAccess is the subscription gate: it fails closed, returning false
	// on any lookup error.
	HasAccess(ctx context.Context, uid string) bool
	// Status returns the raw provider status of the latest subscription and
	// its display label ("" when the user has no subscription records).
	Status(ctx context.Context, uid string) (status string, label string, err error)
}

// BillingService fronts the payment provider: checkout/portal session
// creation, the consolidated payment summary, customer linking, and webhook
// processing.
type BillingService interface {
	Summary(ctx context.Context, uid, tokenEmail string) (*models.PaymentSummary, error)
	LinkCustomer(ctx context.Context, uid, email string) (*models.Customer, error)
	CreateCheckoutSession(ctx context.Context, uid, email, priceID, baseURL string) (string, error)
	CreatePortalSession(ctx context.Context, uid, returnURL string) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// FavoritesService maintains the user→series bookmark relation and its
// advisory read cache. Series IDs are handled as strings end to end; the
// catalog lookup parses them.
type FavoritesService interface {
	Add(ctx context.Context, userID, seriesID string) error
	Remove(ctx context.Context, userID, seriesID string) error
	IsFavorite(ctx context.Context, userID, seriesID string) (bool, error)
	List(ctx context.Context, userID string) ([]*models.Favorite, error)
}

// RatingService stores per-user scores and computes per-item means.
type RatingService interface {
	Rate(ctx context.Context, userID, itemID, itemType string, score int) error
	// Average returns 0 when the item has no ratings; callers treat 0 as
	// "no data" (scores are 1–5, so a true zero mean cannot occur).
	Average(ctx context.Context, itemID, itemType string) (float64, error)
	// UserScore returns nil when the user has not rated the item.
	UserScore(ctx context.Context, userID, itemID, itemType string) (*int, error)
}

// CatalogService exposes the series/episode catalog, including the staff
// CRUD surface.
type CatalogService interface {
	ListSeries(ctx context.Context) ([]*models.Series, error)
	GetSeries(ctx context.Context, id uint) (*models.Series, error)
	ListEpisodes(ctx context.Context, seriesID uint) ([]*models.Episode, error)

	CreateSeries(ctx context.Context, req models.CreateSeriesRequest) (*models.Series, error)
	UpdateSeries(ctx context.Context, id uint, req models.UpdateSeriesRequest) (*models.Series, error)
	DeleteSeries(ctx context.Context, id uint) error
	CreateEpisode(ctx context.Context, req models.CreateEpisodeRequest) (*models.Episode, error)
	UpdateEpisode(ctx context.Context, id uint, req models.UpdateEpisodeRequest) (*models.Episode, error)
	DeleteEpisode(ctx context.Context, id uint) error
}

// CommentService manages episode comments.
type CommentService interface {
	ListByEpisode(ctx context.Context, episodeID uint) ([]*models.Comment, error)
	// Create posts a comment; rating, when present, must be a valid score.
	Create(ctx context.Context, episodeID uint, author, body string, rating *int) (*models.Comment, error)
	// Delete removes a comment; non-admins may only delete their own.
	Delete(ctx context.Context, id uint, requester string, isAdmin bool) error
}

// AdminService covers the staff panel: role checks, the subscriber
// listing, notification CRUD and content upload.
type AdminService interface {
	// Role returns (role, true) for staff, ("", false) otherwise.
	Role(ctx context.Context, uid string) (string, bool, error)
	ListUsers(ctx context.Context) ([]*models.AdminUser, error)

	ListNotifications(ctx context.Context) ([]*models.Notification, error)
	CreateNotification(ctx context.Context, req models.NotificationRequest) (*models.Notification, error)
	UpdateNotification(ctx context.Context, req models.NotificationRequest) (*models.Notification, error)
	DeleteNotification(ctx context.Context, id uint) error

	Upload(ctx context.Context, req models.UploadRequest) (publicURL string, err error)
}

// PaymentProvider is the slice of the payment processor's API the billing
// service consumes. Implemented by payments.StripeClient; tests substitute
// an in-memory fake.
type PaymentProvider interface {
	GetCustomer(ctx context.Context, customerID string) (*models.ProviderCustomer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*models.ProviderCustomer, error)
	// LatestSubscription returns (nil, nil) when the customer has never
	// subscribed.
	LatestSubscription(ctx context.Context, customerID string) (*models.ProviderSubscription, error)
	// FirstCard returns (nil, nil) when the customer has no saved cards.
	FirstCard(ctx context.Context, customerID string) (*models.Card, error)
	NewCheckoutSession(ctx context.Context, p models.CheckoutParams) (string, error)
	NewPortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	ParseWebhookEvent(payload []byte, signature string) (*models.PaymentEvent, error)
}
