package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/abordodesign/habitofit/internal/models"
)

const (
	customersCollection        = "customers"
	subscriptionsCollection    = "subscriptions"
	checkoutSessionsCollection = "checkout_sessions"
	paymentsCollection         = "payments"
)

// firestoreCustomerRepository implements CustomerRepository using Firestore.
type firestoreCustomerRepository struct {
	client *firestore.Client
}

// NewFirestoreCustomerRepository creates a new firestoreCustomerRepository.
func NewFirestoreCustomerRepository(client *firestore.Client) CustomerRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for CustomerRepository.")
	}
	return &firestoreCustomerRepository{client: client}
}

// Get retrieves the payment linkage document for a user.
func (r *firestoreCustomerRepository) Get(ctx context.Context, uid string) (*models.Customer, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for Get operation")
	}
	docSnap, err := r.client.Collection(customersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("customer for user '%s' not found: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer for user '%s': %w", uid, err)
	}

	var customer models.Customer
	if err := docSnap.DataTo(&customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer data for user '%s': %w", uid, err)
	}
	customer.UID = docSnap.Ref.ID

	return &customer, nil
}

// Set merges the linkage document so partial self-heal writes never clobber
// fields written by the checkout webhook (or vice versa).
func (r *firestoreCustomerRepository) Set(ctx context.Context, customer *models.Customer) error {
	if customer == nil || customer.UID == "" {
		return errors.New("customer UID cannot be empty for Set operation")
	}
	_, err := r.client.Collection(customersCollection).Doc(customer.UID).Set(ctx, map[string]interface{}{
		"email":      customer.Email,
		"stripeId":   customer.StripeID,
		"stripeLink": customer.StripeLink,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to set customer for user '%s': %w", customer.UID, err)
	}
	return nil
}

// FindUIDByStripeID resolves which user owns a Stripe customer ID.
func (r *firestoreCustomerRepository) FindUIDByStripeID(ctx context.Context, stripeID string) (string, error) {
	if stripeID == "" {
		return "", errors.New("stripeID cannot be empty for FindUIDByStripeID operation")
	}

	iter := r.client.Collection(customersCollection).Where("stripeId", "==", stripeID).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return "", fmt.Errorf("no customer with stripeId '%s': %w", stripeID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query customer by stripeId '%s': %w", stripeID, err)
	}
	return doc.Ref.ID, nil
}

// LatestSubscription returns the user's most recent subscription document.
func (r *firestoreCustomerRepository) LatestSubscription(ctx context.Context, uid string) (*models.Subscription, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for LatestSubscription operation")
	}

	iter := r.client.Collection(customersCollection).Doc(uid).
		Collection(subscriptionsCollection).
		OrderBy("current_period_end", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("no subscriptions for user '%s': %w", uid, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions for user '%s': %w", uid, err)
	}

	var sub models.Subscription
	if err := doc.DataTo(&sub); err != nil {
		return nil, fmt.Errorf("failed to decode subscription (ID: %s) for user '%s': %w", doc.Ref.ID, uid, err)
	}
	sub.ID = doc.Ref.ID

	return &sub, nil
}

// SaveSubscription upserts a subscription document keyed by the provider's
// subscription ID.
func (r *firestoreCustomerRepository) SaveSubscription(ctx context.Context, uid string, sub *models.Subscription) error {
	if uid == "" || sub == nil || sub.ID == "" {
		return errors.New("uid and subscription ID are required for SaveSubscription operation")
	}
	_, err := r.client.Collection(customersCollection).Doc(uid).
		Collection(subscriptionsCollection).Doc(sub.ID).
		Set(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to save subscription '%s' for user '%s': %w", sub.ID, uid, err)
	}
	return nil
}

// SaveCheckoutSession records a completed hosted-checkout session.
func (r *firestoreCustomerRepository) SaveCheckoutSession(ctx context.Context, uid, sessionID string, created int64) error {
	if uid == "" || sessionID == "" {
		return errors.New("uid and sessionID are required for SaveCheckoutSession operation")
	}
	_, err := r.client.Collection(customersCollection).Doc(uid).
		Collection(checkoutSessionsCollection).Doc(sessionID).
		Set(ctx, map[string]interface{}{
			"created": time.Unix(created, 0).UTC(),
		})
	if err != nil {
		return fmt.Errorf("failed to save checkout session '%s' for user '%s': %w", sessionID, uid, err)
	}
	return nil
}

// SavePayment records a settled payment intent.
func (r *firestoreCustomerRepository) SavePayment(ctx context.Context, uid string, payment *models.PaymentSucceeded) error {
	if uid == "" || payment == nil || payment.PaymentIntentID == "" {
		return errors.New("uid and payment intent ID are required for SavePayment operation")
	}
	_, err := r.client.Collection(customersCollection).Doc(uid).
		Collection(paymentsCollection).Doc(payment.PaymentIntentID).
		Set(ctx, map[string]interface{}{
			"amount":   payment.Amount,
			"currency": payment.Currency,
			"created":  time.Unix(payment.Created, 0).UTC(),
		})
	if err != nil {
		return fmt.Errorf("failed to save payment '%s' for user '%s': %w", payment.PaymentIntentID, uid, err)
	}
	return nil
}
