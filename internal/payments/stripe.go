// Package payments wraps the Stripe API behind domain types so the billing
// service (and its tests) never touch provider structs directly.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/abordodesign/habitofit/internal/models"
)

var (
	// ErrCustomerMissing is returned when the provider has no (live)
	// customer for the given ID or email.
	ErrCustomerMissing = errors.New("stripe customer missing")
	// ErrInvalidSignature is returned when a webhook payload fails
	// signature verification.
	ErrInvalidSignature = errors.New("stripe webhook signature verification failed")
)

// StripeClient talks to Stripe with an injected API client. One instance is
// constructed at process start; nothing here relies on the package-level
// stripe.Key.
type StripeClient struct {
	api           *client.API
	webhookSecret string
}

// NewStripeClient creates a StripeClient.
func NewStripeClient(secretKey, webhookSecret string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, webhookSecret: webhookSecret}
}

func isResourceMissing(err error) bool {
	var stripeErr *stripe.Error
	return errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing
}

func toCustomer(c *stripe.Customer) *models.ProviderCustomer {
	return &models.ProviderCustomer{
		ID:       c.ID,
		Email:    c.Email,
		Livemode: c.Livemode,
	}
}

func toCard(pm *stripe.PaymentMethod) *models.Card {
	if pm == nil || pm.Card == nil {
		return nil
	}
	return &models.Card{
		Brand:    string(pm.Card.Brand),
		Last4:    pm.Card.Last4,
		ExpMonth: pm.Card.ExpMonth,
		ExpYear:  pm.Card.ExpYear,
	}
}

// GetCustomer retrieves a customer by provider ID. A deleted or unknown
// customer yields ErrCustomerMissing.
func (s *StripeClient) GetCustomer(ctx context.Context, customerID string) (*models.ProviderCustomer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	c, err := s.api.Customers.Get(customerID, params)
	if err != nil {
		if isResourceMissing(err) {
			return nil, fmt.Errorf("customer '%s': %w", customerID, ErrCustomerMissing)
		}
		return nil, fmt.Errorf("failed to retrieve customer '%s': %w", customerID, err)
	}
	if c.Deleted {
		return nil, fmt.Errorf("customer '%s' is deleted: %w", customerID, ErrCustomerMissing)
	}
	return toCustomer(c), nil
}

// FindCustomerByEmail returns the first customer matching the email.
func (s *StripeClient) FindCustomerByEmail(ctx context.Context, email string) (*models.ProviderCustomer, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := s.api.Customers.List(params)
	for iter.Next() {
		c := iter.Customer()
		if c.Deleted {
			continue
		}
		return toCustomer(c), nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to search customers by email: %w", err)
	}
	return nil, fmt.Errorf("no customer with email '%s': %w", email, ErrCustomerMissing)
}

// LatestSubscription returns the customer's most recent subscription with
// its default and latest-invoice payment-method cards expanded, or
// (nil, nil) when the customer has never subscribed.
func (s *StripeClient) LatestSubscription(ctx context.Context, customerID string) (*models.ProviderSubscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	params.AddExpand("data.default_payment_method")
	params.AddExpand("data.latest_invoice.payment_intent.payment_method")

	iter := s.api.Subscriptions.List(params)
	for iter.Next() {
		sub := iter.Subscription()
		out := &models.ProviderSubscription{
			ID:               sub.ID,
			Status:           string(sub.Status),
			CurrentPeriodEnd: sub.CurrentPeriodEnd,
			DefaultCard:      toCard(sub.DefaultPaymentMethod),
		}
		if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
			out.InvoiceCard = toCard(sub.LatestInvoice.PaymentIntent.PaymentMethod)
		}
		return out, nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for customer '%s': %w", customerID, err)
	}
	return nil, nil
}

// FirstCard returns the first card in the customer's generic payment-method
// list, or (nil, nil) when they have none.
func (s *StripeClient) FirstCard(ctx context.Context, customerID string) (*models.Card, error) {
	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := s.api.PaymentMethods.List(params)
	for iter.Next() {
		if card := toCard(iter.PaymentMethod()); card != nil {
			return card, nil
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payment methods for customer '%s': %w", customerID, err)
	}
	return nil, nil
}

// NewCheckoutSession creates a hosted checkout session in subscription mode
// and returns its URL. The user ID travels in both client_reference_id and
// metadata so the completion webhook can link the customer either way.
func (s *StripeClient) NewCheckoutSession(ctx context.Context, p models.CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail:     stripe.String(p.Email),
		ClientReferenceID: stripe.String(p.UserID),
		SuccessURL:        stripe.String(p.SuccessURL),
		CancelURL:         stripe.String(p.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata("userId", p.UserID)

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session.URL, nil
}

// NewPortalSession creates a billing-portal session and returns its URL.
func (s *StripeClient) NewPortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	session, err := s.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create billing portal session: %w", err)
	}
	return session.URL, nil
}

// ParseWebhookEvent verifies the payload signature and decodes the event
// into domain form. Event types the system does not act on come back with
// only Type set; callers acknowledge and ignore them.
func (s *StripeClient) ParseWebhookEvent(payload []byte, signature string) (*models.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &models.PaymentEvent{Type: string(event.Type)}

	switch out.Type {
	case models.EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session payload: %w", err)
		}
		userID := session.ClientReferenceID
		if userID == "" {
			userID = session.Metadata["userId"]
		}
		checkout := &models.CheckoutCompleted{
			SessionID: session.ID,
			UserID:    userID,
			Created:   session.Created,
		}
		if session.Customer != nil {
			checkout.CustomerID = session.Customer.ID
		}
		if session.CustomerDetails != nil {
			checkout.Email = session.CustomerDetails.Email
		}
		out.Checkout = checkout

	case models.EventSubscriptionCreated, models.EventSubscriptionUpdated:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("failed to decode subscription payload: %w", err)
		}
		changed := &models.SubscriptionChanged{
			SubscriptionID:    sub.ID,
			Status:            string(sub.Status),
			CurrentPeriodEnd:  sub.CurrentPeriodEnd,
			CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
			Created:           sub.Created,
		}
		if sub.Customer != nil {
			changed.CustomerID = sub.Customer.ID
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			changed.PriceID = sub.Items.Data[0].Price.ID
		}
		out.Subscription = changed

	case models.EventPaymentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent payload: %w", err)
		}
		payment := &models.PaymentSucceeded{
			PaymentIntentID: intent.ID,
			Amount:          intent.Amount,
			Currency:        string(intent.Currency),
			Created:         intent.Created,
		}
		if intent.Customer != nil {
			payment.CustomerID = intent.Customer.ID
		}
		out.Payment = payment
	}

	return out, nil
}
