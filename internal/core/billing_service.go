package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/db"
	"github.com/abordodesign/habitofit/internal/models"
	"github.com/abordodesign/habitofit/internal/payments"
)

var (
	ErrCustomerNotFound  = errors.New("no payment customer found for user")
	ErrWebhookSignature  = errors.New("webhook signature verification failed")
	ErrWebhookProcessing = errors.New("webhook event missing required fields")
)

const renewalDateLayout = "02/01/2006"

type billingService struct {
	provider  PaymentProvider
	customers db.CustomerRepository
	clientURL string
	logger    *zap.Logger
}

func NewBillingService(provider PaymentProvider, customers db.CustomerRepository, clientURL string, logger *zap.Logger) BillingService {
	return &billingService{
		provider:  provider,
		customers: customers,
		clientURL: clientURL,
		logger:    logger,
	}
}

// dashboardLink builds the provider dashboard deep link stored alongside
// the customer record for staff use.
func dashboardLink(customerID string, livemode bool) string {
	if livemode {
		return fmt.Sprintf("https://dashboard.stripe.com/customers/%s", customerID)
	}
	return fmt.Sprintf("https://dashboard.stripe.com/test/customers/%s", customerID)
}

// resolveCustomer finds the provider customer for a user. The stored
// provider ID wins when it still exists; a stale or absent ID falls back
// to an email search.
func (s *billingService) resolveCustomer(ctx context.Context, storedID, email string) (*models.ProviderCustomer, error) {
	if storedID != "" {
		cust, err := s.provider.GetCustomer(ctx, storedID)
		if err == nil {
			return cust, nil
		}
		if !errors.Is(err, payments.ErrCustomerMissing) {
			return nil, fmt.Errorf("failed to retrieve payment customer: %w", err)
		}
		s.logger.Warn("stored payment customer no longer exists, falling back to email search",
			zap.String("customerId", storedID))
	}
	if email == "" {
		return nil, ErrCustomerNotFound
	}
	cust, err := s.provider.FindCustomerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, payments.ErrCustomerMissing) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to search payment customer by email: %w", err)
	}
	return cust, nil
}

// heal rewrites the stored customer record when resolution produced a
// different provider customer than the one on file. Failures are logged
// and swallowed: the summary must not break because the repair write did.
func (s *billingService) heal(ctx context.Context, uid, email string, cust *models.ProviderCustomer) {
	custEmail := cust.Email
	if custEmail == "" {
		custEmail = email
	}
	err := s.customers.Set(ctx, &models.Customer{
		UID:        uid,
		Email:      custEmail,
		StripeID:   cust.ID,
		StripeLink: dashboardLink(cust.ID, cust.Livemode),
	})
	if err != nil {
		s.logger.Warn("failed to persist repaired customer linkage",
			zap.String("uid", uid), zap.Error(err))
	}
}

func (s *billingService) Summary(ctx context.Context, uid, tokenEmail string) (*models.PaymentSummary, error) {
	var storedID, storedEmail string
	stored, err := s.customers.Get(ctx, uid)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to load customer record: %w", err)
	}
	if stored != nil {
		storedID = stored.StripeID
		storedEmail = stored.Email
	}

	email := storedEmail
	if email == "" {
		email = tokenEmail
	}

	cust, err := s.resolveCustomer(ctx, storedID, email)
	if err != nil {
		return nil, err
	}
	if cust.ID != storedID {
		s.heal(ctx, uid, email, cust)
	}

	sub, err := s.provider.LatestSubscription(ctx, cust.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider subscription: %w", err)
	}

	summary := &models.PaymentSummary{Email: cust.Email}
	if summary.Email == "" {
		summary.Email = email
	}

	var status string
	if sub != nil {
		status = sub.Status
		if sub.CurrentPeriodEnd > 0 {
			summary.RenewalDate = time.Unix(sub.CurrentPeriodEnd, 0).UTC().Format(renewalDateLayout)
		}
		if sub.DefaultCard != nil {
			summary.Card = sub.DefaultCard
		} else if sub.InvoiceCard != nil {
			summary.Card = sub.InvoiceCard
		}
	}
	if summary.Card == nil {
		card, err := s.provider.FirstCard(ctx, cust.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list payment methods: %w", err)
		}
		summary.Card = card
	}

	summary.Status = status
	summary.StatusLabel = StatusLabel(status)
	return summary, nil
}

func (s *billingService) LinkCustomer(ctx context.Context, uid, email string) (*models.Customer, error) {
	stored, err := s.customers.Get(ctx, uid)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to load customer record: %w", err)
	}
	var storedID string
	if stored != nil {
		storedID = stored.StripeID
	}

	cust, err := s.resolveCustomer(ctx, storedID, email)
	if err != nil {
		return nil, err
	}

	custEmail := cust.Email
	if custEmail == "" {
		custEmail = email
	}
	record := &models.Customer{
		UID:        uid,
		Email:      custEmail,
		StripeID:   cust.ID,
		StripeLink: dashboardLink(cust.ID, cust.Livemode),
	}
	if err := s.customers.Set(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist customer linkage: %w", err)
	}
	return record, nil
}

func (s *billingService) CreateCheckoutSession(ctx context.Context, uid, email, priceID, baseURL string) (string, error) {
	if baseURL == "" {
		baseURL = s.clientURL
	}
	url, err := s.provider.NewCheckoutSession(ctx, models.CheckoutParams{
		UserID:     uid,
		Email:      email,
		PriceID:    priceID,
		SuccessURL: baseURL + "/account?checkout=success",
		CancelURL:  baseURL + "/subscribe?checkout=canceled",
	})
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return url, nil
}

func (s *billingService) CreatePortalSession(ctx context.Context, uid, returnURL string) (string, error) {
	stored, err := s.customers.Get(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", ErrCustomerNotFound
		}
		return "", fmt.Errorf("failed to load customer record: %w", err)
	}
	if stored.StripeID == "" {
		return "", ErrCustomerNotFound
	}
	if returnURL == "" {
		returnURL = s.clientURL + "/account"
	}
	url, err := s.provider.NewPortalSession(ctx, stored.StripeID, returnURL)
	if err != nil {
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}
	return url, nil
}

func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhookEvent(payload, signature)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			return fmt.Errorf("%w: %v", ErrWebhookSignature, err)
		}
		return fmt.Errorf("failed to parse webhook event: %w", err)
	}

	switch event.Type {
	case models.EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, event.Checkout)
	case models.EventSubscriptionCreated, models.EventSubscriptionUpdated:
		return s.handleSubscriptionChanged(ctx, event.Subscription)
	case models.EventPaymentSucceeded:
		return s.handlePaymentSucceeded(ctx, event.Payment)
	default:
		s.logger.Debug("ignoring webhook event", zap.String("type", event.Type))
		return nil
	}
}

func (s *billingService) handleCheckoutCompleted(ctx context.Context, c *models.CheckoutCompleted) error {
	if c == nil || c.UserID == "" || c.CustomerID == "" {
		return fmt.Errorf("%w: checkout session without user or customer reference", ErrWebhookProcessing)
	}
	record := &models.Customer{
		UID:        c.UserID,
		Email:      c.Email,
		StripeID:   c.CustomerID,
		StripeLink: dashboardLink(c.CustomerID, true),
	}
	if err := s.customers.Set(ctx, record); err != nil {
		return fmt.Errorf("failed to persist customer from checkout: %w", err)
	}
	if err := s.customers.SaveCheckoutSession(ctx, c.UserID, c.SessionID, c.Created); err != nil {
		return fmt.Errorf("failed to persist checkout session: %w", err)
	}
	s.logger.Info("checkout completed",
		zap.String("uid", c.UserID), zap.String("customerId", c.CustomerID))
	return nil
}

func (s *billingService) handleSubscriptionChanged(ctx context.Context, sc *models.SubscriptionChanged) error {
	if sc == nil || sc.CustomerID == "" {
		return fmt.Errorf("%w: subscription event without customer reference", ErrWebhookProcessing)
	}
	uid, err := s.customers.FindUIDByStripeID(ctx, sc.CustomerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// The customer may complete checkout moments later; ack and let the
			// next subscription event land once the linkage exists.
			s.logger.Warn("subscription event for unlinked customer",
				zap.String("customerId", sc.CustomerID))
			return nil
		}
		return fmt.Errorf("failed to look up customer linkage: %w", err)
	}
	sub := &models.Subscription{
		ID:                sc.SubscriptionID,
		Status:            sc.Status,
		CurrentPeriodEnd:  time.Unix(sc.CurrentPeriodEnd, 0).UTC(),
		PriceID:           sc.PriceID,
		CancelAtPeriodEnd: sc.CancelAtPeriodEnd,
		Created:           time.Unix(sc.Created, 0).UTC(),
	}
	if err := s.customers.SaveSubscription(ctx, uid, sub); err != nil {
		return fmt.Errorf("failed to persist subscription: %w", err)
	}
	s.logger.Info("subscription updated",
		zap.String("uid", uid),
		zap.String("subscriptionId", sc.SubscriptionID),
		zap.String("status", sc.Status))
	return nil
}

func (s *billingService) handlePaymentSucceeded(ctx context.Context, p *models.PaymentSucceeded) error {
	if p == nil || p.CustomerID == "" {
		// Payment intents without a customer (one-off charges) carry nothing
		// to record against a user.
		return nil
	}
	uid, err := s.customers.FindUIDByStripeID(ctx, p.CustomerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Warn("payment event for unlinked customer",
				zap.String("customerId", p.CustomerID))
			return nil
		}
		return fmt.Errorf("failed to look up customer linkage: %w", err)
	}
	if err := s.customers.SavePayment(ctx, uid, p); err != nil {
		return fmt.Errorf("failed to persist payment: %w", err)
	}
	return nil
}
