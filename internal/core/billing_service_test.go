package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/models"
	"github.com/abordodesign/habitofit/internal/payments"
)

func newBillingFixture() (*fakeProvider, *fakeCustomerRepo, BillingService) {
	provider := newFakeProvider()
	repo := newFakeCustomerRepo()
	svc := NewBillingService(provider, repo, "https://app.example.com", zap.NewNop())
	return provider, repo, svc
}

func TestSummary_CardPrecedence(t *testing.T) {
	defaultCard := &models.Card{Brand: "visa", Last4: "1111"}
	invoiceCard := &models.Card{Brand: "visa", Last4: "2222"}
	listedCard := &models.Card{Brand: "visa", Last4: "3333"}

	tests := []struct {
		name        string
		defaultCard *models.Card
		invoiceCard *models.Card
		listedCard  *models.Card
		wantLast4   string
	}{
		{"default card wins", defaultCard, invoiceCard, listedCard, "1111"},
		{"invoice card when no default", nil, invoiceCard, listedCard, "2222"},
		{"listed card as last resort", nil, nil, listedCard, "3333"},
		{"no card anywhere", nil, nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, repo, svc := newBillingFixture()
			provider.addCustomer(&models.ProviderCustomer{ID: "cus_1", Email: "a@b.com", Livemode: true})
			provider.subsByCustomer["cus_1"] = &models.ProviderSubscription{
				ID:          "sub_1",
				Status:      "active",
				DefaultCard: tt.defaultCard,
				InvoiceCard: tt.invoiceCard,
			}
			provider.cardsByCustomer["cus_1"] = tt.listedCard
			repo.customers["u1"] = &models.Customer{UID: "u1", Email: "a@b.com", StripeID: "cus_1"}

			summary, err := svc.Summary(context.Background(), "u1", "a@b.com")
			if err != nil {
				t.Fatalf("Summary returned error: %v", err)
			}
			if tt.wantLast4 == "" {
				if summary.Card != nil {
					t.Errorf("expected no card, got %+v", summary.Card)
				}
				return
			}
			if summary.Card == nil || summary.Card.Last4 != tt.wantLast4 {
				t.Errorf("summary card = %+v, want last4 %s", summary.Card, tt.wantLast4)
			}
		})
	}
}

func TestSummary_FallbackListOnlyWhenNeeded(t *testing.T) {
	provider, repo, svc := newBillingFixture()
	provider.addCustomer(&models.ProviderCustomer{ID: "cus_1", Email: "a@b.com"})
	provider.subsByCustomer["cus_1"] = &models.ProviderSubscription{
		Status:      "active",
		DefaultCard: &models.Card{Brand: "visa", Last4: "1111"},
	}
	repo.customers["u1"] = &models.Customer{UID: "u1", StripeID: "cus_1"}

	if _, err := svc.Summary(context.Background(), "u1", "a@b.com"); err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if provider.firstCardCalls != 0 {
		t.Errorf("expected no payment method listing when a subscription card exists, got %d calls", provider.firstCardCalls)
	}
}

func TestSummary_RenewalDateFormat(t *testing.T) {
	provider, repo, svc := newBillingFixture()
	provider.addCustomer(&models.ProviderCustomer{ID: "cus_1", Email: "a@b.com"})
	// 2026-03-15 00:00:00 UTC
	provider.subsByCustomer["cus_1"] = &models.ProviderSubscription{
		Status:           "active",
		CurrentPeriodEnd: 1773532800,
	}
	repo.customers["u1"] = &models.Customer{UID: "u1", StripeID: "cus_1"}

	summary, err := svc.Summary(context.Background(), "u1", "a@b.com")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.RenewalDate != "15/03/2026" {
		t.Errorf("RenewalDate = %q, want 15/03/2026", summary.RenewalDate)
	}
}

func TestSummary_StaleStoredIDFallsBackToEmailAndHeals(t *testing.T) {
	provider, repo, svc := newBillingFixture()
	// Stored ID points at a customer the provider no longer has.
	repo.customers["u1"] = &models.Customer{UID: "u1", Email: "a@b.com", StripeID: "cus_gone"}
	provider.addCustomer(&models.ProviderCustomer{ID: "cus_new", Email: "a@b.com", Livemode: true})

	summary, err := svc.Summary(context.Background(), "u1", "a@b.com")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.Email != "a@b.com" {
		t.Errorf("summary email = %q", summary.Email)
	}
	if len(repo.setCalls) != 1 {
		t.Fatalf("expected one repair write, got %d", len(repo.setCalls))
	}
	healed := repo.setCalls[0]
	if healed.StripeID != "cus_new" {
		t.Errorf("healed StripeID = %q, want cus_new", healed.StripeID)
	}
	if healed.StripeLink != "https://dashboard.stripe.com/customers/cus_new" {
		t.Errorf("healed StripeLink = %q", healed.StripeLink)
	}
}

func TestSummary_NoLinkageResolvesByTokenEmail(t *testing.T) {
	provider, repo, svc := newBillingFixture()
	provider.addCustomer(&models.ProviderCustomer{ID: "cus_1", Email: "a@b.com"})

	if _, err := svc.Summary(context.Background(), "u1", "a@b.com"); err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	// Test-mode customer gets the /test dashboard link.
	if len(repo.setCalls) != 1 || repo.setCalls[0].StripeLink != "https://dashboard.stripe.com/test/customers/cus_1" {
		t.Errorf("expected self-heal write with test dashboard link, got %+v", repo.setCalls)
	}
}

func TestSummary_NoCustomerAnywhere(t *testing.T) {
	_, _, svc := newBillingFixture()
	_, err := svc.Summary(context.Background(), "u1", "nobody@b.com")
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestSummary_NeverSubscribed(t *testing.T) {
	provider, repo, svc := newBillingFixture()
	provider.addCustomer(&models.ProviderCustomer{ID: "cus_1", Email: "a@b.com"})
	repo.customers["u1"] = &models.Customer{UID: "u1", StripeID: "cus_1"}

	summary, err := svc.Summary(context.Background(), "u1", "a@b.com")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.Status != "" || summary.StatusLabel != "" || summary.RenewalDate != "" {
		t.Errorf("expected empty status fields for a customer without subscriptions, got %+v", summary)
	}
}

func TestHandleWebhook_SignatureFailure(t *testing.T) {
	provider, _, svc := newBillingFixture()
	provider.parseErr = payments.ErrInvalidSignature

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "bad-sig")
	if !errors.Is(err, ErrWebhookSignature) {
		t.Errorf("expected ErrWebhookSignature, got %v", err)
	}
}

func TestHandleWebhook_CheckoutCompleted(t *testing.T) {
	provider, repo, svc := newBillingFixture()
	provider.event = &models.PaymentEvent{
		Type: models.EventCheckoutCompleted,
		Checkout: &models.CheckoutCompleted{
			SessionID:  "cs_1",
			UserID:     "u1",
			CustomerID: "cus_1",
			Email:      "a@b.com",
			Created:    100,
		},
	}

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("HandleWebhook returned error: %v", err)
	}
	if repo.customers["u1"] == nil || repo.customers["u1"].StripeID != "cus_1" {
		t.Errorf("expected customer linkage to be written, got %+v", repo.customers["u1"])
	}
	if repo.savedSessions["u1"] != "cs_1" {
		t.Errorf("expected checkout session to be saved, got %q", repo.savedSessions["u1"])
	}
}

func TestHandleWebhook_SubscriptionUpdated(t *testing.T) {
	provider, repo, svc := newBillingFixture()
	repo.uidByStripeID["cus_1"] = "u1"
	provider.event = &models.PaymentEvent{
		Type: models.EventSubscriptionUpdated,
		Subscription: &models.SubscriptionChanged{
			SubscriptionID:   "sub_1",
			CustomerID:       "cus_1",
			Status:           "active",
			CurrentPeriodEnd: 1773532800,
		},
	}

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("HandleWebhook returned error: %v", err)
	}
	saved := repo.savedSubs["u1"]
	if saved == nil || saved.ID != "sub_1" || saved.Status != "active" {
		t.Errorf("expected subscription to be saved for u1, got %+v", saved)
	}
}

func TestHandleWebhook_SubscriptionForUnlinkedCustomerIsAcked(t *testing.T) {
	provider, repo, svc := newBillingFixture()
	provider.event = &models.PaymentEvent{
		Type:         models.EventSubscriptionCreated,
		Subscription: &models.SubscriptionChanged{SubscriptionID: "sub_1", CustomerID: "cus_unknown"},
	}

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Errorf("expected unlinked customer event to be acked, got %v", err)
	}
	if len(repo.savedSubs) != 0 {
		t.Errorf("expected nothing saved, got %+v", repo.savedSubs)
	}
}

func TestHandleWebhook_UnknownEventIgnored(t *testing.T) {
	provider, _, svc := newBillingFixture()
	provider.event = &models.PaymentEvent{Type: "invoice.finalized"}

	if err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Errorf("expected unknown event to be ignored, got %v", err)
	}
}

func TestCreatePortalSession_RequiresLinkage(t *testing.T) {
	_, _, svc := newBillingFixture()
	_, err := svc.CreatePortalSession(context.Background(), "u1", "")
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	provider, _, svc := newBillingFixture()
	provider.checkoutURL = "https://checkout.stripe.com/c/pay/cs_1"

	url, err := svc.CreateCheckoutSession(context.Background(), "u1", "a@b.com", "price_1", "")
	if err != nil {
		t.Fatalf("CreateCheckoutSession returned error: %v", err)
	}
	if url != provider.checkoutURL {
		t.Errorf("checkout url = %q", url)
	}
}
