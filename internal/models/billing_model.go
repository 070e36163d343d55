package models

// Card is the card slice of a payment method, enough for the UI to show
// "Visa •••• 4242, 12/27".
type Card struct {
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int64  `json:"expMonth,omitempty"`
	ExpYear  int64  `json:"expYear,omitempty"`
}

// PaymentSummary is the consolidated billing view for one user. It is
// derived from provider data on every request and never persisted.
type PaymentSummary struct {
	Email       string `json:"email"`
	Card        *Card  `json:"card"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
	RenewalDate string `json:"renewalDate"` // dd/mm/yyyy, "" when absent
}

// ProviderCustomer is the payment processor's customer record.
type ProviderCustomer struct {
	ID       string
	Email    string
	Livemode bool
}

// ProviderSubscription is the most recent subscription for a customer with
// its payment-method cards already expanded. DefaultCard comes from the
// subscription's default payment method, InvoiceCard from the latest
// invoice's payment intent.
type ProviderSubscription struct {
	ID               string
	Status           string
	CurrentPeriodEnd int64 // unix seconds, 0 when absent
	DefaultCard      *Card
	InvoiceCard      *Card
}

// CheckoutParams are the inputs for creating a hosted checkout session.
type CheckoutParams struct {
	UserID     string
	Email      string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// Webhook event types the billing service acts on.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventPaymentSucceeded    = "payment_intent.succeeded"
)

// PaymentEvent is a decoded, signature-verified webhook delivery. Only the
// pointer matching Type is populated.
type PaymentEvent struct {
	Type         string
	Checkout     *CheckoutCompleted
	Subscription *SubscriptionChanged
	Payment      *PaymentSucceeded
}

// CheckoutCompleted carries the fields needed to link a paying customer to
// a user after hosted checkout finishes.
type CheckoutCompleted struct {
	SessionID  string
	UserID     string // client_reference_id or metadata.userId
	CustomerID string
	Email      string
	Created    int64 // unix seconds
}

// SubscriptionChanged describes a created or updated subscription.
type SubscriptionChanged struct {
	SubscriptionID    string
	CustomerID        string
	Status            string
	CurrentPeriodEnd  int64 // unix seconds
	PriceID           string
	CancelAtPeriodEnd bool
	Created           int64 // unix seconds
}

// PaymentSucceeded describes a settled payment intent.
type PaymentSucceeded struct {
	PaymentIntentID string
	CustomerID      string
	Amount          int64
	Currency        string
	Created         int64 // unix seconds
}
