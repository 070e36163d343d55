package models

import "time"

// Customer links a Firebase user to their Stripe customer record.
// Stored at customers/{uid}; StripeLink is a dashboard deep link kept for
// staff convenience. The document is self-healing: whenever the billing
// resolver discovers a different or missing Stripe ID it rewrites this doc.
type Customer struct {
	UID        string `json:"uid" firestore:"-"` // document ID
	Email      string `json:"email" firestore:"email"`
	StripeID   string `json:"stripeId" firestore:"stripeId"`
	StripeLink string `json:"stripeLink,omitempty" firestore:"stripeLink"`
}

// Subscription is the slice of Stripe's subscription object we persist under
// customers/{uid}/subscriptions/{subscriptionID} from webhook deliveries.
type Subscription struct {
	ID               string    `json:"id" firestore:"-"` // document ID
	Status           string    `json:"status" firestore:"status"`
	CurrentPeriodEnd time.Time `json:"current_period_end" firestore:"current_period_end"`
	PriceID          string    `json:"price_id,omitempty" firestore:"price_id"`
	CancelAtPeriodEnd bool     `json:"cancel_at_period_end" firestore:"cancel_at_period_end"`
	Created          time.Time `json:"created" firestore:"created"`
}

// Profile is a per-user document at users/{uid}, written by the client at
// sign-up and read by the admin user listing.
type Profile struct {
	UID      string `json:"id" firestore:"-"`
	Name     string `json:"name" firestore:"name"`
	Email    string `json:"email" firestore:"email"`
	PhotoURL string `json:"photoURL" firestore:"photoURL"`
}

// AdminRole is the role stored at admins/{uid}.
type AdminRole struct {
	Role string `json:"role" firestore:"role"` // "master", "editor" or "viewer"
}

// AdminUser is the read-only projection returned by the staff user listing:
// a profile joined with the user's most recent subscription.
type AdminUser struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	PhotoURL           string `json:"photoURL"`
	SubscriptionStatus string `json:"subscriptionStatus"`
	CurrentPeriodEnd   *int64 `json:"currentPeriodEnd"` // unix millis, nil when unknown
}
