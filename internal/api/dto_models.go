package api

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CheckoutSessionResponse returns the hosted checkout URL.
type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

// PortalSessionResponse returns the customer portal URL.
type PortalSessionResponse struct {
	URL string `json:"url"`
}

// SubscriptionStatusResponse is the account page's gate summary.
type SubscriptionStatusResponse struct {
	Status    string `json:"status"`
	Label     string `json:"label"`
	HasAccess bool   `json:"hasAccess"`
}

// FavoriteStatusResponse answers whether a series is bookmarked.
type FavoriteStatusResponse struct {
	SeriesID   string `json:"seriesId"`
	IsFavorite bool   `json:"isFavorite"`
}

// RatingResponse aggregates an item's mean score with the caller's own.
type RatingResponse struct {
	ItemID    string  `json:"itemId"`
	ItemType  string  `json:"itemType"`
	Average   float64 `json:"average"`
	UserScore *int    `json:"userScore"`
}

// AdminCheckResponse reports the caller's staff role.
type AdminCheckResponse struct {
	IsAdmin bool   `json:"isAdmin"`
	Role    string `json:"role,omitempty"`
}

// UploadResponse returns the public URL of an uploaded file.
type UploadResponse struct {
	URL string `json:"url"`
}
