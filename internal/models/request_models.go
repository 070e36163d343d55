package models

// CreateSeriesRequest is the payload for creating a catalog series.
type CreateSeriesRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// UpdateSeriesRequest is the payload for updating a series. Pointer fields
// distinguish "not sent" from "set to zero value".
type UpdateSeriesRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// CreateEpisodeRequest is the payload for creating an episode.
type CreateEpisodeRequest struct {
	SeriesID    uint   `json:"series_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Subtitle    string `json:"subtitle"`
	VideoURL    string `json:"video_url"`
	Position    *int   `json:"position,omitempty"`
	DocumentURL string `json:"document_url,omitempty"`
}

// UpdateEpisodeRequest is the payload for updating an episode.
type UpdateEpisodeRequest struct {
	Name        *string `json:"name,omitempty"`
	Subtitle    *string `json:"subtitle,omitempty"`
	VideoURL    *string `json:"video_url,omitempty"`
	Position    *int    `json:"position,omitempty"`
	DocumentURL *string `json:"document_url,omitempty"`
}

// CreateCommentRequest is the payload for posting a comment on an episode.
// Rating is optional; the rating modal posts its score alongside the text.
type CreateCommentRequest struct {
	Body   string `json:"body" binding:"required"`
	Rating *int   `json:"rating,omitempty"`
}

// RateRequest is the payload for submitting a rating.
type RateRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	ItemType string `json:"itemType" binding:"required"`
	Score    int    `json:"score" binding:"required"`
}

// NotificationRequest is the payload for creating or updating a staff
// notification.
type NotificationRequest struct {
	ID    uint   `json:"id,omitempty"` // required for update/delete
	Title string `json:"title"`
	Body  string `json:"body"`
	Image string `json:"image"`
}

// UploadRequest is the payload for the admin content upload endpoint. The
// file arrives base64-encoded; Bucket overrides the configured default.
type UploadRequest struct {
	Bucket      string `json:"bucket"`
	Path        string `json:"path" binding:"required"`
	ContentType string `json:"contentType"`
	Base64      string `json:"base64" binding:"required"`
}
