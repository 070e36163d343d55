package models

import "fmt"

// Favorite is a user's bookmark of a series, stored at
// favorites/{userID}_{seriesID}. The series fields are a denormalized
// snapshot taken at the moment of favoriting so the favorites list can be
// rendered without a catalog join; the snapshot may drift from the live
// series row, which is accepted.
type Favorite struct {
	UserID      string  `json:"userId" firestore:"userId"`
	SeriesID    string  `json:"seriesId" firestore:"seriesId"`
	Name        string  `json:"name" firestore:"name"`
	Description string  `json:"description" firestore:"description"`
	Image       string  `json:"image" firestore:"image"`
	Rating      float64 `json:"rating" firestore:"rating"`
}

// FavoriteDocID builds the deterministic document ID for a (user, series)
// pair. Writing under this key makes adds idempotent.
func FavoriteDocID(userID, seriesID string) string {
	return fmt.Sprintf("%s_%s", userID, seriesID)
}

// HasSnapshot reports whether the row carries the denormalized series
// fields. Rows created by earlier iterations of the system hold only the
// (userId, seriesId) pair and must be hydrated from the catalog.
func (f *Favorite) HasSnapshot() bool {
	return f.Name != ""
}
