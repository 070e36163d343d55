package models

import "fmt"

// Item types a rating can target.
const (
	ItemTypeSeries  = "series"
	ItemTypeEpisode = "episode"
)

// ValidItemType reports whether t names a ratable item kind.
func ValidItemType(t string) bool {
	return t == ItemTypeSeries || t == ItemTypeEpisode
}

// Rating is a single user's 1–5 score for a series or episode, stored at
// ratings/{userID}_{itemType}_{itemID}. One row per (user, item, type);
// re-rating overwrites it.
type Rating struct {
	UserID   string `json:"userId" firestore:"userId"`
	ItemID   string `json:"itemId" firestore:"itemId"`
	ItemType string `json:"itemType" firestore:"itemType"`
	Score    int    `json:"score" firestore:"score"`
}

// RatingDocID builds the deterministic document ID for a
// (user, item, type) tuple, giving Rate upsert semantics.
func RatingDocID(userID, itemType, itemID string) string {
	return fmt.Sprintf("%s_%s_%s", userID, itemType, itemID)
}
