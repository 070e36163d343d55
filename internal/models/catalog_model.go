package models

import "time"

// Series is a root catalog entry ("season") containing ordered episodes.
// Rating is a cached aggregate refreshed whenever a user re-rates the
// series; it may lag the true mean between writes.
type Series struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Rating      float64   `gorm:"default:0" json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Series) TableName() string {
	return "series"
}

// Episode is a single video lesson belonging to exactly one series.
// Position orders episodes inside a series; DocumentURL is an optional
// handout attached to the lesson. Rating is a cached aggregate like the
// series column.
type Episode struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SeriesID    uint      `gorm:"not null;index" json:"series_id"`
	Series      Series    `gorm:"foreignKey:SeriesID" json:"-"`
	Name        string    `gorm:"not null" json:"name"`
	Subtitle    string    `json:"subtitle"`
	VideoURL    string    `json:"video_url"`
	Position    *int      `json:"position,omitempty"`
	DocumentURL string    `json:"document_url,omitempty"`
	Rating      float64   `gorm:"default:0" json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Episode) TableName() string {
	return "episodes"
}
