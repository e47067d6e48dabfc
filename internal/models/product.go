package models

import "time"

// Product is a catalog entry. AverageRating and NumOfReviews are
// denormalized aggregates refreshed whenever a review changes.
type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Category    string  `json:"category"`
	Inventory   int     `gorm:"default:15" json:"inventory"`
	ImageURL    string  `json:"image"`
	CreatedBy   uint    `json:"createdBy"`

	AverageRating float64 `json:"averageRating"`
	NumOfReviews  int64   `json:"numOfReviews"`

	Reviews []Review `gorm:"constraint:OnDelete:CASCADE" json:"reviews,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
