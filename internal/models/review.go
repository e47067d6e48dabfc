package models

import "time"

// Review is a user's rating of a product. A user may review a given
// product at most once, enforced by the composite unique index.
type Review struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Rating    int    `gorm:"not null" json:"rating" binding:"required,min=1,max=5"`
	Title     string `gorm:"not null" json:"title"`
	Comment   string `json:"comment"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"userId"`
	ProductID uint   `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"productId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
