package models

import "time"

// OrderStatus tracks an order through the payment lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderFailed    OrderStatus = "failed"
	OrderPaid      OrderStatus = "paid"
	OrderDelivered OrderStatus = "delivered"
	OrderCanceled  OrderStatus = "canceled"
)

// OrderItem snapshots the product at purchase time so later catalog edits
// never change what the customer was charged.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"-"`
	ProductID uint    `gorm:"not null" json:"productId"`
	Name      string  `gorm:"not null" json:"name"`
	Price     float64 `gorm:"not null" json:"price"`
	Image     string  `json:"image"`
	Amount    int     `gorm:"not null" json:"amount"`
}

// Order is a customer's purchase with server-computed totals.
type Order struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"userId"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	Subtotal    float64 `gorm:"not null" json:"subtotal"`
	Tax         float64 `gorm:"not null" json:"tax"`
	ShippingFee float64 `gorm:"not null" json:"shippingFee"`
	Total       float64 `gorm:"not null" json:"total"`

	Status       OrderStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	ClientSecret string      `json:"clientSecret"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
