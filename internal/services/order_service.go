package services

import (
	"errors"
	"math"

	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItemRequest is a requested line item; the price is always resolved
// server-side from the catalog, never taken from the client.
type OrderItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Amount    int  `json:"amount" binding:"required,min=1"`
}

// OrderService creates and manages customer orders.
type OrderService interface {
	CreateOrder(userID uint, items []OrderItemRequest, tax, shippingFee float64) (models.Order, error)
	GetAllOrders() ([]models.Order, error)
	GetUserOrders(userID uint) ([]models.Order, error)
	GetOrderByID(id uint) (models.Order, error)
	// UpdateOrderStatus moves an order to the given status.
	UpdateOrderStatus(id uint, status models.OrderStatus) (models.Order, error)
}

type orderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) OrderService {
	return &orderService{db: db}
}

func (s *orderService) CreateOrder(userID uint, items []OrderItemRequest, tax, shippingFee float64) (models.Order, error) {
	if len(items) == 0 {
		return models.Order{}, models.ErrValidation
	}

	order := models.Order{
		UserID:      userID,
		Tax:         tax,
		ShippingFee: shippingFee,
		Status:      models.OrderPending,
		// Stand-in for the payment provider's client secret.
		ClientSecret: uuid.NewString(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrNotFound
				}
				return err
			}

			order.Items = append(order.Items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Image:     product.ImageURL,
				Amount:    item.Amount,
			})
			subtotal += product.Price * float64(item.Amount)
		}

		order.Subtotal = round2(subtotal)
		order.Total = round2(subtotal + tax + shippingFee)

		return tx.Create(&order).Error
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *orderService) GetAllOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Items").Where("user_id = ?", userID).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(id uint) (models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, models.ErrNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(id uint, status models.OrderStatus) (models.Order, error) {
	order, err := s.GetOrderByID(id)
	if err != nil {
		return models.Order{}, err
	}

	order.Status = status
	if err := s.db.Save(&order).Error; err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
