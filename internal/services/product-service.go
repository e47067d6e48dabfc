package services

import (
	"errors"

	"github.com/dmarrero/gin-shop-api/internal/models"
	"gorm.io/gorm"
)

// ProductService provides methods to interact with the product catalog
type ProductService interface {
	// GetAllProducts retrieves products, optionally filtered by name or category
	GetAllProducts(name, category string) ([]models.Product, error)
	// GetProductByID retrieves a product with its reviews
	GetProductByID(id uint) (models.Product, error)
	// CreateProduct creates a new product in the catalog
	CreateProduct(product models.Product) (models.Product, error)
	// UpdateProduct updates an existing product
	UpdateProduct(product models.Product) (models.Product, error)
	// DeleteProduct deletes a product by its ID
	DeleteProduct(id uint) error
	// SetProductImage updates the product's display image URL
	SetProductImage(id uint, url string) error
}

type productService struct {
	db *gorm.DB
}

// NewProductService creates a new instance of ProductService
func NewProductService(db *gorm.DB) ProductService {
	return &productService{db: db}
}

func (s *productService) GetAllProducts(name, category string) ([]models.Product, error) {
	query := s.db.Model(&models.Product{})
	if name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProductByID(id uint) (models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Reviews").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, models.ErrNotFound
		}
		return models.Product{}, err
	}
	return product, nil
}

func (s *productService) CreateProduct(product models.Product) (models.Product, error) {
	if err := s.db.Create(&product).Error; err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(product models.Product) (models.Product, error) {
	if err := s.db.Save(&product).Error; err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	result := s.db.Delete(&models.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *productService) SetProductImage(id uint, url string) error {
	result := s.db.Model(&models.Product{}).Where("id = ?", id).Update("image_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
