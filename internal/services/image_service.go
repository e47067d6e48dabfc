package services

import (
	"errors"

	"github.com/dmarrero/gin-shop-api/internal/models"
	"gorm.io/gorm"
)

// ImageService persists metadata for assets stored in the object bucket.
type ImageService interface {
	CreateImage(image models.Image) (models.Image, error)
	GetAllImages() ([]models.Image, error)
	GetImageByID(id uint) (models.Image, error)
	DeleteImage(id uint) error
}

type imageService struct {
	db *gorm.DB
}

func NewImageService(db *gorm.DB) ImageService {
	return &imageService{db: db}
}

func (s *imageService) CreateImage(image models.Image) (models.Image, error) {
	if err := s.db.Create(&image).Error; err != nil {
		return models.Image{}, err
	}
	return image, nil
}

func (s *imageService) GetAllImages() ([]models.Image, error) {
	var images []models.Image
	if err := s.db.Order("created_at DESC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (s *imageService) GetImageByID(id uint) (models.Image, error) {
	var image models.Image
	if err := s.db.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Image{}, models.ErrNotFound
		}
		return models.Image{}, err
	}
	return image, nil
}

func (s *imageService) DeleteImage(id uint) error {
	result := s.db.Delete(&models.Image{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
