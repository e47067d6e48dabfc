package services

import (
	"errors"

	"github.com/dmarrero/gin-shop-api/internal/models"
	"gorm.io/gorm"
)

// ReviewService manages product reviews and keeps the denormalized rating
// aggregates on products in sync.
type ReviewService interface {
	CreateReview(review models.Review) (models.Review, error)
	GetAllReviews() ([]models.Review, error)
	GetReviewByID(id uint) (models.Review, error)
	GetProductReviews(productID uint) ([]models.Review, error)
	UpdateReview(review models.Review) (models.Review, error)
	DeleteReview(id uint) error
}

type reviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) ReviewService {
	return &reviewService{db: db}
}

func (s *reviewService) CreateReview(review models.Review) (models.Review, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, review.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		var existing models.Review
		if err := tx.Where("user_id = ? AND product_id = ?", review.UserID, review.ProductID).
			First(&existing).Error; err == nil {
			return models.ErrConflict
		}

		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrConflict
			}
			return err
		}

		return refreshProductRating(tx, review.ProductID)
	})
	if err != nil {
		return models.Review{}, err
	}
	return review, nil
}

func (s *reviewService) GetAllReviews() ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *reviewService) GetReviewByID(id uint) (models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Review{}, models.ErrNotFound
		}
		return models.Review{}, err
	}
	return review, nil
}

func (s *reviewService) GetProductReviews(productID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Where("product_id = ?", productID).Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *reviewService) UpdateReview(review models.Review) (models.Review, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return refreshProductRating(tx, review.ProductID)
	})
	if err != nil {
		return models.Review{}, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return refreshProductRating(tx, review.ProductID)
	})
}

// refreshProductRating recomputes the aggregate rating columns on a product
// from its current set of reviews.
func refreshProductRating(tx *gorm.DB, productID uint) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"average_rating": agg.Avg,
			"num_of_reviews": agg.Count,
		}).Error
}
