package services

import (
	"errors"

	"github.com/dmarrero/gin-shop-api/internal/models"
	"gorm.io/gorm"
)

// UserService is the credential store backing authentication and user
// management.
type UserService interface {
	// CreateUser persists a new user, assigning the admin role to the very
	// first registrant and the user role to everyone after.
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetAllUsers() ([]models.User, error)
	// UpdateUser saves changes to an existing record.
	UpdateUser(user *models.User) error
	CountUsers() (int64, error)
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

func (s *userService) CreateUser(user *models.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Where("email = ?", user.Email).First(&existing).Error; err == nil {
			return models.ErrConflict
		}

		// First registrant in an empty store becomes the admin.
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			user.Role = models.RoleAdmin
		} else {
			user.Role = models.RoleUser
		}

		if err := tx.Create(user).Error; err != nil {
			// A concurrent registration can still win the race on the unique
			// email index; report it the same way as the pre-check.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrConflict
			}
			return err
		}
		return nil
	})
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userService) UpdateUser(user *models.User) error {
	if err := s.db.Save(user).Error; err != nil {
		// An email change can collide with another account on the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrConflict
		}
		return err
	}
	return nil
}

func (s *userService) CountUsers() (int64, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
