package services

import (
	"testing"

	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Product{}, &models.Review{},
		&models.Order{}, &models.OrderItem{}, &models.Image{})
	require.NoError(t, err)

	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64) models.Product {
	product := models.Product{Name: name, Price: price, Category: "office"}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	user := models.User{Name: "Test User", Email: email, Password: "hashed", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user
}
