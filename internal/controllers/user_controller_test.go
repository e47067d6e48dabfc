package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/dmarrero/gin-shop-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserRouter(t *testing.T) (*gin.Engine, services.UserService, *gorm.DB) {
	db := setupTestDB(t)
	userService := services.NewUserService(db)
	controller := NewUserController(userService)

	router := gin.New()
	api := router.Group("/api/v1/users")
	api.GET("", controller.GetAllUsers)
	api.GET("/showMe", controller.ShowMe)
	api.GET("/:id", controller.GetUserByID)

	return router, userService, db
}

func createServiceUser(t *testing.T, userService services.UserService, name, email string) *models.User {
	user := &models.User{Name: name, Email: email, Password: "hash"}
	require.NoError(t, userService.CreateUser(user))
	return user
}

func TestUpdateUserDuplicateEmailConflict(t *testing.T) {
	db := setupTestDB(t)
	userService := services.NewUserService(db)
	controller := NewUserController(userService)

	createServiceUser(t, userService, "Alice", "alice@example.com")
	bob := createServiceUser(t, userService, "Bob", "bob@example.com")

	router := gin.New()
	router.PATCH("/api/v1/users/updateUser", asIdentity(bob.ID, bob.Role), controller.UpdateUser)

	payload, err := json.Marshal(gin.H{"name": "Bob", "email": "alice@example.com"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/updateUser", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already in use")

	// Bob's record is unchanged
	loaded, err := userService.GetUserByID(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", loaded.Email)
}

func TestUpdateUserChangesProfile(t *testing.T) {
	db := setupTestDB(t)
	userService := services.NewUserService(db)
	controller := NewUserController(userService)

	user := createServiceUser(t, userService, "Before", "before@example.com")

	router := gin.New()
	router.PATCH("/api/v1/users/updateUser", asIdentity(user.ID, user.Role), controller.UpdateUser)

	payload, err := json.Marshal(gin.H{"name": "After", "email": "after@example.com"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/updateUser", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	loaded, err := userService.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", loaded.Name)
	assert.Equal(t, "after@example.com", loaded.Email)
}

func TestShowMeReturnsOwnRecord(t *testing.T) {
	db := setupTestDB(t)
	userService := services.NewUserService(db)
	controller := NewUserController(userService)

	user := createServiceUser(t, userService, "Me", "me@example.com")

	router := gin.New()
	router.GET("/api/v1/users/showMe", asIdentity(user.ID, user.Role), controller.ShowMe)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/showMe", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "me@example.com")
	assert.NotContains(t, w.Body.String(), "hash")
}

func TestGetUserByIDNotFound(t *testing.T) {
	router, _, _ := setupUserRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/999", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
