package services

import (
	"fmt"
	"testing"

	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateUserFirstRegistrantIsAdmin(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	first := &models.User{Name: "First", Email: "first@example.com", Password: "hash"}
	require.NoError(t, service.CreateUser(first))
	assert.Equal(t, models.RoleAdmin, first.Role)

	second := &models.User{Name: "Second", Email: "second@example.com", Password: "hash"}
	require.NoError(t, service.CreateUser(second))
	assert.Equal(t, models.RoleUser, second.Role)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	require.NoError(t, service.CreateUser(&models.User{Name: "A", Email: "dup@example.com", Password: "hash"}))

	err := service.CreateUser(&models.User{Name: "B", Email: "dup@example.com", Password: "hash"})
	assert.ErrorIs(t, err, models.ErrConflict)

	count, err := service.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// The create path pre-checks the email inside its transaction, but a
// concurrent registration can still lose the race and hit the unique index.
// That branch depends on the connection translating driver errors into
// gorm.ErrDuplicatedKey.
func TestCreateUserDuplicateEmailOnIndex(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.User{
		Name: "A", Email: "race@example.com", Password: "hash", Role: models.RoleUser,
	}).Error)

	err := db.Create(&models.User{
		Name: "B", Email: "race@example.com", Password: "hash", Role: models.RoleUser,
	}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	require.NoError(t, service.CreateUser(&models.User{Name: "A", Email: "a@example.com", Password: "hash"}))

	second := &models.User{Name: "B", Email: "b@example.com", Password: "hash"}
	require.NoError(t, service.CreateUser(second))

	second.Email = "a@example.com"
	err := service.UpdateUser(second)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestGetUserByEmailNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	user, err := service.GetUserByEmail("nobody@example.com")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetUserByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	user, err := service.GetUserByID(123)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetAllUsersOrderedByID(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, service.CreateUser(&models.User{
			Name:     fmt.Sprintf("User %d", i),
			Email:    fmt.Sprintf("user%d@example.com", i),
			Password: "hash",
		}))
	}

	users, err := service.GetAllUsers()
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Less(t, users[0].ID, users[1].ID)
	assert.Less(t, users[1].ID, users[2].ID)
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	service := NewUserService(db)

	user := &models.User{Name: "Before", Email: "update@example.com", Password: "hash"}
	require.NoError(t, service.CreateUser(user))

	user.Name = "After"
	require.NoError(t, service.UpdateUser(user))

	loaded, err := service.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", loaded.Name)
}
