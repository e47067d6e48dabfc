package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmarrero/gin-shop-api/internal/middleware"
	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/dmarrero/gin-shop-api/internal/services"
	"github.com/gin-gonic/gin"
)

// UserController handles HTTP requests for user management
type UserController interface {
	// GetAllUsers lists every user (admin only)
	GetAllUsers(c *gin.Context)
	// ShowMe returns the authenticated user's own record
	ShowMe(c *gin.Context)
	// GetUserByID retrieves a user by ID
	GetUserByID(c *gin.Context)
	// UpdateUser updates the authenticated user's name and email
	UpdateUser(c *gin.Context)
	// UpdateUserPassword changes the authenticated user's password
	UpdateUserPassword(c *gin.Context)
}

type userController struct {
	service services.UserService
}

// NewUserController creates a new instance of UserController
func NewUserController(service services.UserService) *userController {
	return &userController{service: service}
}

// GetAllUsers godoc
// @Summary List users
// @Description Get all users (admin only)
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/v1/users [get]
func (uc *userController) GetAllUsers(ctx *gin.Context) {
	users, err := uc.service.GetAllUsers()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve users"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// ShowMe godoc
// @Summary Current user
// @Description Get the authenticated user's own record
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /api/v1/users/showMe [get]
func (uc *userController) ShowMe(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication invalid"})
		return
	}

	user, err := uc.service.GetUserByID(identity.UserID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// GetUserByID godoc
// @Summary Get user by ID
// @Description Get a single user by its ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/users/{id} [get]
func (uc *userController) GetUserByID(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	user, err := uc.service.GetUserByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve user"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser godoc
// @Summary Update profile
// @Description Update the authenticated user's name and email
// @Tags users
// @Accept json
// @Produce json
// @Param body body object true "name, email"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/users/updateUser [patch]
func (uc *userController) UpdateUser(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication invalid"})
		return
	}

	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.service.GetUserByID(identity.UserID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	user.Name = req.Name
	user.Email = req.Email
	if err := uc.service.UpdateUser(user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUserPassword godoc
// @Summary Change password
// @Description Change the authenticated user's password after verifying the old one
// @Tags users
// @Accept json
// @Produce json
// @Param body body object true "oldPassword, newPassword"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/users/updateUserPassword [patch]
func (uc *userController) UpdateUserPassword(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication invalid"})
		return
	}

	var req struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.service.GetUserByID(identity.UserID)
	if err != nil || !user.CheckPassword(req.OldPassword) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	user.Password = req.NewPassword
	if err := user.HashPassword(); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update password"})
		return
	}
	if err := uc.service.UpdateUser(user); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update password"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"msg": "password updated"})
}
