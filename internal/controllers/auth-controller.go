package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmarrero/gin-shop-api/internal/auth"
	"github.com/dmarrero/gin-shop-api/internal/mail"
	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/dmarrero/gin-shop-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Deliberately uninformative messages: login and token failures must not
// reveal whether the email exists, the account is unverified, or the
// password was wrong.
const (
	msgInvalidCredentials = "invalid credentials"
	msgVerificationFailed = "verification failed"
	msgResetFailed        = "invalid or expired reset token"
	msgCheckYourEmail     = "please check your email"
)

type AuthController struct {
	userService   services.UserService
	tokens        *auth.TokenManager
	mailer        mail.Sender
	resetTokenTTL time.Duration
	secureCookies bool
}

func NewAuthController(userService services.UserService, tokens *auth.TokenManager, mailer mail.Sender, resetTokenTTL time.Duration, secureCookies bool) *AuthController {
	return &AuthController{
		userService:   userService,
		tokens:        tokens,
		mailer:        mailer,
		resetTokenTTL: resetTokenTTL,
		secureCookies: secureCookies,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a user account and send a verification email. The first account ever registered becomes the admin.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body object true "name, email, password"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		Name:              req.Name,
		Email:             req.Email,
		Password:          req.Password,
		VerificationToken: uuid.NewString(),
	}

	if err := user.HashPassword(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	if err := ac.userService.CreateUser(user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		log.WithError(err).Error("user creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	// Mail delivery problems must not fail the registration; the token can
	// be re-sent out of band.
	if err := ac.mailer.SendVerificationEmail(user); err != nil {
		log.WithError(err).WithField("email", user.Email).Warn("verification email not sent")
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": user,
		"msg":  "account created, please verify your email",
	})
}

// VerifyEmail godoc
// @Summary Verify an email address
// @Description Confirm account ownership with the token from the verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param body body object true "email, verificationToken"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/verify-email [post]
func (ac *AuthController) VerifyEmail(c *gin.Context) {
	var req struct {
		Email             string `json:"email" binding:"required,email"`
		VerificationToken string `json:"verificationToken" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.userService.GetUserByEmail(req.Email)
	if err != nil || user.VerificationToken == "" || user.VerificationToken != req.VerificationToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgVerificationFailed})
		return
	}

	now := time.Now()
	user.IsVerified = true
	user.VerifiedAt = &now
	user.VerificationToken = ""

	if err := ac.userService.UpdateUser(user); err != nil {
		log.WithError(err).Error("email verification update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "email verified"})
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password; sets the session cookie on success
// @Tags auth
// @Accept json
// @Produce json
// @Param body body object true "email, password"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Unknown email, unverified account, and wrong password all produce the
	// same response.
	user, err := ac.userService.GetUserByEmail(req.Email)
	if err != nil || !user.IsVerified || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
		return
	}

	token, err := ac.tokens.Issue(user.ID, user.Role)
	if err != nil {
		log.WithError(err).Error("session token issuance failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	auth.SetSessionCookie(c, token, ac.tokens.TTL(), ac.secureCookies)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout godoc
// @Summary Log out
// @Description Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	auth.ClearSessionCookie(c, ac.secureCookies)
	c.JSON(http.StatusOK, gin.H{"msg": "logged out"})
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Always answers 200; a reset email is sent only when the account exists
// @Tags auth
// @Accept json
// @Produce json
// @Param body body object true "email"
// @Success 200 {object} map[string]string
// @Router /api/v1/auth/forgot-password [post]
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The response never reveals whether the email exists.
	user, err := ac.userService.GetUserByEmail(req.Email)
	if err == nil {
		expiry := time.Now().Add(ac.resetTokenTTL)
		user.ResetToken = uuid.NewString()
		user.ResetTokenExpiry = &expiry

		if err := ac.userService.UpdateUser(user); err != nil {
			log.WithError(err).Error("storing reset token failed")
		} else if err := ac.mailer.SendResetEmail(user); err != nil {
			log.WithError(err).WithField("email", user.Email).Warn("reset email not sent")
		}
	}

	c.JSON(http.StatusOK, gin.H{"msg": msgCheckYourEmail})
}

// ResetPassword godoc
// @Summary Reset the password
// @Description Replace the password using a valid, unexpired reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body object true "email, token, newPassword"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/reset-password [post]
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.userService.GetUserByEmail(req.Email)
	if err != nil || user.ResetToken == "" || user.ResetToken != req.Token ||
		user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgResetFailed})
		return
	}

	user.Password = req.NewPassword
	if err := user.HashPassword(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
		return
	}
	user.ResetToken = ""
	user.ResetTokenExpiry = nil

	if err := ac.userService.UpdateUser(user); err != nil {
		log.WithError(err).Error("password reset update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "password updated"})
}
