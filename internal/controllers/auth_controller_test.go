package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmarrero/gin-shop-api/internal/auth"
	"github.com/dmarrero/gin-shop-api/internal/middleware"
	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/dmarrero/gin-shop-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Product{}, &models.Review{},
		&models.Order{}, &models.OrderItem{}, &models.Image{})
	require.NoError(t, err)

	return db
}

// recordingMailer captures outbound mail instead of sending it.
type recordingMailer struct {
	verifications []string
	resets        []string
}

func (m *recordingMailer) SendVerificationEmail(user *models.User) error {
	m.verifications = append(m.verifications, user.Email)
	return nil
}

func (m *recordingMailer) SendResetEmail(user *models.User) error {
	m.resets = append(m.resets, user.Email)
	return nil
}

type authTestEnv struct {
	db     *gorm.DB
	users  services.UserService
	tokens *auth.TokenManager
	mailer *recordingMailer
	router *gin.Engine
}

func setupAuthEnv(t *testing.T) *authTestEnv {
	db := setupTestDB(t)
	users := services.NewUserService(db)
	tokens := auth.NewTokenManager("test-jwt-secret-key-32-characters", time.Hour)
	mailer := &recordingMailer{}

	controller := NewAuthController(users, tokens, mailer, time.Hour, false)

	router := gin.New()
	authApi := router.Group("/api/v1/auth")
	authApi.POST("/register", controller.Register)
	authApi.POST("/verify-email", controller.VerifyEmail)
	authApi.POST("/login", controller.Login)
	authApi.POST("/logout", middleware.Authenticate(tokens), controller.Logout)
	authApi.POST("/forgot-password", controller.ForgotPassword)
	authApi.POST("/reset-password", controller.ResetPassword)

	return &authTestEnv{db: db, users: users, tokens: tokens, mailer: mailer, router: router}
}

func (env *authTestEnv) post(t *testing.T, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *authTestEnv) register(t *testing.T, name, email, password string) *httptest.ResponseRecorder {
	return env.post(t, "/api/v1/auth/register", gin.H{
		"name": name, "email": email, "password": password,
	})
}

// registerVerified registers an account and marks it verified directly in
// the database, skipping the email round-trip.
func (env *authTestEnv) registerVerified(t *testing.T, name, email, password string) *models.User {
	w := env.register(t, name, email, password)
	require.Equal(t, http.StatusCreated, w.Code)

	user, err := env.users.GetUserByEmail(email)
	require.NoError(t, err)

	now := time.Now()
	user.IsVerified = true
	user.VerifiedAt = &now
	user.VerificationToken = ""
	require.NoError(t, env.users.UpdateUser(user))
	return user
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatalf("session cookie not set")
	return nil
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	env := setupAuthEnv(t)

	w := env.register(t, "First", "first@example.com", "password123")
	require.Equal(t, http.StatusCreated, w.Code)

	user, err := env.users.GetUserByEmail("first@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.VerificationToken)
	assert.Equal(t, []string{"first@example.com"}, env.mailer.verifications)

	w = env.register(t, "Second", "second@example.com", "password123")
	require.Equal(t, http.StatusCreated, w.Code)

	second, err := env.users.GetUserByEmail("second@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, second.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := setupAuthEnv(t)

	w := env.register(t, "User", "dup@example.com", "password123")
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.register(t, "User Again", "dup@example.com", "password456")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already in use")
}

func TestRegisterNeverExposesPasswordHash(t *testing.T) {
	env := setupAuthEnv(t)

	w := env.register(t, "User", "hash@example.com", "password123")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestVerifyEmail(t *testing.T) {
	env := setupAuthEnv(t)

	env.register(t, "User", "verify@example.com", "password123")
	user, err := env.users.GetUserByEmail("verify@example.com")
	require.NoError(t, err)

	w := env.post(t, "/api/v1/auth/verify-email", gin.H{
		"email":             "verify@example.com",
		"verificationToken": user.VerificationToken,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	user, err = env.users.GetUserByEmail("verify@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.NotNil(t, user.VerifiedAt)
	assert.Empty(t, user.VerificationToken)
}

func TestVerifyEmailWrongToken(t *testing.T) {
	env := setupAuthEnv(t)

	env.register(t, "User", "verify@example.com", "password123")

	w := env.post(t, "/api/v1/auth/verify-email", gin.H{
		"email":             "verify@example.com",
		"verificationToken": "wrong-token",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	user, err := env.users.GetUserByEmail("verify@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := setupAuthEnv(t)
	env.registerVerified(t, "User", "login@example.com", "password123")

	w := env.post(t, "/api/v1/auth/login", gin.H{
		"email": "login@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	identity, err := env.tokens.Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}

// Unknown email, wrong password and unverified account must be
// indistinguishable to the caller.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := setupAuthEnv(t)
	env.registerVerified(t, "User", "known@example.com", "password123")
	env.register(t, "Unverified", "unverified@example.com", "password123")

	cases := []struct {
		name  string
		email string
		pass  string
	}{
		{"unknown email", "nobody@example.com", "password123"},
		{"wrong password", "known@example.com", "wrong-password"},
		{"unverified account", "unverified@example.com", "password123"},
	}

	var bodies []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.post(t, "/api/v1/auth/login", gin.H{"email": tc.email, "password": tc.pass})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			bodies = append(bodies, w.Body.String())
		})
	}

	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i], "failure responses must match")
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := setupAuthEnv(t)
	env.registerVerified(t, "User", "logout@example.com", "password123")

	w := env.post(t, "/api/v1/auth/login", gin.H{
		"email": "logout@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = env.post(t, "/api/v1/auth/logout", gin.H{}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := sessionCookie(t, w)
	assert.Less(t, cleared.MaxAge, 0)
	assert.Empty(t, cleared.Value)
}

func TestLogoutRequiresSession(t *testing.T) {
	env := setupAuthEnv(t)

	w := env.post(t, "/api/v1/auth/logout", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestForgotPasswordAlwaysAnswers200(t *testing.T) {
	env := setupAuthEnv(t)
	env.registerVerified(t, "User", "forgot@example.com", "password123")

	known := env.post(t, "/api/v1/auth/forgot-password", gin.H{"email": "forgot@example.com"})
	unknown := env.post(t, "/api/v1/auth/forgot-password", gin.H{"email": "nobody@example.com"})

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())

	// A reset email goes out only for the account that exists
	assert.Equal(t, []string{"forgot@example.com"}, env.mailer.resets)

	user, err := env.users.GetUserByEmail("forgot@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ResetToken)
	require.NotNil(t, user.ResetTokenExpiry)
	assert.True(t, user.ResetTokenExpiry.After(time.Now()))
}

func TestResetPassword(t *testing.T) {
	env := setupAuthEnv(t)
	env.registerVerified(t, "User", "reset@example.com", "password123")

	env.post(t, "/api/v1/auth/forgot-password", gin.H{"email": "reset@example.com"})
	user, err := env.users.GetUserByEmail("reset@example.com")
	require.NoError(t, err)

	w := env.post(t, "/api/v1/auth/reset-password", gin.H{
		"email":       "reset@example.com",
		"token":       user.ResetToken,
		"newPassword": "new-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	user, err = env.users.GetUserByEmail("reset@example.com")
	require.NoError(t, err)
	assert.Empty(t, user.ResetToken)
	assert.Nil(t, user.ResetTokenExpiry)
	assert.True(t, user.CheckPassword("new-password"))
	assert.False(t, user.CheckPassword("password123"))

	// The new password works for login
	w = env.post(t, "/api/v1/auth/login", gin.H{
		"email": "reset@example.com", "password": "new-password",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetPasswordBadTokenLeavesHashUntouched(t *testing.T) {
	env := setupAuthEnv(t)
	env.registerVerified(t, "User", "reset@example.com", "password123")

	env.post(t, "/api/v1/auth/forgot-password", gin.H{"email": "reset@example.com"})

	w := env.post(t, "/api/v1/auth/reset-password", gin.H{
		"email":       "reset@example.com",
		"token":       "wrong-token",
		"newPassword": "new-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	user, err := env.users.GetUserByEmail("reset@example.com")
	require.NoError(t, err)
	assert.True(t, user.CheckPassword("password123"))
	assert.NotEmpty(t, user.ResetToken, "an invalid attempt must not consume the token")
}

func TestResetPasswordExpiredToken(t *testing.T) {
	env := setupAuthEnv(t)
	env.registerVerified(t, "User", "expired@example.com", "password123")

	user, err := env.users.GetUserByEmail("expired@example.com")
	require.NoError(t, err)

	expiry := time.Now().Add(-time.Minute)
	user.ResetToken = "expired-token"
	user.ResetTokenExpiry = &expiry
	require.NoError(t, env.users.UpdateUser(user))

	w := env.post(t, "/api/v1/auth/reset-password", gin.H{
		"email":       "expired@example.com",
		"token":       "expired-token",
		"newPassword": "new-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	user, err = env.users.GetUserByEmail("expired@example.com")
	require.NoError(t, err)
	assert.True(t, user.CheckPassword("password123"))
}

func TestConcurrentStyleRegistrationKeepsSingleAdmin(t *testing.T) {
	env := setupAuthEnv(t)

	for i := 0; i < 5; i++ {
		w := env.register(t, fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@example.com", i), "password123")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	users, err := env.users.GetAllUsers()
	require.NoError(t, err)

	admins := 0
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			admins++
		}
	}
	assert.Equal(t, 1, admins)
}
