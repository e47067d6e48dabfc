package auth

import (
	"fmt"
	"time"

	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated principal resolved from a session token.
type Identity struct {
	UserID uint
	Role   models.Role
}

// TokenManager issues and validates the signed session tokens carried in
// the session cookie. Tokens are stateless: there is no server-side
// revocation list, they die by expiry or by clearing the cookie.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a manager signing with the given secret and
// issuing tokens valid for ttl.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime.
func (t *TokenManager) TTL() time.Duration {
	return t.ttl
}

// Issue produces a signed token binding the user's identity and role.
func (t *TokenManager) Issue(userID uint, role models.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate parses and verifies a token and returns the identity it encodes.
// Every failure mode (bad signature, expiry, malformed token, unknown role)
// returns models.ErrInvalidToken so the HTTP layer can answer with one
// generic 401 that leaks nothing about which check failed.
func (t *TokenManager) Validate(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Reject anything but HMAC to prevent algorithm confusion attacks.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.ErrInvalidToken
	}

	// JSON numbers decode as float64.
	uid, ok := claims["uid"].(float64)
	if !ok || uid <= 0 {
		return nil, models.ErrInvalidToken
	}

	roleClaim, ok := claims["role"].(string)
	if !ok {
		return nil, models.ErrInvalidToken
	}
	role := models.Role(roleClaim)
	if !role.Valid() {
		return nil, models.ErrInvalidToken
	}

	return &Identity{UserID: uint(uid), Role: role}, nil
}
