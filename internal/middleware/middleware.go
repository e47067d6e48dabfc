package middleware

import (
	"net/http"

	"github.com/dmarrero/gin-shop-api/internal/auth"
	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Context keys set by Authenticate and read by downstream handlers.
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// Authenticate resolves the identity from the session cookie and attaches
// it to the request context. A missing or invalid token is always answered
// with the same generic 401 so callers cannot probe which check failed.
func Authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(auth.SessionCookieName)
		if err != nil || tokenString == "" {
			respondUnauthenticated(c)
			return
		}

		identity, err := tokens.Validate(tokenString)
		if err != nil {
			log.WithField("path", c.Request.URL.Path).Debug("session token rejected")
			respondUnauthenticated(c)
			return
		}

		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextUserRole, identity.Role)
		c.Next()
	}
}

// CurrentIdentity reads the identity set by Authenticate. The boolean is
// false when the request never passed the authentication middleware.
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return auth.Identity{}, false
	}
	role, ok := c.Get(ContextUserRole)
	if !ok {
		return auth.Identity{}, false
	}

	id, okID := userID.(uint)
	r, okRole := role.(models.Role)
	if !okID || !okRole {
		return auth.Identity{}, false
	}
	return auth.Identity{UserID: id, Role: r}, true
}

func respondUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "authentication invalid"))
	c.Abort()
}
