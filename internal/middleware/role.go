package middleware

import (
	"net/http"

	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole rejects with 403 unless the authenticated identity holds one
// of the given roles. It must run after Authenticate. There is no role
// hierarchy: admin does not implicitly pass a user-only check.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "authentication invalid"))
			c.Abort()
			return
		}

		if _, ok := allowed[identity.Role]; !ok {
			c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrCodeForbidden, "insufficient permissions"))
			c.Abort()
			return
		}

		c.Next()
	}
}
