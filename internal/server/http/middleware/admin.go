package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenshop/storefront/internal/domain/model"
)

// UserProvider loads a user record by identifier.
type UserProvider interface {
	User(ctx context.Context, id int64) (*model.User, error)
}

// AdminRequired rejects requests from non-admin users. It must run after
// AuthRequired.
func AdminRequired(users UserProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get(UserIDContextKey)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		userID, _ := val.(int64)

		user, err := users.User(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
