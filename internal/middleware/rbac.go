package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classwork-api/internal/service"
	"github.com/noah-isme/classwork-api/pkg/response"
)

// RequirePermission rejects callers whose role the access policy does not grant perm.
// Services repeat the check, so this only stops requests before any work is done.
func RequirePermission(policy *service.AccessPolicy, perm service.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policy.Authorize(Actor(c), perm); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
