package rmiddleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/futsapp/internal/user"
)

// PermissionChecker answers capability checks for the signed-in user.
type PermissionChecker interface {
	HasPermission(capability user.Capability) bool
}

// RequirePermission aborts with 403 unless the current user holds every listed capability.
// It must run after middleware.RequireUser.
func RequirePermission(checker PermissionChecker, capabilities ...user.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, capability := range capabilities {
			if !checker.HasPermission(capability) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"status":   "error",
					"message":  "You don't have permission to access this resource",
					"code":     http.StatusForbidden,
					"required": capabilities,
				})
				return
			}
		}
		c.Next()
	}
}

// CreatorMiddleware gates match creation.
func CreatorMiddleware(checker PermissionChecker) gin.HandlerFunc {
	return RequirePermission(checker, user.CanCreateMatch)
}

// DeleterMiddleware gates match deletion.
func DeleterMiddleware(checker PermissionChecker) gin.HandlerFunc {
	return RequirePermission(checker, user.CanDeleteMatch)
}
