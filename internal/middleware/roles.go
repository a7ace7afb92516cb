package middleware

import (
	"net/http"

	"spareparts-be/internal/user"
	"spareparts-be/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequireAuth aborts with 401 when the request carries no authenticated user.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIDFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireRoles allows the request only when the caller holds one of roles.
func RequireRoles(roles ...user.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, ok := utils.GetUserIDFromContext(ctx); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if _, ok := allowed[utils.GetUserRoleFromContext(ctx)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}
