package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RepairShopServices/mechanic-shop-api/internal/auth"
)

// RequireRoles rejects authenticated principals whose role is not in the
// allowed set. Runs after AuthMiddleware has attached the role.
func RequireRoles(roles ...auth.Role) gin.HandlerFunc {
	allowed := make(map[auth.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[PrincipalRole(c)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
