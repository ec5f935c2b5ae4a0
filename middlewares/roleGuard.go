package middlewares

import (
	"net/http"

	"fixitnow-be/models"

	"github.com/gin-gonic/gin"
)

// RequireRoles rejects requests whose token role is not in the allowed set.
// Runs after AuthMiddleware, which stores the role claim on the context.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "No role associated with this account"})
			c.Abort()
			return
		}

		role, ok := roleVal.(string)
		if !ok || !allowed[models.UserRole(role)] {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to access this resource"})
			c.Abort()
			return
		}

		c.Next()
	}
}
