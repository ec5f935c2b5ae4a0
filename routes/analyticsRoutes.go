package routes

import (
	"fixitnow-be/controllers"
	"fixitnow-be/middlewares"
	"fixitnow-be/models"

	"github.com/gin-gonic/gin"
)

// AnalyticsRoutes sets up the dashboard analytics route
func AnalyticsRoutes(r *gin.Engine) {
	r.GET("/api/analytics",
		middlewares.AuthMiddleware(),
		middlewares.RequireRoles(models.RoleAdmin, models.RoleGovernment),
		controllers.GetAnalytics,
	)
}
