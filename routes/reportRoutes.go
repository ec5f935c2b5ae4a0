package routes

import (
	"fixitnow-be/controllers"
	"fixitnow-be/middlewares"
	"fixitnow-be/models"

	"github.com/gin-gonic/gin"
)

// ReportRoutes sets up the damage report routes
func ReportRoutes(r *gin.Engine) {
	report := r.Group("/api/reports", middlewares.AuthMiddleware())
	{
		report.POST("", middlewares.ReportRateLimiter(10), controllers.CreateReport)
		report.GET("", middlewares.RequireRoles(models.RoleAdmin, models.RoleGovernment), controllers.GetAllReports)
		report.GET("/mine", controllers.GetMyReports)
		report.GET("/assigned", middlewares.RequireRoles(models.RoleTechnician), controllers.GetAssignedReports)
		report.GET("/:id", controllers.GetReport)
		report.PATCH("/:id/status", middlewares.RequireRoles(models.RoleAdmin, models.RoleTechnician), controllers.UpdateReportStatus)
		report.POST("/:id/assign", middlewares.RequireRoles(models.RoleAdmin), controllers.AssignReport)
		report.POST("/:id/unassign", middlewares.RequireRoles(models.RoleAdmin), controllers.UnassignReport)
	}
}
