package routes

import (
	"fixitnow-be/controllers"
	"fixitnow-be/middlewares"
	"fixitnow-be/models"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up the admin user management routes
func UserRoutes(r *gin.Engine) {
	user := r.Group("/api/users", middlewares.AuthMiddleware(), middlewares.RequireRoles(models.RoleAdmin))
	{
		user.GET("", controllers.ListUsers)
		user.POST("", controllers.CreateUser)
		user.PATCH("/:id/role", controllers.UpdateUserRole)
		user.GET("/technicians", controllers.GetTechnicians)
	}
}
