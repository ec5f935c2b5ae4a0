package routes

import (
	"fixitnow-be/controllers"
	"fixitnow-be/middlewares"
	"fixitnow-be/models"

	"github.com/gin-gonic/gin"
)

// FacilityRoutes sets up the facility catalog and review routes
func FacilityRoutes(r *gin.Engine) {
	facility := r.Group("/api/facilities")
	{
		facility.GET("", controllers.GetAllFacilities)
		facility.GET("/:id", controllers.GetFacility)
		facility.GET("/:id/reviews", controllers.GetFacilityReviews)
		facility.POST("/:id/reviews", middlewares.AuthMiddleware(), controllers.SubmitReview)

		admin := facility.Group("", middlewares.AuthMiddleware(), middlewares.RequireRoles(models.RoleAdmin))
		{
			admin.POST("", controllers.CreateFacility)
			admin.PUT("/:id", controllers.UpdateFacility)
			admin.DELETE("/:id", controllers.DeleteFacility)
		}
	}
}
