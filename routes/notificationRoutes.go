package routes

import (
	"fixitnow-be/controllers"
	"fixitnow-be/middlewares"

	"github.com/gin-gonic/gin"
)

// NotificationRoutes sets up the notification routes
func NotificationRoutes(r *gin.Engine) {
	notification := r.Group("/api/notifications", middlewares.AuthMiddleware())
	{
		notification.GET("", controllers.GetNotifications)
		notification.PATCH("/:id/read", controllers.MarkNotificationRead)
		notification.POST("/read-all", controllers.MarkAllNotificationsRead)
		notification.DELETE("/:id", controllers.DeleteNotification)
	}
}
