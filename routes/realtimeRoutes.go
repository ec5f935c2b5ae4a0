package routes

import (
	"fixitnow-be/middlewares"
	"fixitnow-be/realtime"

	"github.com/gin-gonic/gin"
)

// RealtimeRoutes sets up the websocket change-feed route
func RealtimeRoutes(r *gin.Engine) {
	r.GET("/api/ws", middlewares.AuthMiddleware(), realtime.HandleWebSocket)
}
