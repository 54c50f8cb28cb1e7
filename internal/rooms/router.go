package rooms

import (
	"roomly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoomRoutes(rg *gin.RouterGroup, controller Controller) {
	// Read and booking routes - any authenticated user
	roomsGroup := rg.Group("/rooms")
	roomsGroup.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		roomsGroup.GET("", controller.ListAvailable)              // GET /api/v1/rooms - Browse available rooms
		roomsGroup.GET("/recommend", controller.ListRecommended)  // GET /api/v1/rooms/recommend - Least-booked first
		roomsGroup.GET("/search", controller.SearchRooms)         // GET /api/v1/rooms/search - Filtered search
		roomsGroup.GET("/stats", controller.GetOccupancyStats)    // GET /api/v1/rooms/stats - Occupancy overview
		roomsGroup.POST("/allocate", controller.AllocateRoom)     // POST /api/v1/rooms/allocate - Pick and lock a room
		roomsGroup.POST("/:roomId/confirm", controller.ConfirmBooking) // POST /api/v1/rooms/:roomId/confirm
		roomsGroup.POST("/:roomId/release", controller.ReleaseRoom)    // POST /api/v1/rooms/:roomId/release
	}

	// Room management - Admin only
	adminRooms := rg.Group("/rooms")
	adminRooms.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminRooms.POST("", controller.CreateRoom) // POST /api/v1/rooms - Register a room
	}
}
