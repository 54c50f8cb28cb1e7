package hotels

import (
	"roomly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupHotelRoutes(rg *gin.RouterGroup, controller Controller) {
	hotelsGroup := rg.Group("/hotels")
	hotelsGroup.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		hotelsGroup.GET("", controller.ListHotels)
		hotelsGroup.GET("/:id", controller.GetHotel)
	}

	admin := rg.Group("/hotels")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateHotel)
	}
}
