// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"roomly/internal/auth"
	"roomly/internal/hotels"
	"roomly/internal/notifications"
	"roomly/internal/rooms"
	"roomly/internal/shared/config"
	"roomly/internal/shared/database"
	"roomly/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	cacheService cache.Service
	producer     notifications.RoomEventProducer // nil when Kafka is disabled
	roomService  rooms.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config:       cfg,
		db:           db,
		cacheService: cache.NewService(db.GetRedisClient()),
	}
}

// SetEventProducer injects the optional Kafka producer
func (r *Router) SetEventProducer(producer notifications.RoomEventProducer) {
	r.producer = producer
}

// RoomService exposes the wired room service so background jobs can share it
func (r *Router) RoomService() rooms.Service {
	return r.roomService
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// Hotel routes come first: the room service groups stats by hotel
		hotelService := r.setupHotelRoutes(api)
		r.setupRoomRoutes(api, hotelService)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "roomly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "roomly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupHotelRoutes configures hotel management routes
func (r *Router) setupHotelRoutes(rg *gin.RouterGroup) hotels.Service {
	hotelRepo := hotels.NewRepository(r.db.GetPostgreSQL())
	hotelService := hotels.NewService(hotelRepo)
	hotelController := hotels.NewController(hotelService)

	hotels.SetupHotelRoutes(rg, hotelController)
	return hotelService
}

// setupRoomRoutes configures room allocation and query routes
func (r *Router) setupRoomRoutes(rg *gin.RouterGroup, hotelService hotels.Service) {
	roomRepo := rooms.NewRepository(r.db.GetPostgreSQL())
	roomService := rooms.NewService(roomRepo, hotels.NewRegistryAdapter(hotelService))

	// Inject cache service dependency
	roomService.SetCacheService(r.cacheService)

	// Inject event publisher dependency when Kafka is enabled
	if r.producer != nil {
		roomService.SetEventPublisher(r.producer)
	}

	r.roomService = roomService

	roomController := rooms.NewController(roomService)
	rooms.SetupRoomRoutes(rg, roomController)
}
