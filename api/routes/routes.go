package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/modu-events/lotto-backend/internal/config"
	"github.com/modu-events/lotto-backend/internal/handlers"
	"github.com/modu-events/lotto-backend/internal/middleware"
)

// HandlerDependencies carries the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler          *handlers.AuthHandler
	EventHandler         *handlers.EventHandler
	ParticipationHandler *handlers.ParticipationHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}

		events := public.Group("/events")
		{
			events.GET("", deps.EventHandler.ListEvents)
			events.GET("/:id", deps.EventHandler.GetEvent)
		}
	}

	// Authenticated routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		participation := protected.Group("/participation")
		{
			participation.POST("/apply", deps.ParticipationHandler.Apply)
			participation.GET("/my-apps", deps.ParticipationHandler.MyApplications)
			participation.POST("/lotto/draw", deps.ParticipationHandler.Draw)
		}
	}

	// Admin routes
	admin := router.Group("/api/v1")
	admin.Use(middleware.JWTAuthMiddleware(cfg), middleware.AdminOnly())
	{
		events := admin.Group("/events")
		{
			events.POST("", deps.EventHandler.CreateEvent)
			events.DELETE("/:id", deps.EventHandler.DeleteEvent)
			events.POST("/:id/winners", deps.EventHandler.AnnounceWinners)
			events.GET("/:id/applications", deps.EventHandler.EventApplications)
		}
	}

	return router
}
