package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/container"
	"github.com/joshua-takyi/devevent/internal/handlers"
	"github.com/joshua-takyi/devevent/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger, cfg.IsDevelopment()))
	r.Use(gin.Recovery())

	auth := middleware.AuthMiddleware(container.Tokens, container.Logger)
	optionalAuth := middleware.OptionalAuth(container.Tokens)
	admin := middleware.RequireAdmin()
	secure := cfg.IsProduction()

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := container.Mongo.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "DEGRADED",
					"service": "devevent-api",
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "devevent-api",
			})
		})

		v1.POST("/auth/register", handlers.Register(container.UserService))
		v1.POST("/auth/login", handlers.Login(container.UserService, secure))
		v1.POST("/auth/logout", handlers.Logout(secure))
	}

	eventRoutes := v1.Group("/events")
	{
		eventRoutes.GET("", handlers.ListEvents(container.EventService))
		eventRoutes.GET("/:slug", handlers.GetEvent(container.EventService))
		eventRoutes.GET("/:slug/similar", handlers.SimilarEvents(container.EventService))
		eventRoutes.POST("/:slug/bookings", optionalAuth, handlers.BookEvent(container.BookingService))

		eventRoutes.POST("", auth, admin, handlers.CreateEvent(container.EventService))
		eventRoutes.PUT("/:slug", auth, admin, handlers.UpdateEvent(container.EventService))
		eventRoutes.DELETE("/:slug", auth, admin, handlers.DeleteEvent(container.EventService))
		eventRoutes.GET("/:slug/bookings", auth, admin, handlers.EventBookings(container.EventService))
	}

	bookingRoutes := v1.Group("/bookings")
	{
		bookingRoutes.POST("", optionalAuth, handlers.CreateBooking(container.BookingService))
		bookingRoutes.GET("", auth, admin, handlers.RecentBookings(container.StatsService))
		bookingRoutes.GET("/user/:userId", auth, handlers.UserBookings(container.BookingService))
		bookingRoutes.PATCH("/:id", auth, admin, handlers.ReassignBooking(container.BookingService))
		bookingRoutes.DELETE("/:id", auth, handlers.CancelBooking(container.BookingService))
	}

	userRoutes := v1.Group("/users", auth)
	{
		userRoutes.GET("/me", handlers.GetProfile(container.UserService))
		userRoutes.PATCH("/me", handlers.UpdateProfile(container.UserService))
		userRoutes.GET("", admin, handlers.ListUsers(container.UserService))
		userRoutes.PATCH("/:id/role", admin, handlers.UpdateUserRole(container.UserService))
	}

	statsRoutes := v1.Group("/admin/stats", auth, admin)
	{
		statsRoutes.GET("/overview", handlers.StatsOverview(container.StatsService))
		statsRoutes.GET("/popular", handlers.PopularEvents(container.StatsService))
		statsRoutes.GET("/upcoming", handlers.UpcomingEvents(container.StatsService))
		statsRoutes.GET("/recent", handlers.RecentBookings(container.StatsService))
		statsRoutes.GET("/growth", handlers.GrowthStats(container.StatsService))
		statsRoutes.GET("/events", handlers.EventStats(container.StatsService))
	}

	return r
}
