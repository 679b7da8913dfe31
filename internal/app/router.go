package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"parkspot/internal/handler"
	"parkspot/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler         *handler.UserHandler
	SpaceHandler        *handler.SpaceHandler
	BookingHandler      *handler.BookingHandler
	PaymentHandler      *handler.PaymentHandler
	ReferralHandler     *handler.ReferralHandler
	NotificationHandler *handler.NotificationHandler
	AdminHandler        *handler.AdminHandler
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
			users.GET("/:id", deps.UserHandler.GetUser)
			users.GET("/:id/bookings", deps.BookingHandler.GetUserBookings)
			users.GET("/:id/payments", deps.PaymentHandler.GetUserPayments)
			users.POST("/:id/referral-code", deps.ReferralHandler.GetCode)
			users.GET("/:id/referral-stats", deps.ReferralHandler.GetStats)
			users.GET("/:id/notifications", deps.NotificationHandler.List)
			users.PUT("/:id/notifications/read", deps.NotificationHandler.MarkAllRead)
		}

		// Parking space routes.
		spaces := v1.Group("/spaces")
		{
			spaces.POST("", deps.SpaceHandler.CreateSpace)
			spaces.GET("", deps.SpaceHandler.ListSpaces)
			spaces.GET("/nearby", deps.SpaceHandler.FindNearby)
			spaces.PUT("/availability", deps.SpaceHandler.BulkUpdateAvailability)
			spaces.GET("/:id", deps.SpaceHandler.GetSpace)
			spaces.PUT("/:id", deps.SpaceHandler.UpdateSpace)
			spaces.PUT("/:id/availability", deps.SpaceHandler.UpdateAvailability)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.CreateBooking)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.PUT("/:id", deps.BookingHandler.UpdateBooking)
			bookings.POST("/:id/cancel", deps.BookingHandler.CancelBooking)
			bookings.DELETE("/:id", deps.BookingHandler.DeleteBooking)
			bookings.PUT("/:id/status", deps.BookingHandler.UpdateBookingStatus)
			bookings.GET("/:id/payments", deps.PaymentHandler.GetBookingPayments)
		}

		// Payment routes.
		payments := v1.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.ProcessPayment)
			payments.GET("/:id", deps.PaymentHandler.GetPayment)
			payments.POST("/:id/refund", deps.PaymentHandler.RefundPayment)
		}

		// Referral routes.
		referrals := v1.Group("/referrals")
		{
			referrals.POST("/validate", deps.ReferralHandler.Validate)
			referrals.GET("/leaderboard", deps.ReferralHandler.Leaderboard)
		}

		// Notification routes.
		notifications := v1.Group("/notifications")
		{
			notifications.POST("/availability", deps.NotificationHandler.Subscribe)
			notifications.PUT("/:id/read", deps.NotificationHandler.MarkRead)
		}

		// Admin routes.
		admin := v1.Group("/admin")
		{
			admin.GET("/referrals", deps.ReferralHandler.Summary)
			admin.POST("/sweep", deps.AdminHandler.Sweep)
		}
	}

	return router
}
