package api

import (
	"log"
	stdhttp "net/http"

	intconfig "ticketbooking/internal/config"
	h "ticketbooking/internal/http/handlers"
	"ticketbooking/internal/http/middleware"
	"ticketbooking/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Deps are the collaborators the router needs beyond the handlers.
type Deps struct {
	Tokens   services.TokenIssuer
	Sessions services.SessionStore
	// Redis backs idempotent booking submission; nil disables it.
	Redis *redis.Client
}

func NewRouter(env intconfig.Env, handlers *h.Handlers, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.Metrics(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	requireSession := middleware.RequireSession(deps.Tokens, deps.Sessions)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/endpoints", h.Endpoints)
		api.GET("/metrics", gin.WrapH(promhttp.Handler()))

		// Fare table and booking form helpers
		api.GET("/cities", handlers.Cities)
		api.GET("/routes", handlers.FareRoutes)
		api.POST("/quote", handlers.Quote)
		api.POST("/manifest", handlers.Manifest)
		api.POST("/validate", handlers.Validate)

		// Auth
		api.POST("/register", handlers.Register)
		api.POST("/login", handlers.Login)
		api.POST("/forgot-password", handlers.ForgotPassword)
		api.POST("/reset-password", handlers.ResetPassword)

		authed := api.Group("", requireSession)
		authed.POST("/logout", handlers.Logout)
		authed.GET("/user", handlers.CurrentUser)
		authed.PUT("/user/update", handlers.UpdateUser)

		// Bookings
		idem := middleware.Idempotency(deps.Redis)
		authed.POST("/bookings", idem, handlers.CreateBooking)
		authed.POST("/book", idem, handlers.CreateBooking)
		authed.GET("/my-bookings", handlers.MyBookings)
		authed.GET("/my_bookings", handlers.MyBookings)

		bookings := authed.Group("/bookings")
		bookings.GET("/:id", handlers.GetBooking)
		bookings.GET("/reference/:ref", handlers.GetBookingByReference)
		bookings.PUT("/:id/cancel", handlers.CancelBooking)
		bookings.DELETE("/:id/cancel", handlers.CancelBooking)
		bookings.POST("/:id/pay", idem, handlers.PayBooking)
		bookings.GET("/:id/download", handlers.DownloadTicket)
		bookings.GET("/:id/download-ticket", handlers.DownloadTicket)
		bookings.GET("/:id/receipt", handlers.DownloadReceipt)

		// Admin
		admin := authed.Group("/admin", middleware.RequireRoles("admin"))
		admin.GET("/stats", handlers.AdminStats)
		admin.PUT("/bookings/:id/status", handlers.AdminUpdateBookingStatus)
	}

	h.SetRouter(r)
	return r
}
