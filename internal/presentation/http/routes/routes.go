package routes

import (
	"github.com/ferreteria/ordenes-api/internal/config"
	"github.com/ferreteria/ordenes-api/internal/domain/enum"
	"github.com/ferreteria/ordenes-api/internal/presentation/http/handler"
	"github.com/ferreteria/ordenes-api/internal/presentation/http/middleware"
	"github.com/ferreteria/ordenes-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Order   *handler.OrderHandler
	Receipt *handler.ReceiptHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager  *utils.JWTManager
	Cfg         *config.Config
	Log         zerolog.Logger
	RateLimiter *middleware.RateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(
			deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration))
	}

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h, limiter)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(limiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers, limiter *middleware.RateLimiter) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", limiter.Middleware(), h.Auth.Login)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/password", h.Auth.ChangePassword)

	registerUserRoutes(protected, h)
	registerOrderRoutes(protected, h)
	registerReceiptRoutes(protected, h)
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireRole(enum.RoleAdmin))
	{
		users.POST("", h.User.Create)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers) {
	orders := protected.Group("/orders")
	{
		orders.GET("/next-code", h.Order.NextCode)
		orders.POST("", h.Order.Submit)
		orders.GET("", h.Order.List)
		orders.GET("/:code", h.Order.Get)
		orders.POST("/:code/receipt", h.Receipt.Issue)
		orders.GET("/:code/receipt", h.Receipt.ForOrder)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/printer/status", h.Receipt.PrinterStatus)

	receipts := protected.Group("/receipts")
	{
		receipts.GET("/:code", h.Receipt.Get)
		receipts.GET("/:code/pdf", h.Receipt.PDF)
		receipts.POST("/:code/print", h.Receipt.Print)
	}
}
