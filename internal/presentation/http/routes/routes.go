package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/voltmart/backoffice-api/internal/config"
	domainRepo "github.com/voltmart/backoffice-api/internal/domain/repository"
	"github.com/voltmart/backoffice-api/internal/presentation/http/handler"
	"github.com/voltmart/backoffice-api/internal/presentation/http/middleware"
	"github.com/voltmart/backoffice-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Product   *handler.ProductHandler
	Warehouse *handler.WarehouseHandler
	Customer  *handler.CustomerHandler
	Discount  *handler.DiscountHandler
	Sale      *handler.SaleHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/login/verify-otp", h.Auth.VerifyOTP)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	registerProductRoutes(protected, h)
	registerProductTypeRoutes(protected, h)
	registerWarehouseRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerSaleRoutes(protected, h, deps)
	registerDiscountRoutes(protected, h)
	registerUserRoutes(protected, h)
	registerRoleRoutes(protected, h)
	registerPermissionRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Listing is open to any authenticated employee; sale entry needs it
	protected.GET("/products", h.Product.List)
	protected.GET("/products/:id", h.Product.Get)

	products := protected.Group("/products")
	products.Use(middleware.RequirePermission("manage-products"))
	{
		products.POST("", h.Product.Create)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerProductTypeRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/product-types", h.Product.ListTypes)

	types := protected.Group("/product-types")
	types.Use(middleware.RequirePermission("manage-product-types"))
	{
		types.POST("", h.Product.CreateType)
		types.PUT("/:id", h.Product.UpdateType)
		types.DELETE("/:id", h.Product.DeleteType)
	}
}

func registerWarehouseRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Warehouse picker and per-warehouse catalog for the sale-entry screen
	protected.GET("/warehouses", h.Warehouse.List)
	protected.GET("/warehouses/:id/stock", h.Warehouse.ListStock)

	warehouses := protected.Group("/warehouses")
	warehouses.Use(middleware.RequirePermission("manage-warehouses"))
	{
		warehouses.POST("", h.Warehouse.Create)
		warehouses.GET("/:id", h.Warehouse.Get)
		warehouses.PUT("/:id", h.Warehouse.Update)
		warehouses.DELETE("/:id", h.Warehouse.Delete)
	}

	stock := protected.Group("/warehouses")
	stock.Use(middleware.RequirePermission("manage-stock"))
	{
		stock.PUT("/:id/stock", h.Warehouse.SetStock)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission("manage-customers"))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := protected.Group("/sales")
	sales.Use(middleware.RequirePermission("manage-sales"))
	{
		sales.GET("", h.Sale.List)
		// Sale submission uses idempotency middleware so a retried request
		// cannot create a duplicate sale or decrement stock twice
		sales.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Sale.Create)
		sales.GET("/:id", h.Sale.Get)

		// Ceiling resolution and discount preview for the sale-entry screen
		sales.GET("/discount-ceiling", h.Discount.ResolveCeiling)
		sales.POST("/validate-discount", h.Discount.ValidateDiscount)
	}

	delivery := protected.Group("/sales")
	delivery.Use(middleware.RequirePermission("deliver-sales"))
	{
		delivery.POST("/:id/delivery-otp", h.Sale.RequestDeliveryOTP)
		delivery.POST("/:id/deliver", h.Sale.ConfirmDelivery)
	}

	cancel := protected.Group("/sales")
	cancel.Use(middleware.RequirePermission("cancel-sales"))
	{
		cancel.POST("/:id/cancel", h.Sale.Cancel)
	}
}

func registerDiscountRoutes(protected *gin.RouterGroup, h *Handlers) {
	limits := protected.Group("/discount-limits")
	limits.Use(middleware.RequirePermission("manage-discount-limits"))
	{
		limits.GET("", h.Discount.List)
		limits.POST("", h.Discount.Create)
		limits.GET("/:id", h.Discount.Get)
		limits.PUT("/:id", h.Discount.Update)
		limits.DELETE("/:id", h.Discount.Delete)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerRoleRoutes(protected *gin.RouterGroup, h *Handlers) {
	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
		roles.POST("", h.User.CreateRole)
		roles.PUT("/:id/permissions", h.User.SyncPermissions)
		roles.DELETE("/:id", h.User.DeleteRole)
	}
}

func registerPermissionRoutes(protected *gin.RouterGroup, h *Handlers) {
	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission("manage-users"))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}
