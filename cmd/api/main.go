package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/voltmart/backoffice-api/internal/application/service"
	"github.com/voltmart/backoffice-api/internal/config"
	"github.com/voltmart/backoffice-api/internal/infrastructure/cache"
	"github.com/voltmart/backoffice-api/internal/infrastructure/database"
	"github.com/voltmart/backoffice-api/internal/infrastructure/repository"
	"github.com/voltmart/backoffice-api/internal/presentation/http/handler"
	"github.com/voltmart/backoffice-api/internal/presentation/http/routes"
	"github.com/voltmart/backoffice-api/internal/validation"
	"github.com/voltmart/backoffice-api/pkg/email"
	"github.com/voltmart/backoffice-api/pkg/oauth"
	"github.com/voltmart/backoffice-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default roles, permissions and the initial admin account
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Connect to Redis (OTP storage)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	otpStore := cache.NewOTPStore(redisClient)

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	productRepo := repository.NewProductRepository(db)
	productTypeRepo := repository.NewProductTypeRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	warehouseStockRepo := repository.NewWarehouseStockRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	saleItemRepo := repository.NewSaleItemRepository(db)
	discountLimitRepo := repository.NewDiscountLimitRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	otpExpiry := time.Duration(cfg.OTP.ExpiryMinutes) * time.Minute

	// Initialize services. The discount service doubles as the ceiling
	// resolver behind the sale composer.
	discountService := service.NewDiscountService(discountLimitRepo, userRepo)
	authService := service.NewAuthService(userRepo, jwtManager, otpStore, emailService, googleOAuthService, cfg.OTP.Length, otpExpiry)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)
	productService := service.NewProductService(productRepo, productTypeRepo)
	warehouseService := service.NewWarehouseService(warehouseRepo, warehouseStockRepo, productRepo)
	customerService := service.NewCustomerService(customerRepo)
	saleService := service.NewSaleService(
		saleRepo, saleItemRepo, productRepo, customerRepo, warehouseStockRepo,
		discountService, otpStore, emailService,
		cfg.OTP.Length, otpExpiry,
	)

	// Shared request validator
	validate := validation.New()

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Product:   handler.NewProductHandler(productService),
		Warehouse: handler.NewWarehouseHandler(warehouseService),
		Customer:  handler.NewCustomerHandler(customerService),
		Discount:  handler.NewDiscountHandler(discountService, validate),
		Sale:      handler.NewSaleHandler(saleService, validate),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
