package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ausadhi/pos-api/internal/application/service"
	"github.com/ausadhi/pos-api/internal/checkout"
	"github.com/ausadhi/pos-api/internal/config"
	"github.com/ausadhi/pos-api/internal/infrastructure/database"
	"github.com/ausadhi/pos-api/internal/infrastructure/repository"
	"github.com/ausadhi/pos-api/internal/presentation/http/handler"
	"github.com/ausadhi/pos-api/internal/presentation/http/routes"
	"github.com/ausadhi/pos-api/pkg/email"
	"github.com/ausadhi/pos-api/pkg/oauth"
	"github.com/ausadhi/pos-api/pkg/printer"
	"github.com/ausadhi/pos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

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

	// Seed roles, permissions, default staff and the starter catalog
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUser,
		SMTPPassword: cfg.Email.SMTPPass,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromAddress,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(
		cfg.OAuth.GoogleClientID,
		cfg.OAuth.GoogleClientSecret,
		cfg.OAuth.GoogleRedirectURL,
	)

	// Checkout session manager holds the in-memory carts and payment timers
	sessionManager := checkout.NewManager(checkout.Config{
		QRWindow:   time.Duration(cfg.Checkout.QRWindowSeconds) * time.Second,
		QRRefresh:  time.Duration(cfg.Checkout.QRRefreshSeconds) * time.Second,
		SessionTTL: time.Duration(cfg.Checkout.SessionTTLHours) * time.Hour,
	})
	defer sessionManager.Close()

	// Initialize thermal printer
	printerAddress := cfg.Printer.Host
	if printerAddress != "" && cfg.Printer.Port != "" {
		printerAddress = printerAddress + ":" + cfg.Printer.Port
	}
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		Device:  cfg.Printer.Device,
		Address: printerAddress,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter, _ = printer.New(printer.Config{Type: "null"})
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtManager, googleOAuthService)
	productService := service.NewProductService(productRepo, categoryRepo)
	vendorService := service.NewVendorService(vendorRepo)
	checkoutService := service.NewCheckoutService(sessionManager, productRepo, saleRepo, userRepo, cfg.Store)
	printerService := service.NewPrinterService(thermalPrinter, saleRepo, cfg.Store, cfg.Printer.Width, cfg.Printer.Enabled)
	saleService := service.NewSaleService(saleRepo, productRepo, emailService, printerService)
	reportService := service.NewReportService(reportRepo)
	dashboardService := service.NewDashboardService(reportRepo, productRepo, saleRepo)
	userService := service.NewUserService(userRepo, roleRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Vendor:    handler.NewVendorHandler(vendorService),
		Checkout:  handler.NewCheckoutHandler(checkoutService),
		Sale:      handler.NewSaleHandler(saleService),
		Report:    handler.NewReportHandler(reportService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		User:      handler.NewUserHandler(userService),
		Printer:   handler.NewPrinterHandler(printerService),
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
