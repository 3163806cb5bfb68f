package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ausadhi/pos-api/internal/config"
	domainRepo "github.com/ausadhi/pos-api/internal/domain/repository"
	"github.com/ausadhi/pos-api/internal/presentation/http/handler"
	"github.com/ausadhi/pos-api/internal/presentation/http/middleware"
	"github.com/ausadhi/pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Vendor    *handler.VendorHandler
	Checkout  *handler.CheckoutHandler
	Sale      *handler.SaleHandler
	Report    *handler.ReportHandler
	Dashboard *handler.DashboardHandler
	User      *handler.UserHandler
	Printer   *handler.PrinterHandler
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

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

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
		auth.POST("/refresh", h.Auth.RefreshToken)
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

	// Dashboard
	protected.GET("/dashboard", middleware.RequirePermission("view-dashboard"), h.Dashboard.GetSummary)

	registerProductRoutes(protected, h)
	registerCategoryRoutes(protected, h)
	registerVendorRoutes(protected, h)
	registerCheckoutRoutes(protected, h, deps)
	registerSaleRoutes(protected, h)
	registerReportRoutes(protected, h)
	registerUserRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		// Cashiers need catalog reads to ring up sales; writes are admin-only.
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/near-expiry", h.Product.GetNearExpiry)
		products.GET("/barcode/:barcode", h.Product.GetByBarcode)
		products.GET("/:id", h.Product.Get)

		manage := products.Group("")
		manage.Use(middleware.RequirePermission("manage-products"))
		{
			manage.POST("", h.Product.Create)
			manage.PUT("/:id", h.Product.Update)
			manage.DELETE("/:id", h.Product.Delete)
		}
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Product.ListCategories)
		categories.POST("", middleware.RequirePermission("manage-products"), h.Product.CreateCategory)
	}
}

func registerVendorRoutes(protected *gin.RouterGroup, h *Handlers) {
	vendors := protected.Group("/vendors")
	vendors.Use(middleware.RequirePermission("manage-vendors"))
	{
		vendors.GET("", h.Vendor.List)
		vendors.POST("", h.Vendor.Create)
		vendors.GET("/:id", h.Vendor.Get)
		vendors.PUT("/:id", h.Vendor.Update)
		vendors.DELETE("/:id", h.Vendor.Delete)
	}
}

func registerCheckoutRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	sessions := protected.Group("/checkout/sessions")
	sessions.Use(middleware.RequirePermission("process-sales"))
	{
		sessions.POST("", h.Checkout.CreateSession)
		sessions.GET("/:id", h.Checkout.GetSession)
		sessions.DELETE("/:id", h.Checkout.DeleteSession)

		sessions.POST("/:id/items", h.Checkout.AddItem)
		sessions.DELETE("/:id/items", h.Checkout.ClearCart)
		sessions.PUT("/:id/items/:product_id", h.Checkout.SetQuantity)
		sessions.DELETE("/:id/items/:product_id", h.Checkout.RemoveItem)
		sessions.PUT("/:id/discount", h.Checkout.SetDiscount)

		sessions.POST("/:id/payments/cash", h.Checkout.BeginCash)
		sessions.POST("/:id/payments/qr", h.Checkout.BeginQR)
		sessions.GET("/:id/payments/qr", h.Checkout.QRStatus)
		sessions.POST("/:id/payments/qr/retry", h.Checkout.RetryQR)
		sessions.DELETE("/:id/payments", h.Checkout.CancelPayment)

		// Completion endpoints replay cached responses on retried
		// Idempotency-Key headers so a double submit cannot charge twice.
		idem := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})
		sessions.POST("/:id/payments/cash/confirm", idem, h.Checkout.ConfirmCash)
		sessions.POST("/:id/payments/qr/confirm", idem, h.Checkout.ConfirmQR)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers) {
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/void", middleware.RequirePermission("void-sales"), h.Sale.Void)
		sales.POST("/:id/email", h.Sale.EmailReceipt)
		sales.POST("/:id/print", h.Printer.PrintSaleReceipt)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission("view-reports"))
	{
		reports.GET("/summary", h.Report.Summary)
		reports.GET("/products", h.Report.ByProduct)
		reports.GET("/cashiers", h.Report.ByCashier)
		reports.GET("/payment-methods", h.Report.ByPaymentMethod)
		reports.GET("/daily", h.Report.Daily)
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
		users.DELETE("/:id", h.User.Delete)
	}

	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}
