// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/velora-shop/velora-backend/internal/config"
	"github.com/velora-shop/velora-backend/internal/handlers"
	"github.com/velora-shop/velora-backend/internal/middleware"
	"github.com/velora-shop/velora-backend/internal/services"
	"github.com/velora-shop/velora-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	inventoryService := services.NewInventoryService(db)
	paymentService := services.NewPaymentService(cfg)

	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db, cfg, inventoryService)
	orderService := services.NewOrderService(db, cfg, inventoryService, paymentService, notificationService)
	adminService := services.NewAdminService(db, cfg, inventoryService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	orderHandler := handlers.NewOrderHandler(orderService, adminService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/catalog", productHandler.GetCatalog)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)

			// Admin catalog management
			admin := products.Group("")
			admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				admin.POST("", productHandler.CreateProduct)
				admin.PUT("/:id", productHandler.UpdateProduct)
				admin.DELETE("/:id", productHandler.DeleteProduct)
				admin.PUT("/:id/variants/:variantId/stock", productHandler.UpdateVariantStock)
				admin.POST("/images", middleware.UploadRateLimit(), productHandler.UploadImages)
			}
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", middleware.CheckoutRateLimit(), orderHandler.CreateOrder)
			orders.GET("", orderHandler.GetMyOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)

			// Admin order management
			admin := orders.Group("")
			admin.Use(middleware.AdminRequired())
			{
				admin.GET("/admin/all", orderHandler.GetAllOrders)
				admin.PUT("/:id/status", orderHandler.UpdateOrderStatus)
			}
		}

		// Admin routes
		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			adminGroup.GET("/dashboard/stats", adminHandler.GetDashboardStats)
			adminGroup.GET("/customers", adminHandler.GetCustomers)
		}
	}

	return r
}
