// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cuentasgo/backoffice/internal/config"
	"github.com/cuentasgo/backoffice/internal/handlers"
	"github.com/cuentasgo/backoffice/internal/middleware"
	"github.com/cuentasgo/backoffice/internal/services"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	purchaseService := services.NewPurchaseService(db)
	walletService := services.NewWalletService(db)
	settlementService := services.NewSettlementService(purchaseService, walletService, db)
	commissionService := services.NewCommissionService(db)

	// Initialize handlers
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService, settlementService)
	commissionHandler := handlers.NewCommissionHandler(commissionService)
	walletHandler := handlers.NewWalletHandler(walletService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())

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
		admin := v1.Group("/admin")
		{
			// Purchase lifecycle
			purchases := admin.Group("/purchases")
			{
				purchases.GET("", purchaseHandler.GetPurchases)
				purchases.GET("/:id", purchaseHandler.GetPurchase)
				purchases.GET("/:id/expiration", purchaseHandler.GetPurchaseExpiration)
				purchases.PUT("/:id/status", purchaseHandler.UpdatePurchaseStatus)
				purchases.POST("/bulk-status", middleware.BulkRateLimit(), purchaseHandler.BulkUpdateStatus)
			}

			// Wallet balances (read-only)
			wallets := admin.Group("/wallets")
			{
				wallets.GET("/:user_id", walletHandler.GetBalance)
			}

			// Commission configuration and reporting
			configs := admin.Group("/commission-configs")
			{
				configs.GET("", commissionHandler.GetConfigs)
				configs.POST("", commissionHandler.AppendConfig)
			}

			commissions := admin.Group("/commissions")
			{
				commissions.GET("/quote", commissionHandler.Quote)
				commissions.POST("/report", commissionHandler.Report)
			}
		}
	}

	return r
}
