// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"opticore/internal/domain/auth"
	"opticore/internal/domain/catalogs/brand"
	"opticore/internal/domain/catalogs/product"
	"opticore/internal/domain/catalogs/store"
	"opticore/internal/domain/catalogs/storegroup"
	"opticore/internal/domain/inventory"
	"opticore/internal/domain/orders"
	"opticore/internal/domain/pricing"
	"opticore/internal/domain/receivables"
	"opticore/internal/infrastructure/http/v1/handlers"
	"opticore/internal/infrastructure/http/v1/middleware"
	"opticore/internal/infrastructure/storage/postgres"
	"opticore/pkg/logger"
)

// RouterConfig holds the wired services for the API router.
// Construction happens in cmd/server; the router only maps them to routes.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// IdempotencyStore enables replay protection when non-nil
	IdempotencyStore *postgres.IdempotencyStore

	// Domain services
	Brands      *brand.Service
	StoreGroups *storegroup.Service
	Stores      *store.Service
	Products    *product.Service
	Orders      *orders.Service
	Receivables *receivables.Service
	Inventory   *inventory.Service
	Pricing     *pricing.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		// Protected endpoints
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		// Apply idempotency middleware for mutating operations
		if cfg.IdempotencyStore != nil {
			protected.Use(middleware.Idempotency(cfg.IdempotencyStore))
		}

		registerCatalogRoutes(protected, cfg)
		registerOrderRoutes(protected, cfg)
		registerReceivableRoutes(protected, cfg)
		registerStockRoutes(protected, cfg)
		registerPricingRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- BRANDS ---
	{
		handler := handlers.NewBrandHandler(baseHandler, cfg.Brands)
		RegisterCatalogRoutes(catalogs.Group("/brands"), handler, "catalog:brand")
	}

	// --- STORE GROUPS ---
	{
		handler := handlers.NewStoreGroupHandler(baseHandler, cfg.StoreGroups)
		RegisterCatalogRoutes(catalogs.Group("/store-groups"), handler, "catalog:store_group")
	}

	// --- STORES ---
	{
		handler := handlers.NewStoreHandler(baseHandler, cfg.Stores)
		group := catalogs.Group("/stores")
		group.GET("/over-credit-limit", middleware.RequirePermission("receivables:read"), handler.OverCreditLimit)
		RegisterCatalogRoutes(group, handler, "catalog:store")
	}

	// --- PRODUCTS + VARIANTS ---
	{
		handler := handlers.NewProductHandler(baseHandler, cfg.Products)
		group := catalogs.Group("/products")
		RegisterCatalogRoutes(group, handler, "catalog:product")
		group.POST("/:id/variants", middleware.RequirePermission("catalog:product:create"), handler.CreateVariant)
		group.GET("/:id/variants", middleware.RequirePermission("catalog:product:read"), handler.ListVariants)

		variants := catalogs.Group("/variants")
		variants.GET("/:id", middleware.RequirePermission("catalog:product:read"), handler.GetVariant)
		variants.PUT("/:id", middleware.RequirePermission("catalog:product:update"), handler.UpdateVariant)
		variants.POST("/:id/deactivate", middleware.RequirePermission("catalog:product:update"), handler.DeactivateVariant)
	}
}

// registerOrderRoutes registers the order document endpoints.
func registerOrderRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewOrderHandler(baseHandler, cfg.Orders)
	RegisterOrderRoutes(rg.Group("/orders"), handler, "document:order")
}

// registerReceivableRoutes registers the store balance ledger endpoints.
func registerReceivableRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewReceivablesHandler(baseHandler, cfg.Receivables)

	stores := rg.Group("/stores/:id")
	stores.GET("/balance", middleware.RequirePermission("receivables:read"), handler.Balance)
	stores.GET("/transactions", middleware.RequirePermission("receivables:read"), handler.History)
	stores.POST("/deposits", middleware.RequirePermission("receivables:deposit"), handler.Deposit)
	stores.POST("/discounts", middleware.RequirePermission("receivables:discount"), handler.Discount)
	stores.POST("/returns", middleware.RequirePermission("receivables:return"), handler.Return)
	stores.POST("/verify", middleware.RequirePermission("receivables:read"), handler.Verify)
}

// registerStockRoutes registers the stock ledger endpoints.
func registerStockRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewStockHandler(baseHandler, cfg.Inventory)

	variants := rg.Group("/variants/:id")
	variants.GET("/stock", middleware.RequirePermission("stock:read"), handler.Current)
	variants.GET("/movements", middleware.RequirePermission("stock:read"), handler.History)
	variants.POST("/receive", middleware.RequirePermission("stock:receive"), handler.Receive)
	variants.POST("/adjust", middleware.RequirePermission("stock:adjust"), handler.Adjust)
	variants.POST("/verify", middleware.RequirePermission("stock:read"), handler.Verify)

	rg.POST("/stock/bulk-adjust", middleware.RequirePermission("stock:adjust"), handler.BulkAdjust)
}

// registerPricingRoutes registers price resolution and rule endpoints.
func registerPricingRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewPricingHandler(baseHandler, cfg.Pricing)

	stores := rg.Group("/stores/:id")
	stores.GET("/prices/:productId", middleware.RequirePermission("pricing:read"), handler.PriceForStore)
	stores.POST("/price-list", middleware.RequirePermission("pricing:read"), handler.PriceList)

	rules := stores.Group("/rules")
	rules.PUT("/special-price", middleware.RequirePermission("pricing:manage"), handler.SetSpecialPrice)
	rules.DELETE("/special-price/:productId", middleware.RequirePermission("pricing:manage"), handler.RemoveSpecialPrice)
	rules.PUT("/product-discount", middleware.RequirePermission("pricing:manage"), handler.SetProductDiscount)
	rules.DELETE("/product-discount/:productId", middleware.RequirePermission("pricing:manage"), handler.RemoveProductDiscount)
	rules.PUT("/brand-discount", middleware.RequirePermission("pricing:manage"), handler.SetBrandDiscount)
	rules.DELETE("/brand-discount/:brandId", middleware.RequirePermission("pricing:manage"), handler.RemoveBrandDiscount)
}
