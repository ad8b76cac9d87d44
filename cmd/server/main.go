// Package main is the entry point for the opticore API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"opticore/internal/domain/auth"
	"opticore/internal/domain/catalogs/brand"
	"opticore/internal/domain/catalogs/product"
	"opticore/internal/domain/catalogs/store"
	"opticore/internal/domain/catalogs/storegroup"
	"opticore/internal/domain/inventory"
	"opticore/internal/domain/ledger"
	"opticore/internal/domain/orders"
	"opticore/internal/domain/pricing"
	"opticore/internal/domain/receivables"
	v1 "opticore/internal/infrastructure/http/v1"
	"opticore/internal/infrastructure/storage/postgres"
	"opticore/internal/infrastructure/storage/postgres/auth_repo"
	"opticore/internal/infrastructure/storage/postgres/catalog_repo"
	"opticore/internal/infrastructure/storage/postgres/document_repo"
	"opticore/internal/infrastructure/storage/postgres/ledger_repo"
	"opticore/internal/infrastructure/storage/postgres/pricing_repo"
	"opticore/pkg/logger"
	"opticore/pkg/numerator"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting opticore server")

	// --- Database connection ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalw("failed to ping database", "error", err)
	}
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// Numerator calls run outside business transactions (number gaps on
	// rollback are acceptable), so it queries the pool directly.
	numeratorService := numerator.New(pool)

	// --- JWT Service ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Auth Service ---
	authService := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewRoleRepo(txManager),
		auth_repo.NewPermissionRepo(txManager),
		auth_repo.NewTokenRepo(txManager),
		txManager,
		jwtService,
		auth.DefaultServiceConfig(),
	)

	// --- Catalog services ---
	storeRepo := catalog_repo.NewStoreRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	variantRepo := catalog_repo.NewVariantRepo(txManager)

	brandService := brand.NewService(catalog_repo.NewBrandRepo(txManager), txManager, numeratorService)
	storeGroupService := storegroup.NewService(catalog_repo.NewStoreGroupRepo(txManager), txManager, numeratorService)
	storeService := store.NewService(storeRepo, txManager, numeratorService)
	productService := product.NewService(productRepo, variantRepo, txManager, numeratorService)

	// Catalog mutations leave an audit trail
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}
	postgres.RegisterCatalogAudit(brandService.CatalogService, auditService, "brand")
	postgres.RegisterCatalogAudit(storeGroupService.CatalogService, auditService, "store_group")
	postgres.RegisterCatalogAudit(storeService.CatalogService, auditService, "store")
	postgres.RegisterCatalogAudit(productService.CatalogService, auditService, "product")

	// --- Balance ledgers ---
	// Receivables clamp at zero: an overpaying store settles at 0, the
	// surplus is written off. Stock rejects below zero except for
	// adjustments, which record reality even when reality is negative.
	receivableStore := ledger_repo.NewReceivableStore(txManager)
	receivableLedger := ledger.New("receivables", receivableStore, ledger.ClampAtZero{}, txManager)

	stockStore := ledger_repo.NewStockStore(txManager)
	stockLedger := ledger.New("stock", stockStore, ledger.RejectBelowZero{ExemptKinds: inventory.ExemptKinds}, txManager)

	receivablesService := receivables.NewService(receivableLedger, receivableStore, storeRepo)
	receivablesService.SetAlertSink(postgres.NewCreditAlertOutbox(postgres.NewOutboxPublisher(txManager)))

	inventoryService := inventory.NewService(stockLedger, stockStore)

	// --- Pricing ---
	pricingService := pricing.NewService(
		pricing_repo.NewSettingsRepo(txManager),
		pricing_repo.NewRuleRepo(txManager),
		productRepo,
		txManager,
	)

	// --- Orders ---
	orderService := orders.NewService(
		document_repo.NewOrderRepo(txManager),
		pricingService,
		receivablesService,
		inventoryService,
		productRepo,
		variantRepo,
		numeratorService,
		txManager,
	)

	// --- Idempotency store (optional) ---
	var idempotencyStore *postgres.IdempotencyStore
	if getEnv("IDEMPOTENCY_ENABLED", "false") == "true" {
		ttl := getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour)
		idempotencyStore = postgres.NewIdempotencyStore(pool, txManager, ttl)
		log.Infow("idempotency protection enabled", "ttl", ttl)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		JWTValidator:     jwtService,
		AuthService:      authService,
		IdempotencyStore: idempotencyStore,
		Brands:           brandService,
		StoreGroups:      storeGroupService,
		Stores:           storeService,
		Products:         productService,
		Orders:           orderService,
		Receivables:      receivablesService,
		Inventory:        inventoryService,
		Pricing:          pricingService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
