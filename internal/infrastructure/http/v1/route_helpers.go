// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"opticore/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
	GetTree(c *gin.Context)
}

// OrderRouteHandler defines the interface for the order document handler.
type OrderRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Confirm(c *gin.Context)
	Ship(c *gin.Context)
	Deliver(c *gin.Context)
	Cancel(c *gin.Context)
	RemoveLine(c *gin.Context)
	UpdateLineQuantity(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// This eliminates the need to manually wire up routes for each catalog.
//
// Usage:
//
//	repo := catalog_repo.NewBrandRepo(txManager)
//	service := brand.NewService(repo, txManager, numerator)
//	handler := handlers.NewBrandHandler(baseHandler, service)
//	RegisterCatalogRoutes(catalogs.Group("/brands"), handler, "catalog:brand")
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)
	group.POST("/:id/deletion-mark", middleware.RequirePermission(permission+":delete"), handler.SetDeletionMark)
	group.GET("/tree", middleware.RequirePermission(permission+":read"), handler.GetTree)
}

// RegisterOrderRoutes registers CRUD plus lifecycle routes for orders.
// Lifecycle transitions are separate permissions: a sales clerk may
// place orders while only warehouse staff ships them.
func RegisterOrderRoutes(group *gin.RouterGroup, handler OrderRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.POST("/:id/confirm", middleware.RequirePermission(permission+":confirm"), handler.Confirm)
	group.POST("/:id/ship", middleware.RequirePermission(permission+":ship"), handler.Ship)
	group.POST("/:id/deliver", middleware.RequirePermission(permission+":deliver"), handler.Deliver)
	group.POST("/:id/cancel", middleware.RequirePermission(permission+":cancel"), handler.Cancel)
	group.DELETE("/:id/lines/:lineId", middleware.RequirePermission(permission+":update"), handler.RemoveLine)
	group.PUT("/:id/lines/:lineId", middleware.RequirePermission(permission+":update"), handler.UpdateLineQuantity)
}
