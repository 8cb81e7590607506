package handler

import (
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/logger"
	"github.com/appzetogit/indiankart-sub000/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// OrderRoutes creates the route group for order fulfillment endpoints.
// Static segments (export, documents) are matched before :id.
func OrderRoutes(handler *OrderHandler) *router.DomainGroup {
	group := router.NewDomainGroup("orders", "/orders").Use(tagOrderRef)

	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/export", handler.Export)
	group.POST("/documents", handler.BulkDocuments)

	group.GET("/:id", handler.Get)
	group.PUT("/:id/status", handler.UpdateStatus)
	group.PUT("/:id/serials", handler.UpdateSerials)
	group.POST("/:id/cancel", handler.Cancel)
	group.GET("/:id/invoice", handler.Invoice)
	group.GET("/:id/document", handler.Document)

	return group
}

// tagOrderRef puts the :id of order routes on the request logger and context
func tagOrderRef(c *gin.Context) {
	logger.BindOrderRef(c, c.Param("id"))
	c.Next()
}

// ReturnRoutes creates the route group for post-sale requests
func ReturnRoutes(handler *ReturnHandler) *router.DomainGroup {
	group := router.NewDomainGroup("returns", "/returns")

	group.GET("", handler.List)
	group.POST("", handler.Raise)
	group.GET("/export", handler.Export)
	group.POST("/cancellations", handler.RaiseCancellation)

	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.UpdateStatus)

	return group
}

// SettingsRoutes creates the route group for seller settings
func SettingsRoutes(handler *SettingsHandler) *router.DomainGroup {
	group := router.NewDomainGroup("settings", "/settings")

	group.GET("", handler.Get)
	group.PUT("", handler.Update)

	return group
}

// DocumentRoutes creates the route group serving stored documents
func DocumentRoutes(handler *DocumentFileHandler) *router.DomainGroup {
	group := router.NewDomainGroup("documents", "/documents")

	group.GET("/files/*path", handler.Download)

	return group
}

// SystemRoutes creates the route group for system endpoints
func SystemRoutes(handler *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "/system")

	group.GET("/info", handler.GetSystemInfo)
	group.GET("/ping", handler.Ping)

	return group
}
