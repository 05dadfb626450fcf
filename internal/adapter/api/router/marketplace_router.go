package router

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/adapter/api/handler"
	"pratorinaldo/internal/adapter/api/middleware"
)

func SetupMarketplaceRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	marketplaceHandler := handler.GetMarketplaceHandler()

	marketplace := e.Group("/v1/marketplace")
	marketplace.GET("", marketplaceHandler.ListItems)
	// Sellers see their own pending/rejected listings on the detail page.
	marketplace.GET("/:id", marketplaceHandler.GetItem, authMiddleware.OptionalAuthenticate)

	myItems := e.Group("/v1/my-items")
	myItems.Use(authMiddleware.Authenticate)
	myItems.GET("", marketplaceHandler.ListMyItems)
	myItems.POST("", marketplaceHandler.CreateItem)
	myItems.PUT("/:id", marketplaceHandler.UpdateItem)
	myItems.POST("/:id/sold", marketplaceHandler.MarkSold)
	myItems.DELETE("/:id", marketplaceHandler.DeleteItem)
}
