package router

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/adapter/api/handler"
	"pratorinaldo/internal/adapter/api/middleware"
)

func SetupModerationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	moderationHandler := handler.GetModerationHandler()

	// Any authenticated resident can flag content.
	e.POST("/v1/reports", moderationHandler.Report, authMiddleware.Authenticate)

	moderation := e.Group("/v1/moderation")
	moderation.Use(authMiddleware.Authenticate)
	moderation.Use(roleMiddleware.ModeratorOnly)
	moderation.GET("/queue", moderationHandler.ListQueue)
	moderation.GET("/queue/:id", moderationHandler.GetItem)
	moderation.GET("/assigned", moderationHandler.ListAssigned)
	moderation.POST("/queue/:id/assign", moderationHandler.Assign)
	moderation.POST("/queue/:id/decision", moderationHandler.Decide)
}
