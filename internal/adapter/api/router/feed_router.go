package router

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/adapter/api/handler"
	"pratorinaldo/internal/adapter/api/middleware"
)

func SetupFeedRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	feedHandler := handler.GetFeedHandler()

	// Anonymous viewers get the public feed; a valid token widens it to
	// the caller's tenant and private entries.
	e.GET("/v1/feed", feedHandler.GetFeed, authMiddleware.OptionalAuthenticate)
}
