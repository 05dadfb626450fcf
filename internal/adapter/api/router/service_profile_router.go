package router

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/adapter/api/handler"
	"pratorinaldo/internal/adapter/api/middleware"
)

func SetupServiceProfileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	profileHandler := handler.GetServiceProfileHandler()

	services := e.Group("/v1/services")
	services.GET("", profileHandler.ListProfiles)
	services.GET("/mine", profileHandler.GetMyProfile, authMiddleware.Authenticate)
	// Owners see their own pending/rejected profile on the detail page.
	services.GET("/:id", profileHandler.GetProfile, authMiddleware.OptionalAuthenticate)
	services.POST("", profileHandler.CreateProfile, authMiddleware.Authenticate)
	services.PUT("/:id", profileHandler.UpdateProfile, authMiddleware.Authenticate)
	services.DELETE("/:id", profileHandler.DeleteProfile, authMiddleware.Authenticate)
}
