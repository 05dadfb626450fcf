package router

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/adapter/api/handler"
	"pratorinaldo/internal/adapter/api/middleware"
)

func SetupEventRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	eventHandler := handler.GetEventHandler()

	events := e.Group("/v1/events")
	events.GET("", eventHandler.ListEvents, authMiddleware.OptionalAuthenticate)
	events.GET("/:id", eventHandler.GetEvent)

	events.POST("", eventHandler.CreateEvent, authMiddleware.Authenticate)
	events.PUT("/:id", eventHandler.UpdateEvent, authMiddleware.Authenticate)
	events.PUT("/:id/status", eventHandler.SetStatus, authMiddleware.Authenticate)
	events.DELETE("/:id", eventHandler.DeleteEvent, authMiddleware.Authenticate)

	events.PUT("/:id/rsvp", eventHandler.RSVP, authMiddleware.Authenticate)
	events.GET("/:id/rsvp", eventHandler.GetMyRSVP, authMiddleware.Authenticate)
	events.GET("/:id/attendees", eventHandler.ListAttendees, authMiddleware.Authenticate)
}
