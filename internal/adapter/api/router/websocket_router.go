package router

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/adapter/api/handler"
)

// SetupWebSocketRouter exposes the realtime endpoint. Authentication
// happens inside the handler because browsers cannot set headers on
// WebSocket upgrade requests.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
