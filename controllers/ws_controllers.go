package controllers

import (
	middleware "voice-notes/middlewares"
	service "voice-notes/services"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/exp/slog"
)

type WebSocketController struct {
	hub *service.WebSocketService
	log *slog.Logger
}

func NewWebSocketController(hub *service.WebSocketService, log *slog.Logger) *WebSocketController {
	return &WebSocketController{hub: hub, log: log.With(slog.String("component", "ws_controller"))}
}

// HandleWebSocket keeps the connection subscribed to its owner's note events
// until the client goes away. Incoming frames are ignored.
func (wc *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	userID, _ := c.Locals(middleware.UserIDLocal).(string)
	if userID == "" {
		c.Close()
		return
	}

	wc.hub.Subscribe(userID, c)
	defer func() {
		wc.hub.Unsubscribe(userID, c)
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			wc.log.Debug("websocket closed", slog.String("user_id", userID), slog.Any("error", err))
			return
		}
	}
}
