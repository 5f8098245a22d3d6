package service

import (
	"encoding/json"
	"sync"

	"voice-notes/models"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/exp/slog"
)

// WSConn is the part of *websocket.Conn the service writes to.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// WebSocketService fans note events out to every open connection of the
// owning user. Rooms are keyed by user id.
type WebSocketService struct {
	rooms map[string]map[WSConn]bool
	mu    sync.Mutex
	log   *slog.Logger
}

func NewWebSocketService(log *slog.Logger) *WebSocketService {
	return &WebSocketService{
		rooms: make(map[string]map[WSConn]bool),
		log:   log.With(slog.String("component", "ws_service")),
	}
}

func (s *WebSocketService) Subscribe(userID string, conn WSConn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[userID]; !exists {
		s.rooms[userID] = make(map[WSConn]bool)
	}
	s.rooms[userID][conn] = true
	s.log.Debug("client subscribed", slog.String("user_id", userID))
}

func (s *WebSocketService) Publish(userID string, event models.NoteEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		s.log.Error("marshal note event", slog.Any("error", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clients, exists := s.rooms[userID]
	if !exists {
		return
	}
	for client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
			s.log.Warn("dropping websocket client", slog.Any("error", err))
			client.Close()
			delete(clients, client)
		}
	}
	if len(clients) == 0 {
		delete(s.rooms, userID)
	}
}

func (s *WebSocketService) Unsubscribe(userID string, conn WSConn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients, exists := s.rooms[userID]
	if !exists {
		return
	}
	delete(clients, conn)
	if len(clients) == 0 {
		delete(s.rooms, userID)
	}
}

func (s *WebSocketService) Subscribers(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms[userID])
}
