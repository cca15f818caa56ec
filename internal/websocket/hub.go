package websocket

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"radiology-consult-be/internal/pkg/logger"
)

// Hub routes deliberation progress events to the websocket clients watching
// a session. Sessions are single-process and in-memory, so there is no
// cross-instance fanout.
type Hub struct {
	// Registered clients map: SessionID -> List of Clients (multi-tab)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						// Remove from slice
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						client.closeSend()
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToSession pushes one event to every client watching the session.
/// Delivery is best-effort: slow clients are dropped, never waited on.
func (h *Hub) SendToSession(sessionID uuid.UUID, event interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "progress",
		"data": event,
	})

	h.mu.RLock()
	clients, found := h.clients[sessionID]
	h.mu.RUnlock()

	if !found {
		return
	}
	for _, client := range clients {
		if !client.trySend(data) {
			// Unregister owns closing the Send channel.
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"session_id": sessionID})
			h.unregister <- client
		}
	}
}
