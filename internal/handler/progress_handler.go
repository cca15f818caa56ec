package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"radiology-consult-be/internal/pkg/logger"
	"radiology-consult-be/internal/repository/memory"
	internalWS "radiology-consult-be/internal/websocket"
)

// ProgressHandler upgrades websocket connections for live round-by-round
// progress on a running consultation.
type ProgressHandler struct {
	sessionRepo *memory.SessionRepository
	hub         *internalWS.Hub
	logger      logger.ILogger
}

func NewProgressHandler(sessionRepo *memory.SessionRepository, hub *internalWS.Hub, log logger.ILogger) *ProgressHandler {
	return &ProgressHandler{
		sessionRepo: sessionRepo,
		hub:         hub,
		logger:      log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *ProgressHandler) ServeWs(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID format"})
	}

	if _, found := h.sessionRepo.Get(sessionID.String()); !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	// Upgrade via Fiber WebSocket Middleware
	// We handle the upgrade here using the helper which automatically hijacks the connection
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(c *websocket.Conn) {
			h.logger.Info("ProgressHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, c, sessionID)
			h.logger.Info("ProgressHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the websocket route.
func (h *ProgressHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/:session_id", h.ServeWs)
}
