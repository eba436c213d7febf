package handlers

import (
	"encoding/json"
	"net/http"

	"campus-connect-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler streams ledger changes to a connected device
type WebSocketHandler struct {
	hub           *services.WSHub
	deviceService *services.DeviceService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, deviceService *services.DeviceService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		deviceService: deviceService,
	}
}

// HandleWebSocket handles GET /ws?token=...
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	deviceID, err := h.deviceService.ValidateJWT(token)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(deviceID, conn)
	defer h.hub.Unregister(deviceID, conn)

	log.Info().Str("device_id", deviceID).Msg("WebSocket connection established")

	// The feed is server to client; inbound frames only carry pings.
	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("device_id", deviceID).Msg("WebSocket error")
			}
			break
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			h.sendToDevice(deviceID, services.WSMessage{Type: services.MsgError, Message: "Invalid message format"})
			continue
		}

		switch msg.Type {
		case "ping":
			h.sendToDevice(deviceID, services.WSMessage{Type: services.MsgPong})
		default:
			h.sendToDevice(deviceID, services.WSMessage{Type: services.MsgError, Message: "Unknown message type"})
		}
	}
}

func (h *WebSocketHandler) sendToDevice(deviceID string, msg services.WSMessage) {
	if err := h.hub.SendToDevice(deviceID, msg); err != nil {
		log.Error().Err(err).Str("device_id", deviceID).Str("type", msg.Type).Msg("Failed to reply on WebSocket")
	}
}
