package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"campus-connect-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocket message types pushed after ledger mutations
const (
	MsgRegistrationChanged = "registration_changed"
	MsgFavoriteChanged     = "favorite_changed"
	MsgRatingSaved         = "rating_saved"
	MsgReviewAdded         = "review_added"
	MsgPhotoAdded          = "photo_added"
	MsgPhotoDeleted        = "photo_deleted"
	MsgPong                = "pong"
	MsgError               = "error"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type       string         `json:"type"`
	Timestamp  int64          `json:"timestamp,omitempty"`
	EventID    string         `json:"event_id,omitempty"`
	Registered *bool          `json:"registered,omitempty"`
	Favorite   *bool          `json:"favorite,omitempty"`
	Rating     int            `json:"rating,omitempty"`
	Review     *models.Review `json:"review,omitempty"`
	Photo      *models.Photo  `json:"photo,omitempty"`
	PhotoID    string         `json:"photo_id,omitempty"`
	Message    string         `json:"message,omitempty"`
}

// wsClient serializes writes; gorilla connections allow one concurrent writer
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub manages one WebSocket connection per device
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*wsClient
	now         func() time.Time
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*wsClient),
		now:         time.Now,
	}
}

// Register registers a new WebSocket connection for a device, replacing any
// previous one
func (h *WSHub) Register(deviceID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, exists := h.connections[deviceID]; exists {
		existing.conn.Close()
	}

	h.connections[deviceID] = &wsClient{conn: conn}

	log.Info().Str("device_id", deviceID).Msg("WebSocket connection registered")
}

// Unregister removes conn if it is still the device's current connection
func (h *WSHub) Unregister(deviceID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, exists := h.connections[deviceID]; exists && client.conn == conn {
		client.conn.Close()
		delete(h.connections, deviceID)
		log.Info().Str("device_id", deviceID).Msg("WebSocket connection unregistered")
	}
}

// SendToDevice sends a message to a specific device
func (h *WSHub) SendToDevice(deviceID string, message WSMessage) error {
	h.mu.RLock()
	client, exists := h.connections[deviceID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("device %s is not connected", deviceID)
	}

	if message.Timestamp == 0 {
		message.Timestamp = h.now().UnixMilli()
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := client.write(data); err != nil {
		h.Unregister(deviceID, client.conn)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// IsOnline checks if a device is online
func (h *WSHub) IsOnline(deviceID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[deviceID]
	return exists
}

// Notify pushes a ledger change to the device when it is online. Delivery
// failures are logged, never returned: the mutation already succeeded.
func (h *WSHub) Notify(deviceID string, message WSMessage) {
	if !h.IsOnline(deviceID) {
		return
	}

	if err := h.SendToDevice(deviceID, message); err != nil {
		log.Error().
			Err(err).
			Str("device_id", deviceID).
			Str("type", message.Type).
			Msg("Failed to notify device")
	}
}
