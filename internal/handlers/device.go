package handlers

import (
	"net/http"

	"campus-connect-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// DeviceHandler handles device registration
type DeviceHandler struct {
	deviceService *services.DeviceService
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(deviceService *services.DeviceService) *DeviceHandler {
	return &DeviceHandler{
		deviceService: deviceService,
	}
}

// CreateDevice handles POST /api/v1/devices
func (h *DeviceHandler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	device, err := h.deviceService.Register()
	if err != nil {
		log.Error().Err(err).Msg("Failed to create device")
		respondError(w, "Failed to create device", http.StatusInternalServerError)
		return
	}

	log.Info().Str("device_id", device.ID).Msg("Device created")

	respondJSON(w, http.StatusOK, device)
}
