package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"campus-connect-backend/internal/middleware"
	"campus-connect-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// AddPhotoRequest represents the request body for recording a photo
type AddPhotoRequest struct {
	URI        string `json:"uri"`
	UploadedBy string `json:"uploadedBy"`
}

// GetPhotos handles GET /api/v1/events/{event_id}/photos
func (h *PhotoHandler) GetPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)
	eventID := chi.URLParam(r, "event_id")

	photos := h.photoService.ListPhotos(ctx, deviceID, eventID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"photos": photos,
		"total":  len(photos),
	})
}

// AddPhoto handles POST /api/v1/events/{event_id}/photos
func (h *PhotoHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)
	eventID := chi.URLParam(r, "event_id")

	var req AddPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	photo, err := h.photoService.AddPhoto(ctx, deviceID, eventID, req.URI, req.UploadedBy)
	if err != nil {
		respondServiceError(w, err, deviceID, eventID, "Failed to add photo")
		return
	}

	log.Info().
		Str("device_id", deviceID).
		Str("event_id", eventID).
		Str("photo_id", photo.ID).
		Msg("Photo added")

	respondJSON(w, http.StatusCreated, photo)
}

// DeletePhoto handles DELETE /api/v1/events/{event_id}/photos/{photo_id}
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)
	eventID := chi.URLParam(r, "event_id")
	photoID := chi.URLParam(r, "photo_id")

	removed, err := h.photoService.DeletePhoto(ctx, deviceID, eventID, photoID)
	if err != nil {
		respondServiceError(w, err, deviceID, eventID, "Failed to delete photo")
		return
	}
	if !removed {
		respondError(w, "photo not found", http.StatusNotFound)
		return
	}

	log.Info().
		Str("device_id", deviceID).
		Str("event_id", eventID).
		Str("photo_id", photoID).
		Msg("Photo deleted")

	w.WriteHeader(http.StatusNoContent)
}

// UploadURL handles POST /api/v1/events/{event_id}/photos/upload-url
func (h *PhotoHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)
	eventID := chi.URLParam(r, "event_id")

	var req services.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.photoService.GetPreSignedURL(ctx, deviceID, eventID, req.ContentType)
	if err != nil {
		respondServiceError(w, err, deviceID, eventID, "Failed to generate pre-signed URL")
		return
	}

	log.Info().
		Str("device_id", deviceID).
		Str("event_id", eventID).
		Msg("Pre-signed URL generated")

	respondJSON(w, http.StatusOK, response)
}
