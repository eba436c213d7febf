package handlers

import (
	"encoding/json"
	"net/http"

	"campus-connect-backend/internal/middleware"
	"campus-connect-backend/internal/models"
	"campus-connect-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// EventHandler handles catalog, registration, favorite, rating and review requests
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// ListEvents handles GET /api/v1/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)

	events, err := h.eventService.ListEvents(ctx, deviceID, r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err, deviceID, "", "Failed to list events")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  len(events),
	})
}

// GetEvent handles GET /api/v1/events/{event_id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)
	eventID := chi.URLParam(r, "event_id")

	details, err := h.eventService.EventDetails(ctx, deviceID, eventID)
	if err != nil {
		respondServiceError(w, err, deviceID, eventID, "Failed to load event details")
		return
	}

	respondJSON(w, http.StatusOK, details)
}

// ListRegistrations handles GET /api/v1/registrations
func (h *EventHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)

	events, err := h.eventService.MyRegistrations(ctx, deviceID)
	if err != nil {
		respondServiceError(w, err, deviceID, "", "Failed to list registrations")
		return
	}

	respondJSON(w, http.StatusOK, map[string][]models.Event{"events": events})
}

// Register handles PUT /api/v1/registrations/{event_id}
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)
	eventID := chi.URLParam(r, "event_id")

	added, err := h.eventService.Register(ctx, deviceID, eventID)
	if err != nil {
		respondServiceError(w, err, deviceID, eventID, "Failed to register")
		return
	}

	log.Info().
		Str("device_id", deviceID).
		Str("event_id", eventID).
		Bool("added", added).
		Msg("Registration saved")

	respondJSON(w, http.StatusOK, map[string]bool{"added": added})
}

// Unregister handles DELETE /api/v1/registrations/{event_id}
func (h *EventHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)
	eventID := chi.URLParam(r, "event_id")

	if err := h.eventService.Unregister(ctx, deviceID, eventID); err != nil {
		respondServiceError(w, err, deviceID, eventID, "Failed to unregister")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListFavorites handles GET /api/v1/favorites
func (h *EventHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)

	events, err := h.eventService.MyFavorites(ctx, deviceID)
	if err != nil {
		respondServiceError(w, err, deviceID, "", "Failed to list favorites")
		return
	}

	respondJSON(w, http.StatusOK, map[string][]models.Event{"events": events})
}

// ToggleFavorite handles POST /api/v1/favorites/{event_id}/toggle
func (h *EventHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)
	eventID := chi.URLParam(r, "event_id")

	favorite, err := h.eventService.ToggleFavorite(ctx, deviceID, eventID)
	if err != nil {
		respondServiceError(w, err, deviceID, eventID, "Failed to toggle favorite")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"favorite": favorite})
}

// RatingBody is the request and response body of the rating endpoints.
// A nil Rating means the event was never rated.
type RatingBody struct {
	Rating *int `json:"rating"`
}

// GetRating handles GET /api/v1/events/{event_id}/rating
func (h *EventHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)
	eventID := chi.URLParam(r, "event_id")

	var body RatingBody
	if rating, ok := h.eventService.Rating(ctx, deviceID, eventID); ok {
		body.Rating = &rating
	}

	respondJSON(w, http.StatusOK, body)
}

// SetRating handles PUT /api/v1/events/{event_id}/rating
func (h *EventHandler) SetRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)
	eventID := chi.URLParam(r, "event_id")

	var req RatingBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Rating == nil {
		respondError(w, "rating is required", http.StatusBadRequest)
		return
	}

	if err := h.eventService.SetRating(ctx, deviceID, eventID, *req.Rating); err != nil {
		respondServiceError(w, err, deviceID, eventID, "Failed to save rating")
		return
	}

	respondJSON(w, http.StatusOK, req)
}

// AddReviewRequest represents the request body for adding a review
type AddReviewRequest struct {
	Text     string `json:"text"`
	Rating   int    `json:"rating"`
	UserName string `json:"userName"`
}

// ListReviews handles GET /api/v1/events/{event_id}/reviews
func (h *EventHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)
	eventID := chi.URLParam(r, "event_id")

	reviews, average := h.eventService.Reviews(ctx, deviceID, eventID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reviews":        reviews,
		"average_rating": average,
	})
}

// AddReview handles POST /api/v1/events/{event_id}/reviews
func (h *EventHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := middleware.GetDeviceID(ctx)
	eventID := chi.URLParam(r, "event_id")

	var req AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	review, err := h.eventService.AddReview(ctx, deviceID, eventID, req.Text, req.Rating, req.UserName)
	if err != nil {
		respondServiceError(w, err, deviceID, eventID, "Failed to add review")
		return
	}

	log.Info().
		Str("device_id", deviceID).
		Str("event_id", eventID).
		Str("review_id", review.ID).
		Msg("Review added")

	respondJSON(w, http.StatusCreated, review)
}
