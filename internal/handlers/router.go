package handlers

import (
	"net/http"

	"campus-connect-backend/internal/middleware"
	"campus-connect-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies bundles the services the router dispatches to
type Dependencies struct {
	Devices  *services.DeviceService
	Events   *services.EventService
	Photos   *services.PhotoService
	Hub      *services.WSHub
	Gatherer prometheus.Gatherer
}

// NewRouter wires every route of the API
func NewRouter(deps Dependencies) http.Handler {
	deviceHandler := NewDeviceHandler(deps.Devices)
	eventHandler := NewEventHandler(deps.Events)
	photoHandler := NewPhotoHandler(deps.Photos)
	wsHandler := NewWebSocketHandler(deps.Hub, deps.Devices)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/devices", deviceHandler.CreateDevice)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(deps.Devices))

			r.Get("/events", eventHandler.ListEvents)
			r.Route("/events/{event_id}", func(r chi.Router) {
				r.Get("/", eventHandler.GetEvent)
				r.Get("/rating", eventHandler.GetRating)
				r.Put("/rating", eventHandler.SetRating)
				r.Get("/reviews", eventHandler.ListReviews)
				r.Post("/reviews", eventHandler.AddReview)
				r.Get("/photos", photoHandler.GetPhotos)
				r.Post("/photos", photoHandler.AddPhoto)
				r.Post("/photos/upload-url", photoHandler.UploadURL)
				r.Delete("/photos/{photo_id}", photoHandler.DeletePhoto)
			})

			r.Get("/registrations", eventHandler.ListRegistrations)
			r.Put("/registrations/{event_id}", eventHandler.Register)
			r.Delete("/registrations/{event_id}", eventHandler.Unregister)

			r.Get("/favorites", eventHandler.ListFavorites)
			r.Post("/favorites/{event_id}/toggle", eventHandler.ToggleFavorite)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
