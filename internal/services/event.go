package services

import (
	"context"
	"errors"
	"fmt"

	"campus-connect-backend/internal/catalog"
	"campus-connect-backend/internal/ledger"
	"campus-connect-backend/internal/models"
)

var (
	// ErrEventNotFound is returned when an event id is not in the catalog
	ErrEventNotFound = errors.New("event not found")
	// ErrCatalogUnavailable wraps failures of the remote event catalog
	ErrCatalogUnavailable = errors.New("event catalog unavailable")
)

// CatalogSource provides the current event catalog
type CatalogSource interface {
	Fetch(ctx context.Context) ([]models.Event, error)
}

// EventSummary is a catalog entry annotated with the device's own state
type EventSummary struct {
	models.Event
	Registered bool `json:"registered"`
	Favorite   bool `json:"favorite"`
}

// EventDetails joins one event with everything the device recorded about it
type EventDetails struct {
	Event         models.Event    `json:"event"`
	Registered    bool            `json:"registered"`
	Favorite      bool            `json:"favorite"`
	UserRating    *int            `json:"user_rating"`
	AverageRating float64         `json:"average_rating"`
	Reviews       []models.Review `json:"reviews"`
	Photos        []models.Photo  `json:"photos"`
}

// EventService joins the catalog with a device's ledgers and performs
// ledger mutations, announcing each one on the hub
type EventService struct {
	catalog CatalogSource
	books   *ledger.Books
	hub     *WSHub
}

// NewEventService creates a new event service
func NewEventService(catalog CatalogSource, books *ledger.Books, hub *WSHub) *EventService {
	return &EventService{
		catalog: catalog,
		books:   books,
		hub:     hub,
	}
}

func (s *EventService) fetch(ctx context.Context) ([]models.Event, error) {
	events, err := s.catalog.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return events, nil
}

// ListEvents returns catalog events matching query with the device's flags
func (s *EventService) ListEvents(ctx context.Context, deviceID, query string) ([]EventSummary, error) {
	events, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	book := s.books.For(deviceID)
	registered := toSet(book.Registrations.List(ctx))
	favorites := toSet(book.Favorites.List(ctx))

	matched := catalog.Search(events, query)
	summaries := make([]EventSummary, 0, len(matched))
	for _, event := range matched {
		_, isRegistered := registered[event.ID]
		_, isFavorite := favorites[event.ID]
		summaries = append(summaries, EventSummary{
			Event:      event,
			Registered: isRegistered,
			Favorite:   isFavorite,
		})
	}
	return summaries, nil
}

// MyRegistrations returns the catalog events the device registered for
func (s *EventService) MyRegistrations(ctx context.Context, deviceID string) ([]models.Event, error) {
	events, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Select(events, s.books.For(deviceID).Registrations.List(ctx)), nil
}

// MyFavorites returns the catalog events the device marked as favorite
func (s *EventService) MyFavorites(ctx context.Context, deviceID string) ([]models.Event, error) {
	events, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Select(events, s.books.For(deviceID).Favorites.List(ctx)), nil
}

// EventDetails loads one event together with the device's ledgers for it
func (s *EventService) EventDetails(ctx context.Context, deviceID, eventID string) (*EventDetails, error) {
	events, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	event, ok := catalog.Find(events, eventID)
	if !ok {
		return nil, ErrEventNotFound
	}

	book := s.books.For(deviceID)
	reviews := book.Reviews.List(ctx, eventID)
	details := &EventDetails{
		Event:         event,
		Registered:    book.Registrations.IsRegistered(ctx, eventID),
		Favorite:      book.Favorites.IsFavorite(ctx, eventID),
		AverageRating: ledger.AverageRating(reviews),
		Reviews:       reviews,
		Photos:        book.Photos.List(ctx, eventID),
	}
	if rating, ok := book.Ratings.Get(ctx, eventID); ok {
		details.UserRating = &rating
	}
	return details, nil
}

// Register records a registration. It reports false when the device was
// already registered.
func (s *EventService) Register(ctx context.Context, deviceID, eventID string) (bool, error) {
	added, err := s.books.For(deviceID).Registrations.Register(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("failed to register for event: %w", err)
	}
	if added {
		registered := true
		s.hub.Notify(deviceID, WSMessage{Type: MsgRegistrationChanged, EventID: eventID, Registered: &registered})
	}
	return added, nil
}

// Unregister removes a registration
func (s *EventService) Unregister(ctx context.Context, deviceID, eventID string) error {
	if err := s.books.For(deviceID).Registrations.Unregister(ctx, eventID); err != nil {
		return fmt.Errorf("failed to unregister from event: %w", err)
	}
	registered := false
	s.hub.Notify(deviceID, WSMessage{Type: MsgRegistrationChanged, EventID: eventID, Registered: &registered})
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new state
func (s *EventService) ToggleFavorite(ctx context.Context, deviceID, eventID string) (bool, error) {
	favorite, err := s.books.For(deviceID).Favorites.Toggle(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	s.hub.Notify(deviceID, WSMessage{Type: MsgFavoriteChanged, EventID: eventID, Favorite: &favorite})
	return favorite, nil
}

// Rating returns the device's own rating of an event
func (s *EventService) Rating(ctx context.Context, deviceID, eventID string) (int, bool) {
	return s.books.For(deviceID).Ratings.Get(ctx, eventID)
}

// SetRating stores the device's rating of an event
func (s *EventService) SetRating(ctx context.Context, deviceID, eventID string, rating int) error {
	if err := s.books.For(deviceID).Ratings.Set(ctx, eventID, rating); err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	s.hub.Notify(deviceID, WSMessage{Type: MsgRatingSaved, EventID: eventID, Rating: rating})
	return nil
}

// Reviews returns the reviews of an event and their average rating
func (s *EventService) Reviews(ctx context.Context, deviceID, eventID string) ([]models.Review, float64) {
	reviews := s.books.For(deviceID).Reviews.List(ctx, eventID)
	return reviews, ledger.AverageRating(reviews)
}

// AddReview appends a review to an event
func (s *EventService) AddReview(ctx context.Context, deviceID, eventID, text string, rating int, userName string) (*models.Review, error) {
	review, err := s.books.For(deviceID).Reviews.Add(ctx, eventID, text, rating, userName)
	if err != nil {
		return nil, fmt.Errorf("failed to add review: %w", err)
	}
	s.hub.Notify(deviceID, WSMessage{Type: MsgReviewAdded, EventID: eventID, Review: &review})
	return &review, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
