package ledger

import (
	"context"
	"math"
	"strings"

	"campus-connect-backend/internal/kvstore"
	"campus-connect-backend/internal/models"
)

// Reviews keeps an append-only list of reviews per event
type Reviews struct {
	doc  *document
	opts options
}

// NewReviews creates the reviews ledger over store
func NewReviews(store kvstore.Store, opts ...Option) *Reviews {
	o := buildOptions(opts)
	return &Reviews{doc: newDocument("reviews", ReviewsKey, store, o), opts: o}
}

func readReviews(ctx context.Context, d *document) (map[string][]models.Review, error) {
	var reviews map[string][]models.Review
	if err := d.read(ctx, &reviews); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = map[string][]models.Review{}
	}
	return reviews, nil
}

// List returns the reviews of eventID, oldest first
func (r *Reviews) List(ctx context.Context, eventID string) []models.Review {
	reviews, err := readReviews(ctx, r.doc)
	if err != nil {
		r.doc.recovered("list", err)
		return []models.Review{}
	}
	r.doc.observe("list", nil)

	if list := reviews[eventID]; list != nil {
		return list
	}
	return []models.Review{}
}

// Add appends a review to eventID and returns the stored record. Blank text
// or an out-of-range rating is rejected before the ledger is touched. An
// empty userName is replaced by the configured placeholder.
func (r *Reviews) Add(ctx context.Context, eventID, text string, rating int, userName string) (review models.Review, err error) {
	defer func() { r.doc.observe("add", err) }()

	text = strings.TrimSpace(text)
	if text == "" {
		return models.Review{}, &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if err := validateRating(rating); err != nil {
		return models.Review{}, err
	}
	if strings.TrimSpace(userName) == "" {
		userName = r.opts.reviewAuthor
	}

	unlock := r.doc.lock()
	defer unlock()

	reviews, err := readReviews(ctx, r.doc)
	if err != nil {
		return models.Review{}, err
	}

	now := r.opts.timestamp()
	review = models.Review{
		ID:       r.opts.recordID(now),
		Text:     text,
		Rating:   rating,
		UserName: userName,
		Date:     now,
	}
	reviews[eventID] = append(reviews[eventID], review)

	if err := r.doc.write(ctx, reviews); err != nil {
		return models.Review{}, err
	}
	return review, nil
}

// AverageRating is the mean rating of reviews rounded to one decimal place,
// or 0 when there are none.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10
}
