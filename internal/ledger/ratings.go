package ledger

import (
	"context"

	"campus-connect-backend/internal/kvstore"
)

// Ratings maps event ids to the device's own star rating. Re-rating
// overwrites; no history is kept.
type Ratings struct {
	doc *document
}

// NewRatings creates the ratings ledger over store
func NewRatings(store kvstore.Store, opts ...Option) *Ratings {
	o := buildOptions(opts)
	return &Ratings{doc: newDocument("ratings", RatingsKey, store, o)}
}

func readRatings(ctx context.Context, d *document) (map[string]int, error) {
	var ratings map[string]int
	if err := d.read(ctx, &ratings); err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = map[string]int{}
	}
	return ratings, nil
}

// Get returns the stored rating for eventID. ok is false when the event was
// never rated, when the stored value is out of range, or when the ledger
// could not be read.
func (r *Ratings) Get(ctx context.Context, eventID string) (rating int, ok bool) {
	ratings, err := readRatings(ctx, r.doc)
	if err != nil {
		r.doc.recovered("get", err)
		return 0, false
	}
	r.doc.observe("get", nil)

	rating, ok = ratings[eventID]
	if !ok || validateRating(rating) != nil {
		return 0, false
	}
	return rating, true
}

// Set stores rating for eventID, replacing any previous value
func (r *Ratings) Set(ctx context.Context, eventID string, rating int) (err error) {
	defer func() { r.doc.observe("set", err) }()

	if err := validateRating(rating); err != nil {
		return err
	}

	unlock := r.doc.lock()
	defer unlock()

	ratings, err := readRatings(ctx, r.doc)
	if err != nil {
		return err
	}
	ratings[eventID] = rating
	return r.doc.write(ctx, ratings)
}
