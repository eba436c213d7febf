package ledger

import (
	"context"

	"campus-connect-backend/internal/kvstore"
)

// Favorites is the set of events the device marked as favorite
type Favorites struct {
	doc *document
}

// NewFavorites creates the favorites ledger over store
func NewFavorites(store kvstore.Store, opts ...Option) *Favorites {
	o := buildOptions(opts)
	return &Favorites{doc: newDocument("favorites", FavoritesKey, store, o)}
}

// List returns favorite event ids in the order they were added
func (f *Favorites) List(ctx context.Context) []string {
	ids, err := readIDs(ctx, f.doc)
	if err != nil {
		f.doc.recovered("list", err)
		return []string{}
	}
	f.doc.observe("list", nil)
	return ids
}

// IsFavorite reports whether eventID is in the set
func (f *Favorites) IsFavorite(ctx context.Context, eventID string) bool {
	return indexOf(f.List(ctx), eventID) >= 0
}

// Toggle flips membership of eventID and returns the new state, true meaning
// the event is now a favorite.
func (f *Favorites) Toggle(ctx context.Context, eventID string) (favorite bool, err error) {
	defer func() { f.doc.observe("toggle", err) }()

	unlock := f.doc.lock()
	defer unlock()

	ids, err := readIDs(ctx, f.doc)
	if err != nil {
		return false, err
	}

	if indexOf(ids, eventID) >= 0 {
		ids = without(ids, eventID)
		favorite = false
	} else {
		ids = append(ids, eventID)
		favorite = true
	}

	if err := f.doc.write(ctx, ids); err != nil {
		return false, err
	}
	return favorite, nil
}
