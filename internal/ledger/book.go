package ledger

import "campus-connect-backend/internal/kvstore"

// Book bundles the five ledgers of one owner
type Book struct {
	Registrations *Registrations
	Favorites     *Favorites
	Ratings       *Ratings
	Reviews       *Reviews
	Photos        *Photos
}

// NewBook creates every ledger over the same store. Unless WithLocker is
// given, the ledgers share a private lock registry.
func NewBook(store kvstore.Store, opts ...Option) *Book {
	o := buildOptions(opts)
	shared := append(append([]Option{}, opts...), WithLocker(o.locks, o.owner))

	return &Book{
		Registrations: NewRegistrations(store, shared...),
		Favorites:     NewFavorites(store, shared...),
		Ratings:       NewRatings(store, shared...),
		Reviews:       NewReviews(store, shared...),
		Photos:        NewPhotos(store, shared...),
	}
}

// Books opens a Book per owner over a backend. All Books share one lock
// registry, so concurrent requests from the same device serialize per key.
type Books struct {
	backend kvstore.Backend
	locks   *kvstore.Locker
	opts    []Option
}

// NewBooks creates a Book factory over backend
func NewBooks(backend kvstore.Backend, opts ...Option) *Books {
	return &Books{
		backend: backend,
		locks:   kvstore.NewLocker(),
		opts:    opts,
	}
}

// For returns the ledgers of owner
func (b *Books) For(owner string) *Book {
	opts := append(append([]Option{}, b.opts...), WithLocker(b.locks, owner))
	return NewBook(b.backend.Scope(owner), opts...)
}
