package ledger

import (
	"context"

	"campus-connect-backend/internal/kvstore"
)

// Registrations is the set of events the device registered for
type Registrations struct {
	doc *document
}

// NewRegistrations creates the registration ledger over store
func NewRegistrations(store kvstore.Store, opts ...Option) *Registrations {
	o := buildOptions(opts)
	return &Registrations{doc: newDocument("registrations", RegistrationsKey, store, o)}
}

// List returns registered event ids in registration order. Read failures are
// logged and reported as an empty set.
func (r *Registrations) List(ctx context.Context) []string {
	ids, err := readIDs(ctx, r.doc)
	if err != nil {
		r.doc.recovered("list", err)
		return []string{}
	}
	r.doc.observe("list", nil)
	return ids
}

// IsRegistered reports whether eventID is in the set
func (r *Registrations) IsRegistered(ctx context.Context, eventID string) bool {
	return indexOf(r.List(ctx), eventID) >= 0
}

// Register adds eventID. It returns false without writing when the event is
// already registered.
func (r *Registrations) Register(ctx context.Context, eventID string) (added bool, err error) {
	defer func() { r.doc.observe("register", err) }()

	unlock := r.doc.lock()
	defer unlock()

	ids, err := readIDs(ctx, r.doc)
	if err != nil {
		return false, err
	}
	if indexOf(ids, eventID) >= 0 {
		return false, nil
	}

	if err := r.doc.write(ctx, append(ids, eventID)); err != nil {
		return false, err
	}
	return true, nil
}

// Unregister removes eventID. The set is written back even when eventID was
// not present.
func (r *Registrations) Unregister(ctx context.Context, eventID string) (err error) {
	defer func() { r.doc.observe("unregister", err) }()

	unlock := r.doc.lock()
	defer unlock()

	ids, err := readIDs(ctx, r.doc)
	if err != nil {
		return err
	}
	return r.doc.write(ctx, without(ids, eventID))
}
