// Package ledger implements the per-device documents that record what a user
// did with events: registrations, favorites, ratings, reviews and photos.
//
// Each ledger owns one key in a kvstore.Store and holds one JSON document
// there. Every mutation is a full read-modify-write cycle under a lock named
// after the owner and key, so overlapping calls against the same document
// serialize instead of losing updates. Nothing is cached between calls.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"campus-connect-backend/internal/kvstore"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Storage keys, shared with documents written by the mobile client
const (
	RegistrationsKey = "registeredEvents"
	FavoritesKey     = "@favorite_events"
	RatingsKey       = "@campus_connect_ratings"
	ReviewsKey       = "@campus_connect_reviews"
	PhotosKey        = "@campus_connect_photos"
)

// Rating bounds, inclusive
const (
	MinRating = 1
	MaxRating = 5
)

const (
	defaultReviewAuthor = "Anonymous"
	defaultUploader     = "You"
)

// ValidationError reports caller input rejected before any storage access
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is or wraps a *ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsStorage reports whether err is or wraps a *kvstore.StorageError
func IsStorage(err error) bool {
	var s *kvstore.StorageError
	return errors.As(err, &s)
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return &ValidationError{
			Field:  "rating",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", MinRating, MaxRating, rating),
		}
	}
	return nil
}

type options struct {
	now          func() time.Time
	newID        func() string
	locks        *kvstore.Locker
	owner        string
	metrics      *Metrics
	reviewAuthor string
	uploader     string
}

// Option configures a ledger
type Option func(*options)

// WithClock replaces time.Now as the source of record timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDFunc replaces the default record id generator
func WithIDFunc(next func() string) Option {
	return func(o *options) {
		o.newID = next
	}
}

// WithLocker shares a lock registry between ledgers. owner namespaces the
// lock names so different scopes never contend.
func WithLocker(locks *kvstore.Locker, owner string) Option {
	return func(o *options) {
		o.locks = locks
		o.owner = owner
	}
}

// WithMetrics records operation outcomes and storage latency
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithDefaultReviewAuthor sets the name stored on reviews submitted without one
func WithDefaultReviewAuthor(name string) Option {
	return func(o *options) {
		if name != "" {
			o.reviewAuthor = name
		}
	}
}

// WithDefaultUploader sets the name stored on photos added without an uploader
func WithDefaultUploader(name string) Option {
	return func(o *options) {
		if name != "" {
			o.uploader = name
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:          time.Now,
		reviewAuthor: defaultReviewAuthor,
		uploader:     defaultUploader,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.locks == nil {
		o.locks = kvstore.NewLocker()
	}
	return o
}

// timestamp is UTC truncated to milliseconds, matching client ISO strings
func (o options) timestamp() time.Time {
	return o.now().UTC().Truncate(time.Millisecond)
}

// recordID combines the creation time with a random suffix, so records
// created within the same millisecond still get distinct ids.
func (o options) recordID(at time.Time) string {
	if o.newID != nil {
		return o.newID()
	}
	return strconv.FormatInt(at.UnixMilli(), 10) + "-" + uuid.NewString()
}

// document is one ledger's key in the store
type document struct {
	name    string
	key     string
	store   kvstore.Store
	locks   *kvstore.Locker
	owner   string
	metrics *Metrics
}

func newDocument(name, key string, store kvstore.Store, o options) *document {
	return &document{
		name:    name,
		key:     key,
		store:   store,
		locks:   o.locks,
		owner:   o.owner,
		metrics: o.metrics,
	}
}

func (d *document) lock() func() {
	return d.locks.Lock(kvstore.LockName(d.owner, d.key))
}

// read decodes the stored document into v. A missing key leaves v untouched.
func (d *document) read(ctx context.Context, v any) error {
	start := time.Now()
	raw, found, err := d.store.Get(ctx, d.key)
	d.metrics.observeStorage(d.name, "get", start)
	if err != nil {
		return storageError("get", d.key, err)
	}
	if !found || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return storageError("decode", d.key, err)
	}
	return nil
}

func (d *document) write(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return storageError("encode", d.key, err)
	}

	start := time.Now()
	err = d.store.Set(ctx, d.key, string(data))
	d.metrics.observeStorage(d.name, "set", start)
	if err != nil {
		return storageError("set", d.key, err)
	}
	return nil
}

// recovered logs a read failure on a path that reports empty state instead
func (d *document) recovered(op string, err error) {
	d.metrics.observeOp(d.name, op, err)
	log.Warn().
		Err(err).
		Str("ledger", d.name).
		Str("key", d.key).
		Str("owner", d.owner).
		Str("op", op).
		Msg("Failed to read ledger, treating as empty")
}

func (d *document) observe(op string, err error) {
	d.metrics.observeOp(d.name, op, err)
}

func storageError(op, key string, err error) error {
	var existing *kvstore.StorageError
	if errors.As(err, &existing) {
		return err
	}
	return &kvstore.StorageError{Op: op, Key: key, Err: err}
}

// readIDs loads a JSON array of event ids; the result is never nil
func readIDs(ctx context.Context, d *document) ([]string, error) {
	var ids []string
	if err := d.read(ctx, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func indexOf(ids []string, id string) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

func without(ids []string, id string) []string {
	kept := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			kept = append(kept, candidate)
		}
	}
	return kept
}
