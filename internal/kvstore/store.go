// Package kvstore provides the durable string-keyed document store that the
// ledgers read and write. Stores are scoped per owner (device); scopes never
// observe each other's keys.
package kvstore

import (
	"context"
	"fmt"
)

// Store is a single owner's view of the key-value capability.
//
// Get reports found == false with a nil error when the key was never written.
// Any I/O or driver failure is returned as a *StorageError.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Backend hands out owner-scoped stores over one physical storage.
type Backend interface {
	Scope(owner string) Store
	Close() error
}

// StorageError reports a failed read, write or decode of a stored document.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Key: key, Err: err}
}
