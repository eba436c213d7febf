package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"campus-connect-backend/internal/kvstore"

	"github.com/stretchr/testify/require"
)

var (
	errDiskFull = errors.New("disk full")
	errIO       = errors.New("i/o failure")
)

// faultyStore wraps a real store and injects failures
type faultyStore struct {
	kvstore.Store

	mu     sync.Mutex
	getErr error
	setErr error
	sets   int
}

func newFaultyStore() *faultyStore {
	return &faultyStore{Store: kvstore.NewMemoryBackend().Scope("test")}
}

func (s *faultyStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	err := s.getErr
	s.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return s.Store.Get(ctx, key)
}

func (s *faultyStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	err := s.setErr
	s.sets++
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, key, value)
}

func (s *faultyStore) failGets(err error) {
	s.mu.Lock()
	s.getErr = err
	s.mu.Unlock()
}

func (s *faultyStore) failSets(err error) {
	s.mu.Lock()
	s.setErr = err
	s.mu.Unlock()
}

func (s *faultyStore) setCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// raw reads the stored document bypassing injected failures
func (s *faultyStore) raw(t *testing.T, key string) string {
	t.Helper()
	value, _, err := s.Store.Get(context.Background(), key)
	require.NoError(t, err)
	return value
}

func (s *faultyStore) seed(t *testing.T, key, value string) {
	t.Helper()
	require.NoError(t, s.Store.Set(context.Background(), key, value))
}

// testClock is a controllable time source
type testClock struct {
	mu      sync.Mutex
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2025, 3, 15, 10, 30, 0, 123456789, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mu.Unlock()
}

// sequentialIDs yields rec-1, rec-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("rec-%d", n)
	}
}

func requireStorageError(t *testing.T, err error, op string) {
	t.Helper()
	var storageErr *kvstore.StorageError
	require.True(t, errors.As(err, &storageErr), "expected *kvstore.StorageError, got %v", err)
	require.Equal(t, op, storageErr.Op)
}
