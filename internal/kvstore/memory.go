package kvstore

import (
	"context"
	"sync"
)

// MemoryBackend keeps every scope in process memory
type MemoryBackend struct {
	sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: map[string]map[string]string{}}
}

// Scope returns the store for one owner
func (b *MemoryBackend) Scope(owner string) Store {
	return &memoryStore{backend: b, owner: owner}
}

// Close is a no-op for the in-memory backend
func (b *MemoryBackend) Close() error {
	return nil
}

type memoryStore struct {
	backend *MemoryBackend
	owner   string
}

func (s *memoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, wrap("get", key, err)
	}

	s.backend.RLock()
	defer s.backend.RUnlock()

	value, ok := s.backend.data[s.owner][key]
	return value, ok, nil
}

func (s *memoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return wrap("set", key, err)
	}

	s.backend.Lock()
	defer s.backend.Unlock()

	scope, ok := s.backend.data[s.owner]
	if !ok {
		scope = map[string]string{}
		s.backend.data[s.owner] = scope
	}
	scope[key] = value
	return nil
}
