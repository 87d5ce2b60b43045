package settings

import (
	"context"
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by a Store when the requested key does not exist.
var ErrKeyNotFound = errors.New("settings: key not found")

// Store reads raw values from a process-external key/value storage.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
}

// Writer is implemented by stores that accept writes.
type Writer interface {
	Set(ctx context.Context, key, value string) error
}

// ReadWriter combines Store and Writer.
type ReadWriter interface {
	Store
	Writer
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Delete removes key from the store.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}
