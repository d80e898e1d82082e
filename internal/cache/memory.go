package cache

import (
	"context"
	"strings"
	"sync"
)

// Compile-time check: MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is the default in-process backend. The original design assumed
// single-threaded callers; Go hosts are not, so access is guarded by an
// RWMutex. Concurrent writers populating the same key store equivalent
// values, which keeps the race benign under the lock.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Get retrieves a value by key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return data, nil
}

// Set stores a value at the given key.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Clear removes every key under the given prefix.
func (s *MemoryStore) Clear(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
	return nil
}

// Len reports the number of cached entries (test helper).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
