package kv

import "sync"

// MemoryStore is an in-memory Store used in tests and as a degraded
// fallback when no durable storage is available.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string

	// FailWrites makes Set/Delete return ErrWriteFailed. Tests use it to
	// exercise the swallow-and-log paths of callers.
	FailWrites bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get returns the value for key and whether the key exists.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set overwrites the value for key.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrWriteFailed
	}
	s.data[key] = value
	return nil
}

// Delete removes the key.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrWriteFailed
	}
	delete(s.data, key)
	return nil
}
