package archive

import (
	"context"
	"sync"
)

// MemoryStore is a map-backed Store for tests and local experiments.
type MemoryStore struct {
	mu       sync.RWMutex
	content  map[string][]byte
	mimetype map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		content:  make(map[string][]byte),
		mimetype: make(map[string]string),
	}
}

// Get retrieves the stored body and mimetype for key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.content[key]
	mimetype, ok2 := s.mimetype[key]
	if !ok || !ok2 {
		return nil, "", ErrNotFound
	}
	return content, mimetype, nil
}

// Put stores a record under key.
func (s *MemoryStore) Put(ctx context.Context, key string, content []byte, mimetype string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.content[key] = content
	s.mimetype[key] = mimetype
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
