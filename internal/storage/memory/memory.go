// Package memory provides an in-memory implementation of storage.Store,
// used in tests and for ephemeral runs where nothing should touch disk.
package memory

import (
	"context"
	"sync"

	"github.com/Aryan-Srivastava/expense-tracker/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps documents in a map. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

// Load returns the document stored under key, or storage.ErrNotFound.
func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	return cp, nil
}

// Save stores a copy of value under key.
func (s *Store) Save(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	s.mu.Lock()
	s.docs[key] = cp
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
