// Package memory provides a thread-safe in-memory catalog store. It is
// intended for tests and prototyping and deliberately keeps the
// implementation simple.
package memory

import (
	"context"
	"sync"

	"github.com/cswatch/catalog/internal/app/domain/catalog"
	"github.com/cswatch/catalog/internal/app/storage"
)

// Store holds each collection as an ordered slice, mirroring the JSON array
// layout of the file store.
type Store struct {
	mu          sync.RWMutex
	collections map[catalog.Collection][]catalog.Item
}

var _ storage.CatalogStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{collections: make(map[catalog.Collection][]catalog.Item)}
}

// Seed replaces a collection without error handling, for test setup.
func (s *Store) Seed(col catalog.Collection, items []catalog.Item) {
	_ = s.Replace(context.Background(), col, items)
}

func (s *Store) List(_ context.Context, col catalog.Collection) ([]catalog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.collections[col]
	out := make([]catalog.Item, len(items))
	copy(out, items)
	return out, nil
}

func (s *Store) Replace(_ context.Context, col catalog.Collection, items []catalog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]catalog.Item, len(items))
	copy(copied, items)
	s.collections[col] = copied
	return nil
}
