// Package catalog implements the shared query engine and the single-record
// catalog operations used by every protocol adapter.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/cswatch/catalog/internal/app/domain/catalog"
	"github.com/cswatch/catalog/internal/app/storage"
	"github.com/cswatch/catalog/pkg/logger"
)

// Result is a query response: the returned items plus their count.
type Result struct {
	Count int
	Items []domain.Item
}

// Service answers catalog queries and performs single-record mutations. Every
// read loads the collection fresh from the store, so concurrent writers are
// visible to subsequent reads. The mutations are read-modify-write over the
// whole collection with no cross-process locking (see storage.CatalogStore).
type Service struct {
	store storage.CatalogStore
	log   *logger.Logger
}

// New constructs a catalog service.
func New(store storage.CatalogStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("catalog")
	}
	return &Service{store: store, log: log}
}

// Query returns the filtered, paginated view of a collection.
func (s *Service) Query(ctx context.Context, col domain.Collection, p Params) (Result, error) {
	items, err := s.store.List(ctx, col)
	if err != nil {
		return Result{Items: []domain.Item{}}, err
	}
	matched := Paginate(Filter(items, p), p)
	return Result{Count: len(matched), Items: matched}, nil
}

// Count returns the pre-pagination filtered total.
func (s *Service) Count(ctx context.Context, col domain.Collection, p Params) (int, error) {
	items, err := s.store.List(ctx, col)
	if err != nil {
		return 0, err
	}
	return len(Filter(items, p)), nil
}

// Get returns the item with the exact id, or storage.ErrNotFound.
func (s *Service) Get(ctx context.Context, col domain.Collection, id string) (domain.Item, error) {
	items, err := s.store.List(ctx, col)
	if err != nil {
		return domain.Item{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.Item{}, fmt.Errorf("%s %s: %w", col, id, storage.ErrNotFound)
}

// Create validates and appends a new item, assigning an id when absent.
func (s *Service) Create(ctx context.Context, col domain.Collection, item domain.Item) (domain.Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return domain.Item{}, err
	}

	items, err := s.store.List(ctx, col)
	if err != nil {
		return domain.Item{}, err
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	} else {
		for _, existing := range items {
			if existing.ID == item.ID {
				return domain.Item{}, &domain.ValidationError{Field: "id", Reason: "already exists"}
			}
		}
	}

	now := timeNowUTC()
	item.CreatedAt = &now
	item.UpdatedAt = &now

	if err := s.store.Replace(ctx, col, append(items, item)); err != nil {
		return domain.Item{}, err
	}
	s.log.WithField("collection", col).WithField("id", item.ID).Info("item created")
	return item, nil
}

// Update merges a partial patch into an existing item. The id never changes
// and updatedAt is always restamped, even for an empty patch.
func (s *Service) Update(ctx context.Context, col domain.Collection, id string, patch domain.Patch) (domain.Item, error) {
	items, err := s.store.List(ctx, col)
	if err != nil {
		return domain.Item{}, err
	}

	idx := -1
	for i, item := range items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.Item{}, fmt.Errorf("%s %s: %w", col, id, storage.ErrNotFound)
	}

	updated := patch.Apply(items[idx])
	updated.ID = id
	if err := updated.Validate(); err != nil {
		return domain.Item{}, err
	}
	now := timeNowUTC()
	updated.UpdatedAt = &now

	items[idx] = updated
	if err := s.store.Replace(ctx, col, items); err != nil {
		return domain.Item{}, err
	}
	s.log.WithField("collection", col).WithField("id", id).Info("item updated")
	return updated, nil
}

// Delete removes an item by exact id and returns the deleted record.
func (s *Service) Delete(ctx context.Context, col domain.Collection, id string) (domain.Item, error) {
	items, err := s.store.List(ctx, col)
	if err != nil {
		return domain.Item{}, err
	}

	idx := -1
	for i, item := range items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.Item{}, fmt.Errorf("%s %s: %w", col, id, storage.ErrNotFound)
	}

	deleted := items[idx]
	remaining := append(append([]domain.Item{}, items[:idx]...), items[idx+1:]...)
	if err := s.store.Replace(ctx, col, remaining); err != nil {
		return domain.Item{}, err
	}
	s.log.WithField("collection", col).WithField("id", id).Info("item deleted")
	return deleted, nil
}

func timeNowUTC() time.Time { return time.Now().UTC() }
