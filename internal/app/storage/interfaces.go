// Package storage defines the persistence contract for the catalog
// collections. Implementations live in subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/cswatch/catalog/internal/app/domain/catalog"
)

// ErrNotFound is returned when an exact id lookup has no match.
var ErrNotFound = errors.New("not found")

// ErrUnavailable is returned when a backing collection could not be read in
// its expected shape. File-backed stores self-heal (reset to an empty
// sequence) and still report this for the failing read so adapters can pick
// a wire-level status.
var ErrUnavailable = errors.New("store unavailable")

// CatalogStore persists whole collections of items. The single-record
// mutations in the catalog service are read-modify-write over List/Replace
// with no cross-process locking; concurrent writers to the same collection
// can lose updates. That is an accepted limitation at this scale.
type CatalogStore interface {
	// List returns the collection in insertion order.
	List(ctx context.Context, col catalog.Collection) ([]catalog.Item, error)
	// Replace overwrites the collection with items, preserving their order.
	Replace(ctx context.Context, col catalog.Collection, items []catalog.Item) error
}
