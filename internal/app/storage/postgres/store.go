// Package postgres implements the catalog store on PostgreSQL. Each item is
// stored as a JSONB document with an explicit position column so collection
// order survives round-trips, matching the JSON-array layout of the file
// store.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cswatch/catalog/internal/app/domain/catalog"
	"github.com/cswatch/catalog/internal/app/storage"
)

// Store implements storage.CatalogStore backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.CatalogStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the backing table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS catalog_items (
			collection TEXT  NOT NULL,
			position   INT   NOT NULL,
			item       JSONB NOT NULL,
			PRIMARY KEY (collection, position)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, col catalog.Collection) ([]catalog.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item FROM catalog_items
		WHERE collection = $1
		ORDER BY position
	`, string(col))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	defer rows.Close()

	items := []catalog.Item{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
		}
		var item catalog.Item
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("%w: decode item: %v", storage.ErrUnavailable, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	return items, nil
}

func (s *Store) Replace(ctx context.Context, col catalog.Collection, items []catalog.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace %s: %w", col, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_items WHERE collection = $1`, string(col)); err != nil {
		return fmt.Errorf("replace %s: %w", col, err)
	}
	for pos, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("replace %s: encode item %d: %w", col, pos, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_items (collection, position, item)
			VALUES ($1, $2, $3)
		`, string(col), pos, raw); err != nil {
			return fmt.Errorf("replace %s: %w", col, err)
		}
	}
	return tx.Commit()
}
