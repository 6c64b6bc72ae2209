// Package jsonfile persists each catalog collection as a JSON array on disk
// (skins.json, agents.json). Reads are self-healing: a missing file is
// created empty, and a corrupt or non-array payload is reset to an empty
// array rather than treated as fatal.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/cswatch/catalog/internal/app/domain/catalog"
	"github.com/cswatch/catalog/internal/app/storage"
	"github.com/cswatch/catalog/pkg/logger"
)

// Store reads and writes collection files under a data directory.
type Store struct {
	dir string
	log *logger.Logger

	// mu serializes file writes within this process. It does not protect
	// against other processes; see storage.CatalogStore.
	mu sync.Mutex
}

var _ storage.CatalogStore = (*Store)(nil)

// New creates a file store rooted at dir, creating the directory and any
// missing collection files.
func New(dir string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewDefault("jsonfile-store")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: dir, log: log}
	for _, col := range []catalog.Collection{catalog.Skins, catalog.Agents} {
		if err := s.ensureFile(col); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) path(col catalog.Collection) string {
	return filepath.Join(s.dir, string(col)+".json")
}

func (s *Store) ensureFile(col catalog.Collection) error {
	path := s.path(col)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	s.log.WithField("path", path).Info("created empty collection file")
	return nil
}

// List loads a collection fresh from disk. A corrupt payload is rewritten to
// an empty array and the failing read reports storage.ErrUnavailable;
// subsequent reads succeed with the emptied collection.
func (s *Store) List(_ context.Context, col catalog.Collection) ([]catalog.Item, error) {
	path := s.path(col)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.ensureFile(col); err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
		}
		return []catalog.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", storage.ErrUnavailable, path, err)
	}

	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsArray() {
		s.reset(col)
		return nil, fmt.Errorf("%w: %s is not a JSON array", storage.ErrUnavailable, path)
	}

	var items []catalog.Item
	if err := json.Unmarshal(data, &items); err != nil {
		s.reset(col)
		return nil, fmt.Errorf("%w: decode %s: %v", storage.ErrUnavailable, path, err)
	}
	if items == nil {
		items = []catalog.Item{}
	}
	return items, nil
}

// Replace atomically rewrites the collection file via a temp file rename.
func (s *Store) Replace(_ context.Context, col catalog.Collection, items []catalog.Item) error {
	if items == nil {
		items = []catalog.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", col, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(col)
	tmp, err := os.CreateTemp(s.dir, string(col)+"-*.json")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func (s *Store) reset(col catalog.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(col)
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		s.log.WithError(err).WithField("path", path).Warn("failed to reset corrupt collection file")
		return
	}
	s.log.WithField("path", path).Warn("reset corrupt collection file to empty array")
}
