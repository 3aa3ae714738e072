// Package library is the durable store for book records, the status index
// that drives pipeline scheduling, and the search cache. Records are the
// source of truth; the index is a projection rebuilt from them on demand.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"bookscout/internal/logging"
)

// Store provides synchronous access to the on-disk library. Distinct record
// files may be written concurrently, but every index read-modify-write is
// serialized through mu. The file lock guards against a second process.
type Store struct {
	root        string
	booksDir    string
	searchesDir string
	indexPath   string

	logger *slog.Logger
	lock   *flock.Flock

	mu  sync.Mutex
	idx index

	now func() time.Time
}

// Open prepares the library at root, creating directories as needed and
// taking an exclusive file lock. Callers must Close the store when done.
func Open(root string, logger *slog.Logger) (*Store, error) {
	if root == "" {
		return nil, errors.New("library root is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Store{
		root:        root,
		booksDir:    filepath.Join(root, "books"),
		searchesDir: filepath.Join(root, "searches"),
		indexPath:   filepath.Join(root, "index.json"),
		logger:      logging.WithComponent(logger, "library"),
		now:         time.Now,
	}

	for _, dir := range []string{s.booksDir, s.searchesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create library directory: %w", err)
		}
	}

	s.lock = flock.New(filepath.Join(root, ".lock"))
	locked, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire library lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("library at %s is locked by another process", root)
	}

	if err := s.loadIndex(); err != nil {
		s.lock.Unlock()
		return nil, err
	}

	s.logger.Debug("library opened",
		slog.String("root", root),
		slog.Int("book_count", len(s.idx.Books)))
	return s, nil
}

// Close releases the library's file lock.
func (s *Store) Close() error {
	if s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// Root returns the library's root directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) bookPath(goodreadsID string) string {
	return filepath.Join(s.booksDir, goodreadsID+".json")
}

func (s *Store) loadIndex() error {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.idx = index{Version: 1, Books: map[string]IndexEntry{}, LastUpdated: s.now().UTC()}
			return nil
		}
		return fmt.Errorf("read index: %w", err)
	}

	if err := json.Unmarshal(data, &s.idx); err != nil {
		return fmt.Errorf("parse index: %w", err)
	}
	if s.idx.Books == nil {
		s.idx.Books = map[string]IndexEntry{}
	}
	return nil
}

// saveIndex persists the index. Callers must hold mu.
func (s *Store) saveIndex() error {
	s.idx.LastUpdated = s.now().UTC()
	if err := writeJSON(s.indexPath, s.idx); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

// writeJSON writes v atomically via a temp file in the target directory.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
