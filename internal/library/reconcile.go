package library

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Reconcile rebuilds the index from the record files on disk. Because
// records are written before the index, a crash can leave a record whose
// flags lag its actual content; this pass repairs that window. It returns
// the number of index entries that changed.
func (s *Store) Reconcile() (int, error) {
	entries, err := os.ReadDir(s.booksDir)
	if err != nil {
		return 0, fmt.Errorf("scan books directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rebuilt := make(map[string]IndexEntry, len(entries))
	for _, dirEntry := range entries {
		name := dirEntry.Name()
		if dirEntry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")

		record, err := s.GetBook(id)
		if err != nil {
			s.logger.Warn("skipping unreadable record during reconcile",
				slog.String("file", filepath.Join(s.booksDir, name)),
				slog.Any("error", err))
			continue
		}

		entry := IndexEntry{
			Title:       record.Title,
			Author:      record.Author,
			HasMetadata: record.Metadata != nil,
			HasReviews:  record.Reviews != nil,
			HasAnalysis: record.Analysis != nil,
		}
		if record.Recommendation != nil && record.Recommendation.Tier != "" {
			entry.HasRecommendation = true
			entry.Tier = record.Recommendation.Tier
		}
		rebuilt[id] = entry
	}

	changed := 0
	for id, entry := range rebuilt {
		if existing, ok := s.idx.Books[id]; !ok || existing != entry {
			changed++
		}
	}
	for id := range s.idx.Books {
		if _, ok := rebuilt[id]; !ok {
			changed++
		}
	}

	if changed == 0 {
		return 0, nil
	}

	s.idx.Books = rebuilt
	if err := s.saveIndex(); err != nil {
		return changed, err
	}

	s.logger.Info("index reconciled",
		slog.Int("entries_changed", changed),
		slog.Int("book_count", len(rebuilt)))
	return changed, nil
}
