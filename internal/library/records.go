package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"bookscout/internal/candidates"
	"bookscout/internal/logging"
)

const goodreadsBookURL = "https://www.goodreads.com/book/show/"

// GetBook loads the full record for an id. Returns ErrNotFound if no record
// file exists.
func (s *Store) GetBook(goodreadsID string) (*Record, error) {
	data, err := os.ReadFile(s.bookPath(goodreadsID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("book %s: %w", goodreadsID, ErrNotFound)
		}
		return nil, fmt.Errorf("read book %s: %w", goodreadsID, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse book %s: %w", goodreadsID, err)
	}
	return &record, nil
}

// GetAllBooks loads every record named in the index. Records missing on disk
// are skipped rather than failing the whole read.
func (s *Store) GetAllBooks() ([]*Record, error) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.idx.Books))
	for id := range s.idx.Books {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	books := make([]*Record, 0, len(ids))
	for _, id := range ids {
		record, err := s.GetBook(id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		books = append(books, record)
	}
	return books, nil
}

// AddCandidate upserts a candidate. A new id gets a record seeded with its
// sources and an index entry with all flags false; a known id only has the
// new sources appended to its recommendation.
func (s *Store) AddCandidate(goodreadsID, title, author string, sources []candidates.Source) error {
	if goodreadsID == "" {
		return errors.New("goodreads id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, known := s.idx.Books[goodreadsID]; known {
		record, err := s.GetBook(goodreadsID)
		if err != nil {
			return err
		}
		if record.Recommendation == nil {
			record.Recommendation = &Recommendation{}
		}
		record.Recommendation.Sources = append(record.Recommendation.Sources, sources...)
		return s.saveBook(goodreadsID, record)
	}

	record := &Record{
		GoodreadsID:    goodreadsID,
		Title:          title,
		Author:         author,
		URL:            goodreadsBookURL + goodreadsID,
		Recommendation: &Recommendation{Sources: sources},
	}
	if err := s.saveBook(goodreadsID, record); err != nil {
		return err
	}

	s.idx.Books[goodreadsID] = IndexEntry{Title: title, Author: author}
	if err := s.saveIndex(); err != nil {
		return err
	}

	s.logger.Debug("candidate added",
		slog.String(logging.FieldBookID, goodreadsID),
		slog.String("title", title))
	return nil
}

// AddMetadata stores scraped metadata on an existing record and flips its
// index flag. Series info is promoted to the record's top level. A missing
// record is a no-op so batch callers need no existence checks.
func (s *Store) AddMetadata(goodreadsID string, metadata Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.GetBook(goodreadsID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	metadata.FetchedAt = s.now().UTC()
	if metadata.Series != nil {
		record.Series = metadata.Series
		metadata.Series = nil
	}
	record.Metadata = &metadata

	if err := s.saveBook(goodreadsID, record); err != nil {
		return err
	}
	return s.setFlag(goodreadsID, func(entry *IndexEntry) { entry.HasMetadata = true })
}

// AddReviews stores scraped reviews on an existing record. A missing record
// is a no-op.
func (s *Store) AddReviews(goodreadsID string, reviews ReviewSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.GetBook(goodreadsID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	reviews.FetchedAt = s.now().UTC()
	record.Reviews = &reviews

	if err := s.saveBook(goodreadsID, record); err != nil {
		return err
	}
	return s.setFlag(goodreadsID, func(entry *IndexEntry) { entry.HasReviews = true })
}

// AddAnalysis stores an externally produced analysis payload verbatim. A
// missing record is a no-op.
func (s *Store) AddAnalysis(goodreadsID string, payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.GetBook(goodreadsID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	record.Analysis = &Analysis{Data: payload, GeneratedAt: s.now().UTC()}

	if err := s.saveBook(goodreadsID, record); err != nil {
		return err
	}
	return s.setFlag(goodreadsID, func(entry *IndexEntry) { entry.HasAnalysis = true })
}

// SetRecommendation records the final tier for a book, keeping any sources
// already accumulated on the recommendation. The tier is mirrored into the
// index for fast filtering.
func (s *Store) SetRecommendation(goodreadsID, tier, reasoning string, dealbreakers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.GetBook(goodreadsID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if record.Recommendation == nil {
		record.Recommendation = &Recommendation{}
	}
	record.Recommendation.Tier = tier
	record.Recommendation.Reasoning = reasoning
	record.Recommendation.Dealbreakers = dealbreakers
	record.Recommendation.GeneratedAt = s.now().UTC()

	if err := s.saveBook(goodreadsID, record); err != nil {
		return err
	}
	return s.setFlag(goodreadsID, func(entry *IndexEntry) {
		entry.HasRecommendation = true
		entry.Tier = tier
	})
}

// saveBook writes the record file. Callers must hold mu; the record is
// always written before any index update.
func (s *Store) saveBook(goodreadsID string, record *Record) error {
	if err := writeJSON(s.bookPath(goodreadsID), record); err != nil {
		return fmt.Errorf("save book %s: %w", goodreadsID, err)
	}
	return nil
}

// setFlag mutates one index entry and persists the index. Callers must
// hold mu.
func (s *Store) setFlag(goodreadsID string, update func(*IndexEntry)) error {
	entry, ok := s.idx.Books[goodreadsID]
	if !ok {
		entry = IndexEntry{}
	}
	update(&entry)
	s.idx.Books[goodreadsID] = entry
	return s.saveIndex()
}
