package library

import "sort"

// HasBook reports whether any data exists for this id.
func (s *Store) HasBook(goodreadsID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.idx.Books[goodreadsID]
	return ok
}

// HasMetadata reports whether metadata has been fetched for this id.
func (s *Store) HasMetadata(goodreadsID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.Books[goodreadsID].HasMetadata
}

// HasReviews reports whether reviews have been scraped for this id.
func (s *Store) HasReviews(goodreadsID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.Books[goodreadsID].HasReviews
}

// HasAnalysis reports whether this id has been analyzed.
func (s *Store) HasAnalysis(goodreadsID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.Books[goodreadsID].HasAnalysis
}

// NeedingMetadata returns ids with no metadata yet, sorted for
// deterministic batch ordering.
func (s *Store) NeedingMetadata() []string {
	return s.selectIDs(func(entry IndexEntry) bool {
		return !entry.HasMetadata
	})
}

// NeedingReviews returns ids that have metadata but no reviews.
func (s *Store) NeedingReviews() []string {
	return s.selectIDs(func(entry IndexEntry) bool {
		return entry.HasMetadata && !entry.HasReviews
	})
}

// NeedingAnalysis returns ids that have reviews but no analysis.
func (s *Store) NeedingAnalysis() []string {
	return s.selectIDs(func(entry IndexEntry) bool {
		return entry.HasReviews && !entry.HasAnalysis
	})
}

// BooksWithRecommendations loads the full records of every book holding a
// final recommendation.
func (s *Store) BooksWithRecommendations() ([]*Record, error) {
	ids := s.selectIDs(func(entry IndexEntry) bool {
		return entry.HasRecommendation
	})

	books := make([]*Record, 0, len(ids))
	for _, id := range ids {
		record, err := s.GetBook(id)
		if err != nil {
			continue
		}
		books = append(books, record)
	}
	return books, nil
}

// Entries returns a copy of the index keyed by id.
func (s *Store) Entries() map[string]IndexEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make(map[string]IndexEntry, len(s.idx.Books))
	for id, entry := range s.idx.Books {
		entries[id] = entry
	}
	return entries
}

// Status aggregates flag counts across the whole index.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{TotalCandidates: len(s.idx.Books)}
	for _, entry := range s.idx.Books {
		if entry.HasMetadata {
			status.WithMetadata++
		} else {
			status.NeedingMetadata++
		}
		if entry.HasReviews {
			status.WithReviews++
		} else if entry.HasMetadata {
			status.NeedingReviews++
		}
		if entry.HasAnalysis {
			status.WithAnalysis++
		} else if entry.HasReviews {
			status.NeedingAnalysis++
		}
		if entry.HasRecommendation {
			status.WithRecommendation++
		}
	}
	return status
}

func (s *Store) selectIDs(keep func(IndexEntry) bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, entry := range s.idx.Books {
		if keep(entry) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
