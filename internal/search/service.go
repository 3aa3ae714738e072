// Package search runs store-cached DuckDuckGo queries for candidate
// discovery. Every query is memoized by (searchType, slug); a cache hit
// never touches the network, and every live search is followed by a fixed
// delay to stay inside the engine's tolerance.
package search

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bookscout/internal/candidates"
	"bookscout/internal/fetch"
	"bookscout/internal/library"
	"bookscout/internal/logging"
)

const (
	TypeSimilar = "similar"
	TypeAuthor  = "author"
	TypeStyle   = "style"
)

const defaultMaxResults = 10

// Service coordinates cache lookups, live searches, and write-through.
type Service struct {
	store      *library.Store
	searcher   Searcher
	maxResults int
	delay      time.Duration
	logger     *slog.Logger
	sleep      func(context.Context, time.Duration) error
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithMaxResults caps how many rows each query keeps.
func WithMaxResults(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithDelay sets the pause after each live search.
func WithDelay(delay time.Duration) ServiceOption {
	return func(s *Service) {
		s.delay = delay
	}
}

// WithLogger attaches a logger to the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logging.WithComponent(logger, "search")
		}
	}
}

// WithSleeper overrides how the post-search delay is performed.
func WithSleeper(sleep func(context.Context, time.Duration) error) ServiceOption {
	return func(s *Service) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// NewService builds a search service over the given store and searcher.
func NewService(store *library.Store, searcher Searcher, opts ...ServiceOption) *Service {
	s := &Service{
		store:      store,
		searcher:   searcher,
		maxResults: defaultMaxResults,
		delay:      time.Second,
		logger:     logging.NewNop(),
		sleep:      fetch.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type querySpec struct {
	query string
	slug  string
}

// SimilarBooks searches for books similar to a seed book.
func (s *Service) SimilarBooks(ctx context.Context, seedTitle, seedAuthor string) ([]library.SearchResult, error) {
	queries := []string{
		`books similar to "` + seedTitle + `"`,
		`books like "` + seedTitle + `" by ` + seedAuthor,
	}
	specs := make([]querySpec, 0, len(queries))
	for _, query := range queries {
		specs = append(specs, querySpec{
			query: query,
			slug:  Slugify(seedTitle + "_" + truncate(query, 30)),
		})
	}
	return s.run(ctx, TypeSimilar, specs)
}

// AuthorBooks searches for notable books by an author.
func (s *Service) AuthorBooks(ctx context.Context, author string) ([]library.SearchResult, error) {
	queries := []string{
		author + " books list",
		"best " + author + " books",
	}
	specs := make([]querySpec, 0, len(queries))
	for _, query := range queries {
		specs = append(specs, querySpec{
			query: query,
			slug:  Slugify(author + "_" + truncate(query, 20)),
		})
	}
	return s.run(ctx, TypeAuthor, specs)
}

// ByStyle searches for books matching a freeform style description.
func (s *Service) ByStyle(ctx context.Context, styleQuery string) ([]library.SearchResult, error) {
	queries := []string{
		"best " + styleQuery + " books",
		styleQuery + " book recommendations",
	}
	specs := make([]querySpec, 0, len(queries))
	for _, query := range queries {
		specs = append(specs, querySpec{query: query, slug: Slugify(query)})
	}
	return s.run(ctx, TypeStyle, specs)
}

func (s *Service) run(ctx context.Context, searchType string, specs []querySpec) ([]library.SearchResult, error) {
	var all []library.SearchResult

	for _, spec := range specs {
		cached, err := s.store.CachedSearchResult(searchType, spec.slug)
		if err == nil {
			s.logger.Debug("search cache hit",
				slog.String(logging.FieldSearchType, searchType),
				slog.String("slug", spec.slug))
			all = append(all, cached.Results...)
			continue
		}
		if !errors.Is(err, library.ErrNotFound) {
			return all, err
		}

		results, err := s.searcher.Search(ctx, spec.query, s.maxResults)
		if err != nil {
			s.logger.Warn("search failed",
				slog.String(logging.FieldSearchType, searchType),
				slog.String("query", spec.query),
				slog.Any("error", err))
			continue
		}

		if err := s.store.CacheSearchResult(searchType, spec.slug, spec.query, results); err != nil {
			return all, err
		}
		all = append(all, results...)

		if err := s.sleep(ctx, s.delay); err != nil {
			return all, err
		}
	}

	return all, nil
}

// Extracted converts search rows into aggregator input, keeping only rows
// where a (title, author) pair was recovered.
func Extracted(results []library.SearchResult) []candidates.ExtractedBook {
	books := make([]candidates.ExtractedBook, 0, len(results))
	for _, result := range results {
		if result.ExtractedTitle == "" || result.ExtractedAuthor == "" {
			continue
		}
		books = append(books, candidates.ExtractedBook{
			Title:  result.ExtractedTitle,
			Author: result.ExtractedAuthor,
		})
	}
	return books
}
