// Package scrape drives the metadata and review stages of the pipeline:
// it asks the library which books still need work, fans the ids out to the
// fetch pool, and stores whatever comes back. Items that fail stay pending
// and are retried on the next run.
package scrape

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"bookscout/internal/fetch"
	"bookscout/internal/goodreads"
	"bookscout/internal/library"
	"bookscout/internal/logging"
)

const (
	defaultDelay       = 1500 * time.Millisecond
	defaultConcurrency = 5
	defaultPerStar     = 3
)

// Target star buckets, sampling the enthusiastic, lukewarm, and hostile ends.
var defaultTargetStars = []int{5, 3, 1}

// Scraper coordinates one batch of metadata/review fetching.
type Scraper struct {
	store       *library.Store
	client      *goodreads.Client
	concurrency int
	delay       time.Duration
	targetStars []int
	perStar     int
	logger      *slog.Logger
	sleep       func(context.Context, time.Duration) error
	pool        *fetch.Pool
}

// Option customizes a Scraper.
type Option func(*Scraper)

// WithConcurrency sets how many books are worked on at once.
func WithConcurrency(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithDelay sets the pause after each successful page fetch.
func WithDelay(delay time.Duration) Option {
	return func(s *Scraper) {
		if delay >= 0 {
			s.delay = delay
		}
	}
}

// WithReviewsPerStar caps how many reviews are kept per star bucket.
func WithReviewsPerStar(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.perStar = n
		}
	}
}

// WithLogger attaches a logger to the scraper.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scraper) {
		if logger != nil {
			s.logger = logging.WithComponent(logger, "scrape")
		}
	}
}

// WithSleeper overrides how the inter-fetch delay is performed.
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(s *Scraper) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// New builds a scraper over the given store and client.
func New(store *library.Store, client *goodreads.Client, opts ...Option) *Scraper {
	s := &Scraper{
		store:       store,
		client:      client,
		concurrency: defaultConcurrency,
		delay:       defaultDelay,
		targetStars: defaultTargetStars,
		perStar:     defaultPerStar,
		logger:      logging.NewNop(),
		sleep:       fetch.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pool = fetch.NewPool(s.concurrency, s.delay,
		fetch.WithPoolLogger(s.logger),
		fetch.WithPoolSleeper(s.sleep))
	return s
}

// Completed reports how many ids of the current batch have finished,
// successfully or not. Progress displays poll it while Run is in flight.
func (s *Scraper) Completed() int64 {
	return s.pool.Completed()
}

// Pending returns the ids that still need work, metadata first. With
// includeReviews, books waiting only on reviews are included too.
func (s *Scraper) Pending(includeReviews bool) []string {
	ids := s.store.NeedingMetadata()
	if includeReviews {
		ids = append(ids, s.store.NeedingReviews()...)
	}

	seen := make(map[string]struct{}, len(ids))
	unique := ids[:0]
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)
	return unique
}

// Run scrapes the given ids with bounded concurrency and returns how many
// completed every stage they needed. Already-done stages are skipped, so an
// interrupted batch resumes where it left off. Per-item failures are
// logged and left pending; they never abort the batch.
func (s *Scraper) Run(ctx context.Context, ids []string, includeReviews bool) int {
	if len(ids) == 0 {
		return 0
	}

	return s.pool.Run(ctx, ids, func(ctx context.Context, id string) bool {
		return s.scrapeOne(ctx, id, includeReviews)
	})
}

func (s *Scraper) scrapeOne(ctx context.Context, id string, includeReviews bool) bool {
	ok := true
	fetchedMetadata := false

	if !s.store.HasMetadata(id) {
		meta, got := s.client.FetchMetadata(ctx, id)
		switch {
		case !got:
			s.logger.Warn("metadata fetch failed",
				slog.String(logging.FieldBookID, id))
			ok = false
		default:
			if err := s.store.AddMetadata(id, meta); err != nil {
				s.logger.Error("store metadata",
					slog.String(logging.FieldBookID, id),
					slog.Any("error", err))
				ok = false
			} else {
				fetchedMetadata = true
			}
		}
	}

	if includeReviews && !s.store.HasReviews(id) {
		if fetchedMetadata {
			if s.sleep(ctx, s.delay) != nil {
				return false
			}
		}

		reviews, got := s.client.FetchReviews(ctx, id, s.targetStars, s.perStar)
		switch {
		case !got:
			s.logger.Warn("review fetch failed",
				slog.String(logging.FieldBookID, id))
			ok = false
		default:
			if err := s.store.AddReviews(id, reviews); err != nil {
				s.logger.Error("store reviews",
					slog.String(logging.FieldBookID, id),
					slog.Any("error", err))
				ok = false
			}
		}
	}

	return ok
}
