package fetch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"bookscout/internal/logging"
)

// Pool fans a batch of items out to a fixed number of workers. After each
// successful item the worker's slot is held for the configured delay, so the
// delay composes with the concurrency bound instead of serializing the
// whole batch.
type Pool struct {
	concurrency int
	delay       time.Duration
	logger      *slog.Logger
	sleep       func(context.Context, time.Duration) error

	completed atomic.Int64
}

// PoolOption customizes a Pool.
type PoolOption func(*Pool)

// WithPoolLogger attaches a logger to the pool.
func WithPoolLogger(logger *slog.Logger) PoolOption {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logging.WithComponent(logger, "fetchpool")
		}
	}
}

// WithPoolSleeper overrides how the post-item delay is performed.
func WithPoolSleeper(sleep func(context.Context, time.Duration) error) PoolOption {
	return func(p *Pool) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// NewPool builds a pool with the given worker count and per-slot delay
// applied after each successful item.
func NewPool(concurrency int, delay time.Duration, opts ...PoolOption) *Pool {
	if concurrency <= 0 {
		concurrency = 1
	}
	p := &Pool{
		concurrency: concurrency,
		delay:       delay,
		logger:      logging.NewNop(),
		sleep:       Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Completed returns the number of items finished so far. It increases
// monotonically while Run is in flight; completion order across items is
// unspecified.
func (p *Pool) Completed() int64 {
	return p.completed.Load()
}

// Run processes all items with at most the configured number of workers in
// flight and returns the count of items whose work function reported
// success. Cancellation stops new items from being launched; items already
// started run to completion. Per-item failures never abort the batch.
func (p *Pool) Run(ctx context.Context, items []string, work func(context.Context, string) bool) int {
	if len(items) == 0 {
		return 0
	}

	batchID := uuid.NewString()
	p.logger.Info("batch started",
		slog.String(logging.FieldBatchID, batchID),
		slog.Int("item_count", len(items)),
		slog.Int("concurrency", p.concurrency))

	jobs := make(chan string)
	var successes atomic.Int64
	var wg sync.WaitGroup

	for range p.concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				ok := work(ctx, item)
				p.completed.Add(1)
				if ok {
					successes.Add(1)
					if p.sleep(ctx, p.delay) != nil {
						return
					}
				}
			}
		}()
	}

feed:
	for _, item := range items {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- item:
		}
	}
	close(jobs)
	wg.Wait()

	succeeded := int(successes.Load())
	p.logger.Info("batch finished",
		slog.String(logging.FieldBatchID, batchID),
		slog.Int("succeeded", succeeded),
		slog.Int("failed", len(items)-succeeded))
	return succeeded
}
