// Package fetch provides rate-limit-aware page retrieval with retry and
// backoff, plus the bounded worker pool that batch operations run on.
// Fetch failures degrade to an absent result; they never abort a batch.
package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"

	"bookscout/internal/logging"
)

const (
	defaultMaxRetries  = 3
	defaultHTTPTimeout = 30 * time.Second
)

// Sleep waits for the given duration or until the context is cancelled.
func Sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NewHTTPClient builds an HTTP client whose connection pool is capped at the
// batch concurrency, total and per host.
func NewHTTPClient(concurrency int, timeout time.Duration) *http.Client {
	if concurrency <= 0 {
		concurrency = 1
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = concurrency
	transport.MaxIdleConnsPerHost = concurrency
	return &http.Client{Timeout: timeout, Transport: transport}
}

// Fetcher retrieves pages with per-attempt backoff. Rate-limit responses
// back off hardest; transport errors and other HTTP failures use shorter
// waits. All waits respect context cancellation.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	maxRetries int
	logger     *slog.Logger
	sleep      func(context.Context, time.Duration) error
	randFloat  func() float64
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		f.userAgent = userAgent
	}
}

// WithMaxRetries overrides the per-page attempt count.
func WithMaxRetries(retries int) Option {
	return func(f *Fetcher) {
		if retries > 0 {
			f.maxRetries = retries
		}
	}
}

// WithSleeper overrides how backoff waits are performed (useful for tests).
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(f *Fetcher) {
		if sleep != nil {
			f.sleep = sleep
		}
	}
}

// WithJitterSource overrides the jitter random source (useful for tests).
func WithJitterSource(randFloat func() float64) Option {
	return func(f *Fetcher) {
		if randFloat != nil {
			f.randFloat = randFloat
		}
	}
}

// WithLogger attaches a logger to the fetcher.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logging.WithComponent(logger, "fetch")
		}
	}
}

// NewFetcher constructs a Fetcher with sensible defaults.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:     NewHTTPClient(1, defaultHTTPTimeout),
		maxRetries: defaultMaxRetries,
		logger:     logging.NewNop(),
		sleep:      Sleep,
		randFloat:  rand.Float64,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPage retrieves url, retrying with backoff on failure. It returns the
// body and true on success; exhausted retries or cancellation yield "" and
// false. Errors never escape: a dead page is simply absent data.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, bool) {
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", false
		}

		body, status, err := f.fetchOnce(ctx, url)
		switch {
		case err == nil && status == http.StatusOK:
			return body, true
		case err != nil:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", false
			}
			f.logger.Debug("transport error",
				slog.String("url", url),
				slog.Int("attempt", attempt+1),
				slog.Any("error", err))
			if f.sleep(ctx, f.transportBackoff(attempt)) != nil {
				return "", false
			}
		case status == http.StatusTooManyRequests:
			f.logger.Debug("rate limited",
				slog.String("url", url),
				slog.Int("attempt", attempt+1))
			if f.sleep(ctx, f.rateLimitBackoff(attempt)) != nil {
				return "", false
			}
		default:
			f.logger.Debug("unexpected status",
				slog.String("url", url),
				slog.Int("status", status),
				slog.Int("attempt", attempt+1))
			if f.sleep(ctx, statusBackoff(attempt)) != nil {
				return "", false
			}
		}
	}

	f.logger.Warn("page fetch failed after retries",
		slog.String("url", url),
		slog.Int("attempts", f.maxRetries))
	return "", false
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", resp.StatusCode, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}
	return string(body), resp.StatusCode, nil
}

// rateLimitBackoff waits 2^attempt seconds plus jitter in [1,3).
func (f *Fetcher) rateLimitBackoff(attempt int) time.Duration {
	seconds := math.Pow(2, float64(attempt)) + 1 + 2*f.randFloat()
	return time.Duration(seconds * float64(time.Second))
}

// statusBackoff waits 0.5*(attempt+1) seconds.
func statusBackoff(attempt int) time.Duration {
	return time.Duration(float64(attempt+1) * 0.5 * float64(time.Second))
}

// transportBackoff waits 2^attempt*0.5 seconds plus jitter in [0,0.5).
func (f *Fetcher) transportBackoff(attempt int) time.Duration {
	seconds := math.Pow(2, float64(attempt))*0.5 + 0.5*f.randFloat()
	return time.Duration(seconds * float64(time.Second))
}
