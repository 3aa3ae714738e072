package goodreads

import (
	"context"
	"strings"

	"bookscout/internal/fetch"
	"bookscout/internal/library"
)

// DefaultBaseURL is the production Goodreads origin.
const DefaultBaseURL = "https://www.goodreads.com"

// Client fetches and parses Goodreads pages through a retrying fetcher.
type Client struct {
	fetcher *fetch.Fetcher
	baseURL string
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the Goodreads origin (useful for tests).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// NewClient builds a client on top of the given fetcher.
func NewClient(fetcher *fetch.Fetcher, opts ...ClientOption) *Client {
	c := &Client{fetcher: fetcher, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BookURL returns the canonical page URL for a book id.
func (c *Client) BookURL(goodreadsID string) string {
	return c.baseURL + "/book/show/" + goodreadsID
}

// FetchMetadata retrieves and parses a book page. The second return is
// false when the page could not be fetched or yielded nothing usable.
func (c *Client) FetchMetadata(ctx context.Context, goodreadsID string) (library.Metadata, bool) {
	html, ok := c.fetcher.FetchPage(ctx, c.BookURL(goodreadsID))
	if !ok {
		return library.Metadata{}, false
	}
	meta, err := ParseMetadata(html)
	if err != nil {
		return library.Metadata{}, false
	}
	return meta, true
}

// FetchReviews retrieves and parses reviews for a book, keeping up to
// perStar reviews for each target star rating.
func (c *Client) FetchReviews(ctx context.Context, goodreadsID string, targetStars []int, perStar int) (library.ReviewSet, bool) {
	html, ok := c.fetcher.FetchPage(ctx, c.BookURL(goodreadsID))
	if !ok {
		return library.ReviewSet{}, false
	}
	reviews, err := ParseReviews(html, targetStars, perStar)
	if err != nil {
		return library.ReviewSet{}, false
	}
	return reviews, true
}

// FetchGenres retrieves just the genre list for a book. Failures yield an
// empty list.
func (c *Client) FetchGenres(ctx context.Context, goodreadsID string) []string {
	html, ok := c.fetcher.FetchPage(ctx, c.BookURL(goodreadsID))
	if !ok {
		return nil
	}
	genres, err := ParseGenres(html)
	if err != nil {
		return nil
	}
	return genres
}

// BookOne resolves the first book of the series a book belongs to. It
// returns nil when the book is not part of a series, is already Book 1, or
// the series page could not be resolved.
func (c *Client) BookOne(ctx context.Context, goodreadsID string) *SeriesBook {
	meta, ok := c.FetchMetadata(ctx, goodreadsID)
	if !ok || meta.Series == nil {
		return nil
	}
	if meta.Series.Position == 1 {
		return nil
	}
	seriesURL := meta.Series.URL
	if seriesURL == "" {
		return nil
	}
	if !strings.HasPrefix(seriesURL, "http") {
		seriesURL = c.baseURL + seriesURL
	}

	html, ok := c.fetcher.FetchPage(ctx, seriesURL)
	if !ok {
		return nil
	}
	book, err := ParseSeriesPage(html)
	if err != nil {
		return nil
	}
	return book
}
