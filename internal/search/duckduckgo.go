package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bookscout/internal/fetch"
	"bookscout/internal/library"
)

// DefaultDuckDuckGoURL is the HTML (non-JS) DuckDuckGo endpoint.
const DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

// Searcher executes a live web search.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]library.SearchResult, error)
}

// DuckDuckGo queries the HTML endpoint and scrapes the result list.
type DuckDuckGo struct {
	fetcher *fetch.Fetcher
	baseURL string
}

// DuckDuckGoOption customizes the search client.
type DuckDuckGoOption func(*DuckDuckGo)

// WithSearchURL overrides the endpoint (useful for tests).
func WithSearchURL(baseURL string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		if baseURL != "" {
			d.baseURL = baseURL
		}
	}
}

// NewDuckDuckGo builds a search client on top of the given fetcher.
func NewDuckDuckGo(fetcher *fetch.Fetcher, opts ...DuckDuckGoOption) *DuckDuckGo {
	d := &DuckDuckGo{fetcher: fetcher, baseURL: DefaultDuckDuckGoURL}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search runs one query and returns up to maxResults rows, each annotated
// with any (title, author) pair extracted from its text.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]library.SearchResult, error) {
	endpoint := d.baseURL + "?q=" + url.QueryEscape(query)
	html, ok := d.fetcher.FetchPage(ctx, endpoint)
	if !ok {
		return nil, fmt.Errorf("search %q: no response", query)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("search %q: parse results: %w", query, err)
	}

	var results []library.SearchResult
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(results) >= maxResults {
			return false
		}

		link := sel.Find(".result__a").First()
		result := library.SearchResult{
			Title:   strings.TrimSpace(link.Text()),
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
		}
		if href, found := link.Attr("href"); found {
			result.URL = href
		}
		if result.Title == "" && result.Snippet == "" {
			return true
		}

		result.ExtractedTitle, result.ExtractedAuthor = ExtractBookAuthor(result.Title, result.Snippet)
		results = append(results, result)
		return true
	})

	return results, nil
}
