package search_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"bookscout/internal/fetch"
	"bookscout/internal/library"
	"bookscout/internal/search"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"books like Piranesi", "books_like_piranesi"},
		{`books similar to "The Dispossessed"`, "books_similar_to_the_dispossessed"},
		{"  Ursula K. Le Guin  ", "ursula_k_le_guin"},
		{"already_slugged-text", "already_slugged_text"},
	}
	for _, tc := range cases {
		if got := search.Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyLengthCap(t *testing.T) {
	long := ""
	for range 30 {
		long += "verylongword "
	}
	if got := search.Slugify(long); len(got) > 100 {
		t.Fatalf("slug length = %d, want <= 100", len(got))
	}
}

func TestExtractBookAuthorByPattern(t *testing.T) {
	cases := []struct {
		title      string
		snippet    string
		wantBook   string
		wantAuthor string
	}{
		{"Piranesi by Susanna Clarke - Goodreads", "", "Piranesi", "Susanna Clarke"},
		{"The Way of Kings (Stormlight #1) by Brandon Sanderson | review", "", "The Way of Kings", "Brandon Sanderson"},
		{"", "you should read Exhalation by Ted Chiang", "you should read Exhalation", "Ted Chiang"},
	}
	for _, tc := range cases {
		book, author := search.ExtractBookAuthor(tc.title, tc.snippet)
		if book != tc.wantBook || author != tc.wantAuthor {
			t.Errorf("ExtractBookAuthor(%q, %q) = (%q, %q), want (%q, %q)",
				tc.title, tc.snippet, book, author, tc.wantBook, tc.wantAuthor)
		}
	}
}

func TestExtractBookAuthorAuthorFirst(t *testing.T) {
	book, author := search.ExtractBookAuthor("Ursula K. Le Guin - The Dispossessed", "")
	if book != "The Dispossessed" || author != "Ursula K. Le Guin" {
		t.Fatalf("got (%q, %q)", book, author)
	}
}

func TestExtractBookAuthorNoMatch(t *testing.T) {
	book, author := search.ExtractBookAuthor("top ten lists of 2024", "nothing bookish here")
	if book != "" || author != "" {
		t.Fatalf("expected no extraction, got (%q, %q)", book, author)
	}
}

const resultsPage = `<html><body>
<div class="result">
  <a class="result__a" href="https://example.com/piranesi">Piranesi by Susanna Clarke - Goodreads</a>
  <a class="result__snippet">A secret told slantwise in an endless house.</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.com/list">18 Books Like Piranesi</a>
  <a class="result__snippet">Try The Starless Sea by Erin Morgenstern for the same mood.</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.com/three">Third result</a>
  <a class="result__snippet">filler</a>
</div>
</body></html>`

func TestDuckDuckGoSearch(t *testing.T) {
	var query atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.Query().Get("q"))
		w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	ddg := search.NewDuckDuckGo(fetch.NewFetcher(), search.WithSearchURL(server.URL+"/"))
	results, err := ddg.Search(context.Background(), `books like "Piranesi"`, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if got := query.Load().(string); got != `books like "Piranesi"` {
		t.Errorf("query sent = %q", got)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (max cap)", len(results))
	}
	if results[0].URL != "https://example.com/piranesi" {
		t.Errorf("url = %q", results[0].URL)
	}
	if results[0].ExtractedTitle != "Piranesi" || results[0].ExtractedAuthor != "Susanna Clarke" {
		t.Errorf("extraction = (%q, %q)", results[0].ExtractedTitle, results[0].ExtractedAuthor)
	}
	if results[1].ExtractedTitle == "" {
		t.Errorf("snippet extraction failed: %+v", results[1])
	}
}

type countingSearcher struct {
	calls   atomic.Int64
	results []library.SearchResult
}

func (c *countingSearcher) Search(ctx context.Context, query string, maxResults int) ([]library.SearchResult, error) {
	c.calls.Add(1)
	return c.results, nil
}

func openStore(t *testing.T) *library.Store {
	t.Helper()
	store, err := library.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func noDelay(ctx context.Context, d time.Duration) error { return ctx.Err() }

func TestServiceCachesSearches(t *testing.T) {
	store := openStore(t)
	searcher := &countingSearcher{results: []library.SearchResult{
		{Title: "Piranesi by Susanna Clarke", ExtractedTitle: "Piranesi", ExtractedAuthor: "Susanna Clarke"},
	}}
	service := search.NewService(store, searcher, search.WithSleeper(noDelay))

	first, err := service.SimilarBooks(context.Background(), "The Starless Sea", "Erin Morgenstern")
	if err != nil {
		t.Fatalf("SimilarBooks: %v", err)
	}
	if searcher.calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2 (one per query)", searcher.calls.Load())
	}
	if len(first) != 2 {
		t.Fatalf("results = %d, want 2", len(first))
	}

	// Second run must be served entirely from the cache.
	second, err := service.SimilarBooks(context.Background(), "The Starless Sea", "Erin Morgenstern")
	if err != nil {
		t.Fatalf("cached SimilarBooks: %v", err)
	}
	if searcher.calls.Load() != 2 {
		t.Fatalf("calls = %d after cached run, want 2", searcher.calls.Load())
	}
	if len(second) != len(first) {
		t.Fatalf("cached results = %d, want %d", len(second), len(first))
	}
}

func TestServiceAppliesDelayAfterLiveSearchOnly(t *testing.T) {
	store := openStore(t)
	searcher := &countingSearcher{}

	var sleeps atomic.Int64
	service := search.NewService(store, searcher,
		search.WithDelay(time.Second),
		search.WithSleeper(func(ctx context.Context, d time.Duration) error {
			sleeps.Add(1)
			return nil
		}))

	if _, err := service.AuthorBooks(context.Background(), "Ted Chiang"); err != nil {
		t.Fatalf("AuthorBooks: %v", err)
	}
	if sleeps.Load() != 2 {
		t.Fatalf("sleeps = %d, want 2", sleeps.Load())
	}

	if _, err := service.AuthorBooks(context.Background(), "Ted Chiang"); err != nil {
		t.Fatalf("cached AuthorBooks: %v", err)
	}
	if sleeps.Load() != 2 {
		t.Fatalf("sleeps = %d after cached run, want 2", sleeps.Load())
	}
}

func TestExtracted(t *testing.T) {
	results := []library.SearchResult{
		{ExtractedTitle: "Piranesi", ExtractedAuthor: "Susanna Clarke"},
		{Title: "no extraction"},
		{ExtractedTitle: "Orphan"},
	}
	books := search.Extracted(results)
	if len(books) != 1 || books[0].Title != "Piranesi" {
		t.Fatalf("Extracted = %+v", books)
	}
}
