package report_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"bookscout/internal/candidates"
	"bookscout/internal/library"
	"bookscout/internal/readlist"
	"bookscout/internal/report"
)

func record(id, title, author, tier, reasoning string) *library.Record {
	return &library.Record{
		GoodreadsID: id,
		Title:       title,
		Author:      author,
		Recommendation: &library.Recommendation{
			Tier:      tier,
			Reasoning: reasoning,
			Sources:   []candidates.Source{{Type: candidates.SourceSimilar, Seed: "Piranesi"}},
		},
	}
}

func TestRenderGroupsByTier(t *testing.T) {
	books := []*library.Record{
		record("1", "Exhalation", "Ted Chiang", library.TierHigh, "precise, humane speculative fiction"),
		record("2", "Some Thriller", "Airport Author", library.TierSkip, "formulaic plotting"),
		record("3", "The Starless Sea", "Erin Morgenstern", library.TierTry, "lush but meandering"),
	}

	out := report.Render(books, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	if !strings.Contains(out, "Generated: 2026-09-01 12:00 UTC") {
		t.Error("missing generation timestamp")
	}
	if !strings.Contains(out, "Total candidates analyzed: 3") {
		t.Error("missing total count")
	}
	if !strings.Contains(out, "## High Confidence") {
		t.Error("missing high tier section")
	}
	if !strings.Contains(out, "### 1. Exhalation by Ted Chiang") {
		t.Error("missing numbered entry")
	}
	if !strings.Contains(out, "**Why**: precise, humane speculative fiction") {
		t.Error("missing reasoning")
	}
	if !strings.Contains(out, "**Source**: Similar to Piranesi") {
		t.Error("missing source line")
	}
	if strings.Contains(out, "## Medium Confidence") {
		t.Error("empty tier must be omitted")
	}
	if !strings.Contains(out, "| Some Thriller | Airport Author | formulaic plotting |") {
		t.Error("skip tier must render as a table row")
	}
}

func TestRenderTruncatesSkipReason(t *testing.T) {
	long := strings.Repeat("x", 80)
	out := report.Render([]*library.Record{record("1", "A", "B", library.TierSkip, long)}, time.Now())
	if !strings.Contains(out, strings.Repeat("x", 57)+"...") {
		t.Error("long skip reason should be truncated")
	}
	if strings.Contains(out, long) {
		t.Error("full reason must not appear")
	}
}

func TestRenderTruncatesSkipReasonOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 80)
	out := report.Render([]*library.Record{record("1", "A", "B", library.TierSkip, long)}, time.Now())
	if !utf8.ValidString(out) {
		t.Fatal("report contains invalid UTF-8")
	}
	if !strings.Contains(out, strings.Repeat("é", 57)+"...") {
		t.Error("multi-byte skip reason should keep 57 characters")
	}
}

func TestRenderIncludesAnalysisThemes(t *testing.T) {
	book := record("1", "Exhalation", "Ted Chiang", library.TierHigh, "great")
	book.Analysis = &library.Analysis{
		Data: json.RawMessage(`{"themes":{"praised_for":["prose","ideas","heart","extra"],"criticized_for":["pacing"]}}`),
	}

	out := report.Render([]*library.Record{book}, time.Now())
	if !strings.Contains(out, "**Praised for**: prose, ideas, heart") {
		t.Errorf("praised themes missing or uncapped:\n%s", out)
	}
	if !strings.Contains(out, "**Criticized for**: pacing") {
		t.Error("criticized themes missing")
	}
}

func TestRenderTolerantOfOpaqueAnalysis(t *testing.T) {
	book := record("1", "A", "B", library.TierHigh, "fine")
	book.Analysis = &library.Analysis{Data: json.RawMessage(`{"something":"else"}`)}

	out := report.Render([]*library.Record{book}, time.Now())
	if strings.Contains(out, "Praised for") {
		t.Error("schema-less analysis must not invent themes")
	}
}

func TestClassifyFiction(t *testing.T) {
	cases := []struct {
		genres []string
		want   string
	}{
		{[]string{"Fantasy", "Fiction"}, "Fiction"},
		{[]string{"Science Fiction", "History"}, "Non-Fiction"},
		{[]string{"Memoir"}, "Non-Fiction"},
		{nil, "Unknown"},
	}
	for _, tc := range cases {
		if got := report.ClassifyFiction(tc.genres); got != tc.want {
			t.Errorf("ClassifyFiction(%v) = %q, want %q", tc.genres, got, tc.want)
		}
	}
}

func genreEntries() []readlist.Entry {
	return []readlist.Entry{
		{Title: "A", Rating: 5, Genres: []string{"Fantasy", "Fiction"}},
		{Title: "B", Rating: 4, Genres: []string{"Fantasy"}},
		{Title: "C", Rating: 3, Genres: []string{"Fantasy", "History"}},
		{Title: "D", Rating: 0, Genres: []string{"Fantasy"}},
		{Title: "E", Rating: 2, Genres: []string{"History"}},
	}
}

func TestCountGenres(t *testing.T) {
	counts := report.CountGenres(genreEntries())
	if counts["Fantasy"] != 4 || counts["History"] != 2 || counts["Fiction"] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestRatingByGenreSkipsUnrated(t *testing.T) {
	ratings := report.RatingByGenre(genreEntries())
	fantasy := ratings["Fantasy"]
	if fantasy.Count != 3 {
		t.Fatalf("fantasy count = %d, want 3 (unrated skipped)", fantasy.Count)
	}
	if fantasy.Average != 4.0 {
		t.Fatalf("fantasy average = %v, want 4.0", fantasy.Average)
	}
}

func TestGenreSummary(t *testing.T) {
	out := report.GenreSummary(genreEntries())

	if !strings.Contains(out, "Total books: 5") {
		t.Error("missing total")
	}
	if !strings.Contains(out, "Fantasy: 4") {
		t.Error("missing top genre count")
	}
	if !strings.Contains(out, "Fiction: 3 (60.0%)") {
		t.Errorf("missing fiction breakdown:\n%s", out)
	}
	if !strings.Contains(out, "Fantasy: 4.00 (3 books)") {
		t.Errorf("missing rating line:\n%s", out)
	}
}
