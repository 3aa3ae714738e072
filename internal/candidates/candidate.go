package candidates

import (
	"bookscout/internal/match"
)

// SourceType categorizes where a candidate suggestion came from.
type SourceType string

const (
	SourceSimilar          SourceType = "similar"
	SourceAuthor           SourceType = "author"
	SourceStyle            SourceType = "style"
	SourceManual           SourceType = "manual"
	SourceSeriesResolution SourceType = "series_resolution"
)

// Source records the provenance of a single suggestion occurrence.
type Source struct {
	Type       SourceType `json:"type"`
	Seed       string     `json:"seed,omitempty"`
	Query      string     `json:"query,omitempty"`
	Note       string     `json:"note,omitempty"`
	OriginalID string     `json:"original_id,omitempty"`
}

// Candidate is an in-memory book suggestion moving through the aggregation
// pipeline. Key always reflects the current Title and Author.
type Candidate struct {
	Title          string
	Author         string
	GoodreadsID    string
	Sources        []Source
	FrequencyScore float64
	Key            string
}

// New builds a candidate with its normalized key derived and a starting
// frequency score of 1.
func New(title, author string, sources ...Source) Candidate {
	return Candidate{
		Title:          title,
		Author:         author,
		Sources:        sources,
		FrequencyScore: 1.0,
		Key:            match.Key(title, author),
	}
}

// Rename updates the identity fields and recomputes the key so the two can
// never drift apart.
func (c *Candidate) Rename(title, author string) {
	c.Title = title
	c.Author = author
	c.Key = match.Key(title, author)
}

// ExtractedBook is a (title, author) pair recovered from an external search
// result row.
type ExtractedBook struct {
	Title  string
	Author string
}

// FromSearchResults converts extracted search rows into candidates, tagging
// each with the originating source. Rows missing a title or author are
// skipped.
func FromSearchResults(rows []ExtractedBook, source Source) []Candidate {
	out := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		if row.Title == "" || row.Author == "" {
			continue
		}
		out = append(out, New(row.Title, row.Author, source))
	}
	return out
}
