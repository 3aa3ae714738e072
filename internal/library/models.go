package library

import (
	"encoding/json"
	"errors"
	"time"

	"bookscout/internal/candidates"
)

// ErrNotFound indicates the requested record or cache entry does not exist.
var ErrNotFound = errors.New("library: not found")

// Recommendation tiers assigned after analysis.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierTry    = "try"
	TierSkip   = "skip"
)

// Series identifies a book's place within a series.
type Series struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	URL      string `json:"series_url,omitempty"`
}

// Metadata holds scraped book-page details. Series is promoted to the
// record's top level when the metadata is stored.
type Metadata struct {
	Title           string    `json:"title,omitempty"`
	Author          string    `json:"author,omitempty"`
	Genres          []string  `json:"genres,omitempty"`
	AverageRating   float64   `json:"avg_rating,omitempty"`
	RatingsCount    int       `json:"num_ratings,omitempty"`
	Pages           int       `json:"num_pages,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	Description     string    `json:"description,omitempty"`
	Series          *Series   `json:"series,omitempty"`
	FetchedAt       time.Time `json:"fetched_at,omitzero"`
}

// Review is a single reader review with its like count.
type Review struct {
	Text  string `json:"text"`
	Likes int    `json:"likes"`
}

// ReviewSet groups scraped reviews by star rating.
type ReviewSet struct {
	ByStar    map[int][]Review `json:"by_star"`
	FetchedAt time.Time        `json:"fetched_at,omitzero"`
}

// Analysis wraps an externally produced structured payload. The store
// persists it verbatim and assumes nothing about its schema.
type Analysis struct {
	Data        json.RawMessage `json:"data"`
	GeneratedAt time.Time       `json:"generated_at,omitzero"`
}

// Recommendation carries provenance sources and, once assigned, the final
// tier with its reasoning.
type Recommendation struct {
	Sources      []candidates.Source `json:"sources,omitempty"`
	Tier         string              `json:"tier,omitempty"`
	Reasoning    string              `json:"reasoning,omitempty"`
	Dealbreakers []string            `json:"dealbreakers,omitempty"`
	GeneratedAt  time.Time           `json:"generated_at,omitzero"`
}

// Record is the durable per-book document. Substructures are filled in
// independently as pipeline stages complete; records only ever grow.
type Record struct {
	GoodreadsID    string          `json:"goodreads_id"`
	Title          string          `json:"title"`
	Author         string          `json:"author"`
	URL            string          `json:"goodreads_url"`
	Series         *Series         `json:"series,omitempty"`
	Metadata       *Metadata       `json:"metadata,omitempty"`
	Reviews        *ReviewSet      `json:"reviews,omitempty"`
	Analysis       *Analysis       `json:"analysis,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

// IndexEntry is the compact status projection of one record. The flags must
// mirror substructure presence in the record file.
type IndexEntry struct {
	Title             string `json:"title"`
	Author            string `json:"author"`
	HasMetadata       bool   `json:"has_metadata"`
	HasReviews        bool   `json:"has_reviews"`
	HasAnalysis       bool   `json:"has_analysis"`
	HasRecommendation bool   `json:"has_recommendation"`
	Tier              string `json:"tier,omitempty"`
}

type index struct {
	Version     int                   `json:"version"`
	Books       map[string]IndexEntry `json:"books"`
	LastUpdated time.Time             `json:"last_updated"`
}

// Status summarizes pipeline progress across the whole library.
type Status struct {
	TotalCandidates    int `json:"total_candidates"`
	WithMetadata       int `json:"with_metadata"`
	WithReviews        int `json:"with_reviews"`
	WithAnalysis       int `json:"with_analysis"`
	WithRecommendation int `json:"with_recommendation"`
	NeedingMetadata    int `json:"needing_metadata"`
	NeedingReviews     int `json:"needing_reviews"`
	NeedingAnalysis    int `json:"needing_analysis"`
}

// SearchResult is one row of an external search, with any book reference
// extracted from its text.
type SearchResult struct {
	Title           string `json:"title"`
	URL             string `json:"url,omitempty"`
	Snippet         string `json:"snippet,omitempty"`
	ExtractedTitle  string `json:"extracted_title,omitempty"`
	ExtractedAuthor string `json:"extracted_author,omitempty"`
}

// CachedSearch is an immutable cached query result. A hit is authoritative
// and never re-validated.
type CachedSearch struct {
	Query      string         `json:"query"`
	SearchedAt time.Time      `json:"searched_at"`
	Results    []SearchResult `json:"results"`
}
