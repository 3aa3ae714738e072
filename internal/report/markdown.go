// Package report renders read-only views over the library: the markdown
// recommendations report and genre statistics over the read list.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"bookscout/internal/candidates"
	"bookscout/internal/library"
)

var tierHeadings = []struct {
	tier    string
	heading string
}{
	{library.TierHigh, "High Confidence"},
	{library.TierMedium, "Medium Confidence"},
	{library.TierTry, "Worth a Try"},
}

// Generate writes the markdown recommendations report and returns its path.
func Generate(store *library.Store, outputPath string) (string, error) {
	books, err := store.BooksWithRecommendations()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(Render(books, time.Now().UTC())), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return outputPath, nil
}

// Render builds the markdown report body: tier sections sorted best-first,
// with skipped books collapsed into a table.
func Render(books []*library.Record, now time.Time) string {
	byTier := map[string][]*library.Record{}
	for _, book := range books {
		if book.Recommendation == nil {
			continue
		}
		tier := book.Recommendation.Tier
		if tier == "" {
			tier = library.TierSkip
		}
		byTier[tier] = append(byTier[tier], book)
	}
	for tier := range byTier {
		sort.SliceStable(byTier[tier], func(i, j int) bool {
			return strings.ToLower(byTier[tier][i].Title) < strings.ToLower(byTier[tier][j].Title)
		})
	}

	var b strings.Builder
	b.WriteString("# Book Recommendations\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "Total candidates analyzed: %d\n\n---\n\n", len(books))

	for _, section := range tierHeadings {
		if tiered := byTier[section.tier]; len(tiered) > 0 {
			writeTierSection(&b, section.heading, tiered)
		}
	}

	if skipped := byTier[library.TierSkip]; len(skipped) > 0 {
		b.WriteString("## Skipped\n\n")
		b.WriteString("| Title | Author | Reason |\n")
		b.WriteString("|-------|--------|--------|\n")
		for _, book := range skipped {
			reason := book.Recommendation.Reasoning
			if reason == "" {
				reason = "No reason given"
			}
			if runes := []rune(reason); len(runes) > 60 {
				reason = string(runes[:57]) + "..."
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", book.Title, book.Author, reason)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeTierSection(b *strings.Builder, heading string, books []*library.Record) {
	fmt.Fprintf(b, "## %s\n\n", heading)

	for i, book := range books {
		rec := book.Recommendation
		fmt.Fprintf(b, "### %d. %s by %s\n\n", i+1, book.Title, book.Author)

		if rec.Reasoning != "" {
			fmt.Fprintf(b, "**Why**: %s\n\n", rec.Reasoning)
		}

		if sourceLine := describeSources(rec.Sources); sourceLine != "" {
			fmt.Fprintf(b, "**Source**: %s\n\n", sourceLine)
		}

		if book.Metadata != nil && len(book.Metadata.Genres) > 0 {
			genres := book.Metadata.Genres
			if len(genres) > 5 {
				genres = genres[:5]
			}
			fmt.Fprintf(b, "**Genre**: %s\n\n", strings.Join(genres, ", "))
		}

		if len(rec.Dealbreakers) > 0 {
			fmt.Fprintf(b, "**Potential concerns**: %s\n\n", strings.Join(rec.Dealbreakers, ", "))
		}

		praised, criticized := analysisThemes(book.Analysis)
		if len(praised) > 0 {
			fmt.Fprintf(b, "**Praised for**: %s\n", strings.Join(praised, ", "))
		}
		if len(criticized) > 0 {
			fmt.Fprintf(b, "**Criticized for**: %s\n", strings.Join(criticized, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
}

func describeSources(sources []candidates.Source) string {
	var parts []string
	for _, source := range sources {
		if len(parts) == 3 {
			break
		}
		switch source.Type {
		case candidates.SourceSimilar:
			seed := source.Seed
			if seed == "" {
				seed = "unknown"
			}
			parts = append(parts, "Similar to "+seed)
		case candidates.SourceAuthor:
			parts = append(parts, "By author search")
		case candidates.SourceStyle:
			query := source.Query
			if query == "" {
				query = "unknown"
			}
			parts = append(parts, "Style: "+query)
		}
	}
	return strings.Join(parts, " | ")
}

// analysisThemes pulls the praised/criticized theme lists out of the opaque
// analysis payload, if they exist. Up to three of each are reported.
func analysisThemes(analysis *library.Analysis) ([]string, []string) {
	if analysis == nil || len(analysis.Data) == 0 {
		return nil, nil
	}

	var parsed struct {
		Themes struct {
			PraisedFor    []string `json:"praised_for"`
			CriticizedFor []string `json:"criticized_for"`
		} `json:"themes"`
	}
	if err := json.Unmarshal(analysis.Data, &parsed); err != nil {
		return nil, nil
	}

	return firstN(parsed.Themes.PraisedFor, 3), firstN(parsed.Themes.CriticizedFor, 3)
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
