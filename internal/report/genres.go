package report

import (
	"fmt"
	"sort"
	"strings"

	"bookscout/internal/readlist"
)

// Genre labels that mark a book as non-fiction.
var nonfictionGenres = map[string]struct{}{
	"nonfiction": {}, "history": {}, "biography": {}, "science": {},
	"economics": {}, "politics": {}, "philosophy": {}, "psychology": {},
	"sociology": {}, "anthropology": {}, "business": {}, "finance": {},
	"religion": {}, "self-help": {}, "memoir": {}, "autobiography": {},
	"essays": {}, "journalism": {}, "travel": {}, "cooking": {},
	"art": {}, "music": {}, "sports": {}, "nature": {}, "health": {},
	"education": {}, "reference": {}, "true crime": {}, "world history": {},
	"military history": {},
}

// ClassifyFiction labels a book Fiction, Non-Fiction, or Unknown based on
// its genre list. Any non-fiction marker wins; a book with genres but no
// marker defaults to Fiction.
func ClassifyFiction(genres []string) string {
	if len(genres) == 0 {
		return "Unknown"
	}
	for _, genre := range genres {
		if _, nonfiction := nonfictionGenres[strings.ToLower(genre)]; nonfiction {
			return "Non-Fiction"
		}
	}
	return "Fiction"
}

// GenreRating is the average user rating over the rated books in a genre.
type GenreRating struct {
	Average float64
	Count   int
}

// CountGenres tallies genre occurrences across all entries.
func CountGenres(entries []readlist.Entry) map[string]int {
	counts := make(map[string]int)
	for _, entry := range entries {
		for _, genre := range entry.Genres {
			counts[genre]++
		}
	}
	return counts
}

// RatingByGenre averages the user's ratings per genre; unrated books are
// skipped.
func RatingByGenre(entries []readlist.Entry) map[string]GenreRating {
	totals := make(map[string]int)
	counts := make(map[string]int)
	for _, entry := range entries {
		if entry.Rating == 0 {
			continue
		}
		for _, genre := range entry.Genres {
			totals[genre] += entry.Rating
			counts[genre]++
		}
	}

	ratings := make(map[string]GenreRating, len(counts))
	for genre, count := range counts {
		ratings[genre] = GenreRating{
			Average: float64(totals[genre]) / float64(count),
			Count:   count,
		}
	}
	return ratings
}

// GenreSummary renders a text summary of the read list's genre profile.
func GenreSummary(entries []readlist.Entry) string {
	counts := CountGenres(entries)
	ratings := RatingByGenre(entries)

	fictionCounts := map[string]int{}
	for _, entry := range entries {
		fictionCounts[ClassifyFiction(entry.Genres)]++
	}

	ratedBooks, ratingTotal := 0, 0
	for _, entry := range entries {
		if entry.Rating > 0 {
			ratedBooks++
			ratingTotal += entry.Rating
		}
	}

	var b strings.Builder
	rule := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 40)

	fmt.Fprintf(&b, "%s\nGENRE ANALYSIS SUMMARY\n%s\n\n", rule, rule)

	fmt.Fprintf(&b, "OVERVIEW\n%s\n", thin)
	fmt.Fprintf(&b, "Total books: %d\n", len(entries))
	fmt.Fprintf(&b, "Unique genres: %d\n", len(counts))
	fmt.Fprintf(&b, "Rated books: %d\n", ratedBooks)
	if ratedBooks > 0 {
		fmt.Fprintf(&b, "Average rating: %.2f\n", float64(ratingTotal)/float64(ratedBooks))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "FICTION VS NON-FICTION\n%s\n", thin)
	total := len(entries)
	for _, category := range sortedKeys(fictionCounts) {
		count := fictionCounts[category]
		pct := 0.0
		if total > 0 {
			pct = float64(count) / float64(total) * 100
		}
		fmt.Fprintf(&b, "%s: %d (%.1f%%)\n", category, count, pct)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "TOP 20 GENRES BY BOOK COUNT\n%s\n", thin)
	for _, genre := range topGenresByCount(counts, 20) {
		fmt.Fprintf(&b, "%s: %d\n", genre, counts[genre])
	}
	b.WriteString("\n")

	rated := ratedGenres(ratings, 3)
	fmt.Fprintf(&b, "TOP 20 GENRES BY AVERAGE RATING (min 3 books)\n%s\n", thin)
	sort.SliceStable(rated, func(i, j int) bool { return ratings[rated[i]].Average > ratings[rated[j]].Average })
	for _, genre := range firstN(rated, 20) {
		fmt.Fprintf(&b, "%s: %.2f (%d books)\n", genre, ratings[genre].Average, ratings[genre].Count)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "LOWEST RATED GENRES (min 3 books)\n%s\n", thin)
	sort.SliceStable(rated, func(i, j int) bool { return ratings[rated[i]].Average < ratings[rated[j]].Average })
	for _, genre := range firstN(rated, 10) {
		fmt.Fprintf(&b, "%s: %.2f (%d books)\n", genre, ratings[genre].Average, ratings[genre].Count)
	}

	return b.String()
}

func topGenresByCount(counts map[string]int, n int) []string {
	genres := make([]string, 0, len(counts))
	for genre := range counts {
		genres = append(genres, genre)
	}
	sort.Slice(genres, func(i, j int) bool {
		if counts[genres[i]] != counts[genres[j]] {
			return counts[genres[i]] > counts[genres[j]]
		}
		return genres[i] < genres[j]
	})
	return firstN(genres, n)
}

func ratedGenres(ratings map[string]GenreRating, minBooks int) []string {
	genres := make([]string, 0, len(ratings))
	for genre, rating := range ratings {
		if rating.Count >= minBooks {
			genres = append(genres, genre)
		}
	}
	sort.Strings(genres)
	return genres
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
