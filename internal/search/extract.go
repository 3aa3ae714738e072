package search

import (
	"regexp"
	"strings"
)

var (
	// "Title by Author" with the author cut at a dash, pipe, or end.
	byPatternRe = regexp.MustCompile(`(?i)"?([^"]+)"?\s+by\s+([A-Z][a-zA-Z.\s]+?)(?:\s*[-–—]|\s*\||\s*$)`)
	// "Author - Title" or "Author: Title".
	authorFirstRe = regexp.MustCompile(`([A-Z][a-zA-Z.\s]+?)\s*[-–—:]\s*([^,|]+)`)
	// Series notation inside an extracted title, e.g. "(Stormlight #2)".
	seriesNotationRe = regexp.MustCompile(`\s*\([^)]*#\d+[^)]*\)`)
)

// ExtractBookAuthor tries to recover a (title, author) pair from a search
// result's title and snippet. It recognizes "Title by Author" and
// "Author - Title" shapes; anything else yields empty strings. This is a
// heuristic: callers must tolerate misses.
func ExtractBookAuthor(title, snippet string) (string, string) {
	text := title + " " + snippet

	if m := byPatternRe.FindStringSubmatch(text); m != nil {
		book := strings.Trim(strings.TrimSpace(m[1]), `"`)
		book = seriesNotationRe.ReplaceAllString(book, "")
		return strings.TrimSpace(book), strings.TrimSpace(m[2])
	}

	if m := authorFirstRe.FindStringSubmatch(text); m != nil {
		author := strings.TrimSpace(m[1])
		// Only accept when the left side looks like a person's name.
		if words := strings.Fields(author); len(words) >= 2 && len(words) <= 4 {
			book := strings.Trim(strings.TrimSpace(m[2]), `"`)
			return book, author
		}
	}

	return "", ""
}
