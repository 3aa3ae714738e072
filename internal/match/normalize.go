package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	seriesMarkerRe  = regexp.MustCompile(`(?i)\s*\([^)]*(?:#|book|vol|volume)\s*\d+[^)]*\)`)
	trailingHashRe  = regexp.MustCompile(`\s*#\d+\s*$`)
	diacriticStrip  = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	whitespaceSplit = strings.Fields
)

// NormalizeTitle maps a raw book title to its canonical comparison form:
// lowercased, subtitle and series markers removed, leading "the" dropped,
// diacritics folded, whitespace collapsed.
func NormalizeTitle(title string) string {
	title = foldCase(title)

	if idx := strings.Index(title, ":"); idx >= 0 {
		title = title[:idx]
	}

	title = seriesMarkerRe.ReplaceAllString(title, "")
	title = trailingHashRe.ReplaceAllString(title, "")
	title = strings.TrimPrefix(title, "the ")

	return strings.Join(whitespaceSplit(title), " ")
}

// NormalizeAuthor maps a raw author name to its canonical comparison form:
// lowercased, periods removed so initials collapse ("J.R.R." becomes "jrr"),
// diacritics folded, whitespace collapsed.
func NormalizeAuthor(author string) string {
	author = foldCase(author)
	author = strings.ReplaceAll(author, ".", "")
	return strings.Join(whitespaceSplit(author), " ")
}

// Key builds the normalized dedup key for a (title, author) pair.
func Key(title, author string) string {
	return NormalizeTitle(title) + "|" + NormalizeAuthor(author)
}

func foldCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(diacriticStrip, s); err == nil {
		return folded
	}
	return s
}
