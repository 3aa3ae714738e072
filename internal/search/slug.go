package search

import (
	"regexp"
	"strings"
)

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[\s_-]+`)
)

const maxSlugLength = 100

// Slugify converts text to a filesystem-safe cache key: lowercase, symbols
// stripped, runs of whitespace and separators collapsed to underscores.
func Slugify(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugCollapseRe.ReplaceAllString(slug, "_")

	runes := []rune(slug)
	if len(runes) > maxSlugLength {
		slug = string(runes[:maxSlugLength])
	}
	return slug
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
