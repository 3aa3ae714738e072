package match

import (
	"math"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// DefaultThreshold is the similarity score (0-100) both title and author must
// reach for two entries to count as duplicates.
const DefaultThreshold = 85

// ReadThreshold is the stricter score used when matching candidates against
// the already-read list, to keep false "already read" exclusions rare.
const ReadThreshold = 90

// AreDuplicates reports whether two book entries refer to the same work.
// Exactly equal normalized keys short-circuit to true; otherwise both the
// title similarity and the author similarity must reach threshold.
func AreDuplicates(title1, author1, title2, author2 string, threshold int) bool {
	normTitle1 := NormalizeTitle(title1)
	normTitle2 := NormalizeTitle(title2)
	normAuthor1 := NormalizeAuthor(author1)
	normAuthor2 := NormalizeAuthor(author2)

	if normTitle1 == normTitle2 && normAuthor1 == normAuthor2 {
		return true
	}

	if Ratio(normTitle1, normTitle2) < threshold {
		return false
	}
	return Ratio(normAuthor1, normAuthor2) >= threshold
}

// Ratio scores the similarity of two normalized strings on a 0-100 scale.
// The score is insensitive to token order and to spacing differences, so
// "liu ken" matches "ken liu" and "leguin" matches "le guin".
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	lev := metrics.NewLevenshtein()

	best := strutil.Similarity(a, b, lev)
	if sorted := strutil.Similarity(sortTokens(a), sortTokens(b), lev); sorted > best {
		best = sorted
	}
	if squashed := strutil.Similarity(squash(a), squash(b), lev); squashed > best {
		best = squashed
	}

	return int(math.Round(best * 100))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}
