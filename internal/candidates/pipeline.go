package candidates

import (
	"sort"
	"strings"

	"bookscout/internal/match"
)

// Options carries the user profile and thresholds into the aggregation
// pipeline. Everything is passed explicitly so tests and callers can supply
// alternate sets; there is no package-level state.
type Options struct {
	// ReadKeys holds normalized "title|author" keys of already-read books.
	ReadKeys map[string]struct{}
	// AvoidAuthors lists authors whose books are rejected outright.
	AvoidAuthors []string
	// FavoriteAuthors lists authors whose books earn a scoring bonus.
	FavoriteAuthors []string
	// DedupeThreshold is the fuzzy score required to merge two candidates.
	DedupeThreshold int
	// ReadThreshold is the stricter score used against the read list.
	ReadThreshold int
}

func (o Options) dedupeThreshold() int {
	if o.DedupeThreshold > 0 {
		return o.DedupeThreshold
	}
	return match.DefaultThreshold
}

func (o Options) readThreshold() int {
	if o.ReadThreshold > 0 {
		return o.ReadThreshold
	}
	return match.ReadThreshold
}

// Process runs the full aggregation pipeline: deduplicate, drop already-read
// books, drop avoided authors, then score and rank. The input slice is not
// modified.
func Process(input []Candidate, opts Options) []Candidate {
	out := Deduplicate(input, opts.dedupeThreshold())
	out = FilterAlreadyRead(out, opts.ReadKeys, opts.readThreshold())
	out = FilterBlacklisted(out, opts.AvoidAuthors)
	return Score(out, opts.FavoriteAuthors)
}

// Deduplicate merges near-duplicate candidates, accumulating sources and
// frequency scores onto the first occurrence. Matching is pairwise against
// already-accepted candidates; a chain of near-misses does not merge
// transitively.
func Deduplicate(input []Candidate, threshold int) []Candidate {
	unique := make([]Candidate, 0, len(input))

	for _, candidate := range input {
		merged := false
		for i := range unique {
			if match.AreDuplicates(candidate.Title, candidate.Author, unique[i].Title, unique[i].Author, threshold) {
				unique[i].Sources = append(unique[i].Sources, candidate.Sources...)
				unique[i].FrequencyScore += candidate.FrequencyScore
				merged = true
				break
			}
		}
		if !merged {
			unique = append(unique, candidate)
		}
	}

	return unique
}

// FilterAlreadyRead removes candidates present in the read set, either by
// exact normalized key or by a fuzzy match at the stricter threshold.
func FilterAlreadyRead(input []Candidate, readKeys map[string]struct{}, threshold int) []Candidate {
	if len(readKeys) == 0 {
		return append([]Candidate(nil), input...)
	}

	out := make([]Candidate, 0, len(input))
	for _, candidate := range input {
		if _, exact := readKeys[candidate.Key]; exact {
			continue
		}
		if matchesReadKey(candidate, readKeys, threshold) {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

func matchesReadKey(candidate Candidate, readKeys map[string]struct{}, threshold int) bool {
	for key := range readKeys {
		title, author, ok := strings.Cut(key, "|")
		if !ok {
			continue
		}
		if match.AreDuplicates(candidate.Title, candidate.Author, title, author, threshold) {
			return true
		}
	}
	return false
}

// FilterBlacklisted removes candidates whose normalized author exactly
// matches a normalized avoided author. No fuzzy matching here.
func FilterBlacklisted(input []Candidate, avoidAuthors []string) []Candidate {
	if len(avoidAuthors) == 0 {
		return append([]Candidate(nil), input...)
	}

	avoided := make(map[string]struct{}, len(avoidAuthors))
	for _, author := range avoidAuthors {
		avoided[match.NormalizeAuthor(author)] = struct{}{}
	}

	out := make([]Candidate, 0, len(input))
	for _, candidate := range input {
		if _, hit := avoided[match.NormalizeAuthor(candidate.Author)]; hit {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

// Score applies bonus multipliers to each candidate's accumulated frequency
// score and returns the list sorted by score, highest first. Ties keep their
// input order. Multipliers compound: a favorite author suggested by three
// distinct seeds gets both bonuses.
func Score(input []Candidate, favoriteAuthors []string) []Candidate {
	favorites := make(map[string]struct{}, len(favoriteAuthors))
	for _, author := range favoriteAuthors {
		favorites[match.NormalizeAuthor(author)] = struct{}{}
	}

	out := append([]Candidate(nil), input...)
	for i := range out {
		score := out[i].FrequencyScore

		switch seeds := distinctSimilarSeeds(out[i].Sources); {
		case seeds >= 3:
			score *= 1.5
		case seeds == 2:
			score *= 1.2
		}

		if _, favorite := favorites[match.NormalizeAuthor(out[i].Author)]; favorite {
			score *= 1.3
		}

		out[i].FrequencyScore = score
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FrequencyScore > out[j].FrequencyScore
	})
	return out
}

func distinctSimilarSeeds(sources []Source) int {
	seeds := make(map[string]struct{})
	for _, source := range sources {
		if source.Type == SourceSimilar {
			seeds[source.Seed] = struct{}{}
		}
	}
	return len(seeds)
}
