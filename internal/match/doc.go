// Package match provides title/author normalization and the fuzzy duplicate
// test used throughout candidate aggregation. All functions are pure and
// deterministic; empty input normalizes to the empty string and participates
// in comparisons as such.
package match
