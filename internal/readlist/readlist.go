// Package readlist handles the user's read-books CSV: converting a raw
// Goodreads export into the clean format the rest of the tool consumes,
// loading that clean file, and writing it back with enrichment columns.
package readlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"bookscout/internal/match"
)

// Entry is one read book from the clean CSV.
type Entry struct {
	GoodreadsID string
	Title       string
	Author      string
	Rating      int
	Review      string
	Genres      []string
}

// Key returns the normalized title|author key for fuzzy comparisons.
func (e Entry) Key() string {
	return match.Key(e.Title, e.Author)
}

// Load reads a clean read-books CSV. A missing file is not an error; it
// returns an empty list so a fresh setup works without any export.
func Load(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open read books csv: %w", err)
	}
	defer file.Close()

	rows, err := readRecords(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry := Entry{
			GoodreadsID: row["goodreads_id"],
			Title:       row["title"],
			Author:      row["author"],
			Review:      row["my_review"],
			Genres:      splitGenres(row["genres"]),
		}
		if rating, err := strconv.Atoi(row["my_rating"]); err == nil {
			entry.Rating = rating
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Keys returns the set of normalized title|author keys for entries that
// have both fields.
func Keys(entries []Entry) map[string]struct{} {
	keys := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Title != "" && entry.Author != "" {
			keys[entry.Key()] = struct{}{}
		}
	}
	return keys
}

// IDs returns the set of Goodreads IDs present in the entries.
func IDs(entries []Entry) map[string]struct{} {
	ids := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.GoodreadsID != "" {
			ids[entry.GoodreadsID] = struct{}{}
		}
	}
	return ids
}

// Clean converts a raw Goodreads library export into the clean format,
// keeping only books on the "read" shelf. It returns the number of books
// written.
func Clean(inputPath, outputPath string) (int, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("open export: %w", err)
	}
	defer in.Close()

	rows, err := readRecords(in)
	if err != nil {
		return 0, fmt.Errorf("read export: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("create clean csv: %w", err)
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"goodreads_id", "title", "author", "my_rating", "my_review"}); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	count := 0
	for _, row := range rows {
		if row["Exclusive Shelf"] != "read" {
			continue
		}
		record := []string{
			row["Book Id"],
			row["Title"],
			row["Author"],
			row["My Rating"],
			row["My Review"],
		}
		if err := writer.Write(record); err != nil {
			return count, fmt.Errorf("write row: %w", err)
		}
		count++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return count, fmt.Errorf("flush clean csv: %w", err)
	}
	return count, nil
}

// Write saves entries in the clean format plus a genres column, with
// genres joined by "|".
func Write(path string, entries []Entry) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"goodreads_id", "title", "author", "my_rating", "my_review", "genres"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, entry := range entries {
		record := []string{
			entry.GoodreadsID,
			entry.Title,
			entry.Author,
			strconv.Itoa(entry.Rating),
			entry.Review,
			strings.Join(entry.Genres, "|"),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// readRecords parses a CSV stream into header-keyed maps. Short rows leave
// missing columns empty rather than failing the whole file.
func readRecords(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func splitGenres(raw string) []string {
	if raw == "" {
		return nil
	}
	var genres []string
	for _, genre := range strings.Split(raw, "|") {
		if genre = strings.TrimSpace(genre); genre != "" {
			genres = append(genres, genre)
		}
	}
	return genres
}
