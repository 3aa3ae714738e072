package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CachedSearchResult returns the cached results for (searchType, slug), or
// ErrNotFound on a miss. Hits are authoritative; entries are never aged out.
func (s *Store) CachedSearchResult(searchType, slug string) (*CachedSearch, error) {
	data, err := os.ReadFile(s.searchPath(searchType, slug))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("search %s/%s: %w", searchType, slug, ErrNotFound)
		}
		return nil, fmt.Errorf("read cached search: %w", err)
	}

	var cached CachedSearch
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("parse cached search %s/%s: %w", searchType, slug, err)
	}
	return &cached, nil
}

// CacheSearchResult writes a search result to the cache.
func (s *Store) CacheSearchResult(searchType, slug, query string, results []SearchResult) error {
	dir := filepath.Join(s.searchesDir, searchType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create search cache directory: %w", err)
	}

	cached := CachedSearch{
		Query:      query,
		SearchedAt: s.now().UTC(),
		Results:    results,
	}
	if err := writeJSON(s.searchPath(searchType, slug), cached); err != nil {
		return fmt.Errorf("cache search %s/%s: %w", searchType, slug, err)
	}
	return nil
}

// AllCachedSearches loads every cached search of the given type.
func (s *Store) AllCachedSearches(searchType string) ([]CachedSearch, error) {
	dir := filepath.Join(s.searchesDir, searchType)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan search cache: %w", err)
	}

	var searches []CachedSearch
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read cached search %s: %w", entry.Name(), err)
		}
		var cached CachedSearch
		if err := json.Unmarshal(data, &cached); err != nil {
			return nil, fmt.Errorf("parse cached search %s: %w", entry.Name(), err)
		}
		searches = append(searches, cached)
	}
	return searches, nil
}

func (s *Store) searchPath(searchType, slug string) string {
	return filepath.Join(s.searchesDir, searchType, slug+".json")
}
