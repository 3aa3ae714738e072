package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScraping()
	c.normalizeSearch()
	c.normalizeMatching()
	c.normalizeProfile()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		c.Paths.LibraryDir = defaultLibraryDir
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReadBooksCSV) == "" {
		c.Paths.ReadBooksCSV = defaultReadBooksCSV
	}
	if c.Paths.ReadBooksCSV, err = expandPath(c.Paths.ReadBooksCSV); err != nil {
		return fmt.Errorf("paths.read_books_csv: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScraping() {
	c.Scraping.UserAgent = strings.TrimSpace(c.Scraping.UserAgent)
	if c.Scraping.UserAgent == "" {
		c.Scraping.UserAgent = defaultUserAgent
	}
	if c.Scraping.DelaySeconds < 0 {
		c.Scraping.DelaySeconds = defaultScrapeDelaySeconds
	}
	if c.Scraping.Concurrency <= 0 {
		c.Scraping.Concurrency = defaultScrapeConcurrency
	}
	if c.Scraping.MaxRetries <= 0 {
		c.Scraping.MaxRetries = defaultScrapeMaxRetries
	}
	if c.Scraping.ReviewsPerStar <= 0 {
		c.Scraping.ReviewsPerStar = defaultReviewsPerStar
	}
	if c.Scraping.TimeoutSeconds <= 0 {
		c.Scraping.TimeoutSeconds = defaultScrapeTimeoutSeconds
	}
}

func (c *Config) normalizeSearch() {
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = defaultSearchMaxResults
	}
	if c.Search.DelaySeconds < 0 {
		c.Search.DelaySeconds = defaultSearchDelaySeconds
	}
}

func (c *Config) normalizeMatching() {
	if c.Matching.DedupeThreshold <= 0 {
		c.Matching.DedupeThreshold = defaultDedupeThreshold
	}
	if c.Matching.ReadThreshold <= 0 {
		c.Matching.ReadThreshold = defaultReadThreshold
	}
}

func (c *Config) normalizeProfile() {
	c.Profile.FavoriteAuthors = cleanAuthorList(c.Profile.FavoriteAuthors)
	c.Profile.AvoidAuthors = cleanAuthorList(c.Profile.AvoidAuthors)
}

func cleanAuthorList(authors []string) []string {
	cleaned := make([]string, 0, len(authors))
	seen := make(map[string]struct{}, len(authors))
	for _, author := range authors {
		trimmed := strings.TrimSpace(author)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, trimmed)
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
