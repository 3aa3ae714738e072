package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScraping(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScraping() error {
	if err := ensurePositiveMap(map[string]int{
		"scraping.concurrency":      c.Scraping.Concurrency,
		"scraping.max_retries":      c.Scraping.MaxRetries,
		"scraping.reviews_per_star": c.Scraping.ReviewsPerStar,
		"scraping.timeout_seconds":  c.Scraping.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Scraping.DelaySeconds < 0 {
		return errors.New("scraping.delay_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.MaxResults <= 0 {
		return errors.New("search.max_results must be positive")
	}
	if c.Search.DelaySeconds < 0 {
		return errors.New("search.delay_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.DedupeThreshold < 1 || c.Matching.DedupeThreshold > 100 {
		return errors.New("matching.dedupe_threshold must be between 1 and 100")
	}
	if c.Matching.ReadThreshold < 1 || c.Matching.ReadThreshold > 100 {
		return errors.New("matching.read_threshold must be between 1 and 100")
	}
	if c.Matching.ReadThreshold < c.Matching.DedupeThreshold {
		return errors.New("matching.read_threshold must be >= matching.dedupe_threshold")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
