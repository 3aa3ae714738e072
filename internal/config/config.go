package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	LibraryDir   string `toml:"library_dir"`
	ReadBooksCSV string `toml:"read_books_csv"`
	OutputDir    string `toml:"output_dir"`
	LogDir       string `toml:"log_dir"`
}

// Scraping contains settings for fetching book pages.
type Scraping struct {
	UserAgent      string  `toml:"user_agent"`
	DelaySeconds   float64 `toml:"delay_seconds"`
	Concurrency    int     `toml:"concurrency"`
	MaxRetries     int     `toml:"max_retries"`
	ReviewsPerStar int     `toml:"reviews_per_star"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Search contains settings for web searches used to discover candidates.
type Search struct {
	MaxResults   int     `toml:"max_results"`
	DelaySeconds float64 `toml:"delay_seconds"`
}

// Matching contains fuzzy matching thresholds for deduplication and
// read-list filtering.
type Matching struct {
	DedupeThreshold int `toml:"dedupe_threshold"`
	ReadThreshold   int `toml:"read_threshold"`
}

// Profile contains the reader's taste preferences.
type Profile struct {
	FavoriteAuthors []string `toml:"favorite_authors"`
	AvoidAuthors    []string `toml:"avoid_authors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for bookscout.
//
// Configuration sections by subsystem:
//   - Paths: library, read list, report, and log locations
//   - Scraping: book page fetching pace and limits
//   - Search: candidate discovery searches
//   - Matching: fuzzy matching thresholds
//   - Profile: favorite and avoided authors
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Scraping Scraping `toml:"scraping"`
	Search   Search   `toml:"search"`
	Matching Matching `toml:"matching"`
	Profile  Profile  `toml:"profile"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/bookscout/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("bookscout.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories commands write into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LibraryDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ScrapeDelay returns the pause applied after each successful page fetch.
func (c *Config) ScrapeDelay() time.Duration {
	return time.Duration(c.Scraping.DelaySeconds * float64(time.Second))
}

// SearchDelay returns the pause applied after each live web search.
func (c *Config) SearchDelay() time.Duration {
	return time.Duration(c.Search.DelaySeconds * float64(time.Second))
}

// ScrapeTimeout returns the per-request HTTP timeout for page fetches.
func (c *Config) ScrapeTimeout() time.Duration {
	return time.Duration(c.Scraping.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
