package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"bookscout/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLibrary := filepath.Join(tempHome, ".local", "share", "bookscout", "library")
	if cfg.Paths.LibraryDir != wantLibrary {
		t.Fatalf("unexpected library dir: got %q want %q", cfg.Paths.LibraryDir, wantLibrary)
	}
	if cfg.Paths.ReadBooksCSV != filepath.Join(tempHome, ".local", "share", "bookscout", "read_books.csv") {
		t.Fatalf("unexpected read books csv: %q", cfg.Paths.ReadBooksCSV)
	}
	if cfg.Scraping.Concurrency != 5 {
		t.Fatalf("unexpected concurrency: %d", cfg.Scraping.Concurrency)
	}
	if cfg.ScrapeDelay() != 1500*time.Millisecond {
		t.Fatalf("unexpected scrape delay: %v", cfg.ScrapeDelay())
	}
	if cfg.SearchDelay() != time.Second {
		t.Fatalf("unexpected search delay: %v", cfg.SearchDelay())
	}
	if cfg.Matching.DedupeThreshold != 85 || cfg.Matching.ReadThreshold != 90 {
		t.Fatalf("unexpected matching thresholds: %+v", cfg.Matching)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LibraryDir, cfg.Paths.OutputDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "bookscout.toml")

	type payload struct {
		Paths struct {
			LibraryDir string `toml:"library_dir"`
		} `toml:"paths"`
		Scraping struct {
			Concurrency  int     `toml:"concurrency"`
			DelaySeconds float64 `toml:"delay_seconds"`
		} `toml:"scraping"`
		Profile struct {
			FavoriteAuthors []string `toml:"favorite_authors"`
		} `toml:"profile"`
	}
	custom := payload{}
	custom.Paths.LibraryDir = filepath.Join(tempDir, "library")
	custom.Scraping.Concurrency = 2
	custom.Scraping.DelaySeconds = 0.25
	custom.Profile.FavoriteAuthors = []string{"Ursula K. Le Guin", "  ", "Ursula K. Le Guin"}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.LibraryDir != custom.Paths.LibraryDir {
		t.Fatalf("expected library dir override, got %q", cfg.Paths.LibraryDir)
	}
	if cfg.Scraping.Concurrency != 2 {
		t.Fatalf("expected concurrency 2, got %d", cfg.Scraping.Concurrency)
	}
	if cfg.ScrapeDelay() != 250*time.Millisecond {
		t.Fatalf("unexpected scrape delay: %v", cfg.ScrapeDelay())
	}
	// Blank and duplicate entries are dropped.
	if len(cfg.Profile.FavoriteAuthors) != 1 || cfg.Profile.FavoriteAuthors[0] != "Ursula K. Le Guin" {
		t.Fatalf("unexpected favorite authors: %v", cfg.Profile.FavoriteAuthors)
	}
	// Unset sections keep their defaults.
	if cfg.Search.MaxResults != config.Default().Search.MaxResults {
		t.Fatalf("unexpected search max results: %d", cfg.Search.MaxResults)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "library_dir") {
		t.Fatalf("sample config missing library_dir: %s", contents)
	}

	// Validate it decodes.
	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Scraping.Concurrency != config.Default().Scraping.Concurrency {
		t.Fatalf("sample concurrency %d differs from default", cfg.Scraping.Concurrency)
	}
	if cfg.Matching.DedupeThreshold != config.Default().Matching.DedupeThreshold {
		t.Fatalf("sample dedupe threshold %d differs from default", cfg.Matching.DedupeThreshold)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Scraping.Concurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive concurrency")
	}

	cfg = config.Default()
	cfg.Matching.DedupeThreshold = 120
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range threshold")
	}

	cfg = config.Default()
	cfg.Matching.DedupeThreshold = 95
	cfg.Matching.ReadThreshold = 90
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when read threshold below dedupe threshold")
	}

	cfg = config.Default()
	cfg.Search.DelaySeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative search delay")
	}
}
