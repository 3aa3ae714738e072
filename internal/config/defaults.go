package config

const (
	defaultLibraryDir   = "~/.local/share/bookscout/library"
	defaultReadBooksCSV = "~/.local/share/bookscout/read_books.csv"
	defaultOutputDir    = "~/.local/share/bookscout/output"
	defaultLogDir       = "~/.local/share/bookscout/logs"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultScrapeDelaySeconds   = 1.5
	defaultScrapeConcurrency    = 5
	defaultScrapeMaxRetries     = 3
	defaultReviewsPerStar       = 3
	defaultScrapeTimeoutSeconds = 30

	defaultSearchMaxResults   = 10
	defaultSearchDelaySeconds = 1.0

	defaultDedupeThreshold = 85
	defaultReadThreshold   = 90

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir:   defaultLibraryDir,
			ReadBooksCSV: defaultReadBooksCSV,
			OutputDir:    defaultOutputDir,
			LogDir:       defaultLogDir,
		},
		Scraping: Scraping{
			UserAgent:      defaultUserAgent,
			DelaySeconds:   defaultScrapeDelaySeconds,
			Concurrency:    defaultScrapeConcurrency,
			MaxRetries:     defaultScrapeMaxRetries,
			ReviewsPerStar: defaultReviewsPerStar,
			TimeoutSeconds: defaultScrapeTimeoutSeconds,
		},
		Search: Search{
			MaxResults:   defaultSearchMaxResults,
			DelaySeconds: defaultSearchDelaySeconds,
		},
		Matching: Matching{
			DedupeThreshold: defaultDedupeThreshold,
			ReadThreshold:   defaultReadThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
