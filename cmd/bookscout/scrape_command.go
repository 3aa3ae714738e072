package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookscout/internal/config"
	"bookscout/internal/fetch"
	"bookscout/internal/goodreads"
	"bookscout/internal/library"
	"bookscout/internal/scrape"
)

const defaultScrapeTop = 50

func newScrapeCommand(ctx *commandContext) *cobra.Command {
	var top int
	var concurrency int
	var metadataOnly bool

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch metadata and reviews for pending candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *library.Store, cfg *config.Config) error {
				out := cmd.OutOrStdout()

				workers := cfg.Scraping.Concurrency
				if concurrency > 0 {
					workers = concurrency
				}

				logger := ctx.newLogger()
				fetcher := fetch.NewFetcher(
					fetch.WithHTTPClient(fetch.NewHTTPClient(workers, cfg.ScrapeTimeout())),
					fetch.WithUserAgent(cfg.Scraping.UserAgent),
					fetch.WithMaxRetries(cfg.Scraping.MaxRetries),
					fetch.WithLogger(logger),
				)
				client := goodreads.NewClient(fetcher)
				scraper := scrape.New(store, client,
					scrape.WithConcurrency(workers),
					scrape.WithDelay(cfg.ScrapeDelay()),
					scrape.WithReviewsPerStar(cfg.Scraping.ReviewsPerStar),
					scrape.WithLogger(logger),
				)

				includeReviews := !metadataOnly
				ids := scraper.Pending(includeReviews)
				if len(ids) == 0 {
					fmt.Fprintln(out, "No candidates need scraping.")
					return nil
				}
				if top > 0 && len(ids) > top {
					ids = ids[:top]
				}

				work := "metadata and reviews"
				if metadataOnly {
					work = "metadata"
				}
				fmt.Fprintf(out, "Scraping %s for %d candidates...\n", work, len(ids))

				prog := startBatchProgress(out, "Scraping", len(ids), scraper.Completed)
				succeeded := scraper.Run(cmd.Context(), ids, includeReviews)
				prog.Finish()

				fmt.Fprintf(out, "Successfully scraped %d books.\n", succeeded)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&top, "top", defaultScrapeTop, "Maximum candidates to scrape (0 for all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel requests (default from config)")
	cmd.Flags().BoolVar(&metadataOnly, "metadata-only", false, "Only fetch metadata, not reviews")
	return cmd
}
