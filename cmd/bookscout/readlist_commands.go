package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"bookscout/internal/fetch"
	"bookscout/internal/goodreads"
	"bookscout/internal/readlist"
)

func newImportReadCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import-read <export.csv>",
		Short: "Clean a Goodreads export into the read-books list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := output
			if target == "" {
				target = cfg.Paths.ReadBooksCSV
			}

			kept, err := readlist.Clean(args[0], target)
			if err != nil {
				return fmt.Errorf("clean read list: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d read books to %s\n", kept, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination CSV (default from config)")
	return cmd
}

func newEnrichReadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enrich-read",
		Short: "Fetch genres for read books missing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			logger := ctx.newLogger()

			entries, err := readlist.Load(cfg.Paths.ReadBooksCSV)
			if err != nil {
				return fmt.Errorf("load read list: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "Read list is empty; run import-read first.")
				return nil
			}

			// Only books with an id and no genres yet need a fetch.
			indexByID := make(map[string]int, len(entries))
			var pending []string
			for i, entry := range entries {
				if entry.GoodreadsID == "" || len(entry.Genres) > 0 {
					continue
				}
				indexByID[entry.GoodreadsID] = i
				pending = append(pending, entry.GoodreadsID)
			}
			if len(pending) == 0 {
				fmt.Fprintln(out, "All read books already have genres.")
				return nil
			}

			fetcher := fetch.NewFetcher(
				fetch.WithHTTPClient(fetch.NewHTTPClient(cfg.Scraping.Concurrency, cfg.ScrapeTimeout())),
				fetch.WithUserAgent(cfg.Scraping.UserAgent),
				fetch.WithMaxRetries(cfg.Scraping.MaxRetries),
				fetch.WithLogger(logger),
			)
			client := goodreads.NewClient(fetcher)
			pool := fetch.NewPool(cfg.Scraping.Concurrency, cfg.ScrapeDelay(),
				fetch.WithPoolLogger(logger))

			var mu sync.Mutex
			withGenres := 0
			prog := startBatchProgress(out, "Fetching genres", len(pending), pool.Completed)
			pool.Run(cmd.Context(), pending, func(ctx context.Context, id string) bool {
				genres := client.FetchGenres(ctx, id)
				if len(genres) == 0 {
					return false
				}
				mu.Lock()
				entries[indexByID[id]].Genres = genres
				withGenres++
				mu.Unlock()
				return true
			})
			prog.Finish()

			if err := readlist.Write(cfg.Paths.ReadBooksCSV, entries); err != nil {
				return fmt.Errorf("write read list: %w", err)
			}
			fmt.Fprintf(out, "Processed %d books, %d with genres found\n", len(pending), withGenres)
			return nil
		},
	}
}
