package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookscout/internal/candidates"
	"bookscout/internal/config"
	"bookscout/internal/fetch"
	"bookscout/internal/goodreads"
	"bookscout/internal/library"
	"bookscout/internal/match"
	"bookscout/internal/readlist"
)

var errAlreadyRead = errors.New("already read")

func newCheckReadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check-read <title> <author>",
		Short: "Check whether a book is already on the read list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, author := args[0], args[1]
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			entries, err := readlist.Load(cfg.Paths.ReadBooksCSV)
			if err != nil {
				return fmt.Errorf("load read list: %w", err)
			}

			keys := readlist.Keys(entries)
			if _, exact := keys[match.Key(title, author)]; exact {
				fmt.Fprintln(out, "YES - already read")
				return errAlreadyRead
			}
			for key := range keys {
				readTitle, readAuthor, ok := strings.Cut(key, "|")
				if !ok {
					continue
				}
				if match.AreDuplicates(title, author, readTitle, readAuthor, cfg.Matching.ReadThreshold) {
					fmt.Fprintf(out, "YES - already read (matched: %s)\n", readTitle)
					return errAlreadyRead
				}
			}

			fmt.Fprintln(out, "NO - not in read list")
			return nil
		},
	}
}

func newCheckSeriesCommand(ctx *commandContext) *cobra.Command {
	var add bool

	cmd := &cobra.Command{
		Use:   "check-series <id>",
		Short: "Check whether a book is a later series entry and find book one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return ctx.withStore(func(store *library.Store, cfg *config.Config) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(cmd.ErrOrStderr(), "Checking %s...\n", id)

				fetcher := fetch.NewFetcher(
					fetch.WithHTTPClient(fetch.NewHTTPClient(1, cfg.ScrapeTimeout())),
					fetch.WithUserAgent(cfg.Scraping.UserAgent),
					fetch.WithMaxRetries(cfg.Scraping.MaxRetries),
					fetch.WithLogger(ctx.newLogger()),
				)
				client := goodreads.NewClient(fetcher)

				bookOne := client.BookOne(cmd.Context(), id)
				if bookOne == nil {
					fmt.Fprintln(out, "Not part of a series, or already book one.")
					return nil
				}

				author := bookOne.Author
				if author == "" {
					author = "Unknown"
				}
				fmt.Fprintf(out, "Book 1: %s by %s\n", bookOne.Title, author)
				fmt.Fprintf(out, "ID: %s\n", bookOne.GoodreadsID)

				if add {
					sources := []candidates.Source{{
						Type:       candidates.SourceSeriesResolution,
						OriginalID: id,
					}}
					if err := store.AddCandidate(bookOne.GoodreadsID, bookOne.Title, author, sources); err != nil {
						return fmt.Errorf("add book one: %w", err)
					}
					fmt.Fprintln(out, "Added to library.")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&add, "add", false, "Add book one to the library when found")
	return cmd
}
