package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bookscout/internal/candidates"
	"bookscout/internal/config"
	"bookscout/internal/fetch"
	"bookscout/internal/library"
	"bookscout/internal/readlist"
	"bookscout/internal/search"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Discover new candidates via web search",
	}

	searchCmd.AddCommand(newSearchSimilarCommand(ctx))
	searchCmd.AddCommand(newSearchAuthorCommand(ctx))
	searchCmd.AddCommand(newSearchStyleCommand(ctx))

	return searchCmd
}

func newSearchSimilarCommand(ctx *commandContext) *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "similar <title>",
		Short: "Find books similar to a seed book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			return runSearch(cmd, ctx, func(svc *search.Service) ([]library.SearchResult, candidates.Source, error) {
				results, err := svc.SimilarBooks(cmd.Context(), title, author)
				return results, candidates.Source{Type: candidates.SourceSimilar, Seed: title}, err
			})
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Seed book's author, to sharpen the queries")
	return cmd
}

func newSearchAuthorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "author <name>",
		Short: "Find notable books by an author",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return runSearch(cmd, ctx, func(svc *search.Service) ([]library.SearchResult, candidates.Source, error) {
				results, err := svc.AuthorBooks(cmd.Context(), name)
				return results, candidates.Source{Type: candidates.SourceAuthor, Query: name}, err
			})
		},
	}
}

func newSearchStyleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "style <query>",
		Short: "Find books matching a freeform style description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd, ctx, func(svc *search.Service) ([]library.SearchResult, candidates.Source, error) {
				results, err := svc.ByStyle(cmd.Context(), query)
				return results, candidates.Source{Type: candidates.SourceStyle, Query: query}, err
			})
		},
	}
}

func runSearch(cmd *cobra.Command, ctx *commandContext, run func(*search.Service) ([]library.SearchResult, candidates.Source, error)) error {
	return ctx.withStore(func(store *library.Store, cfg *config.Config) error {
		out := cmd.OutOrStdout()
		logger := ctx.newLogger()

		fetcher := fetch.NewFetcher(
			fetch.WithHTTPClient(fetch.NewHTTPClient(1, cfg.ScrapeTimeout())),
			fetch.WithUserAgent(cfg.Scraping.UserAgent),
			fetch.WithMaxRetries(cfg.Scraping.MaxRetries),
			fetch.WithLogger(logger),
		)
		svc := search.NewService(store, search.NewDuckDuckGo(fetcher),
			search.WithMaxResults(cfg.Search.MaxResults),
			search.WithDelay(cfg.SearchDelay()),
			search.WithLogger(logger),
		)

		results, source, err := run(svc)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}

		found := candidates.FromSearchResults(search.Extracted(results), source)
		if len(found) == 0 {
			fmt.Fprintln(out, "No candidates found.")
			return nil
		}

		entries, err := readlist.Load(cfg.Paths.ReadBooksCSV)
		if err != nil {
			return fmt.Errorf("load read list: %w", err)
		}

		ranked := candidates.Process(found, candidates.Options{
			ReadKeys:        readlist.Keys(entries),
			AvoidAuthors:    cfg.Profile.AvoidAuthors,
			FavoriteAuthors: cfg.Profile.FavoriteAuthors,
			DedupeThreshold: cfg.Matching.DedupeThreshold,
			ReadThreshold:   cfg.Matching.ReadThreshold,
		})
		if len(ranked) == 0 {
			fmt.Fprintln(out, "All candidates were filtered out (already read or avoided).")
			return nil
		}

		rows := make([][]string, 0, len(ranked))
		for _, candidate := range ranked {
			rows = append(rows, []string{
				candidate.Title,
				candidate.Author,
				strconv.FormatFloat(candidate.FrequencyScore, 'f', 2, 64),
				strconv.Itoa(len(candidate.Sources)),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Title", "Author", "Score", "Sources"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
		))
		fmt.Fprintln(out, "Use 'bookscout add <id> <title> <author>' to track a candidate.")
		return nil
	})
}
