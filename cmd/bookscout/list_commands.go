package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"bookscout/internal/config"
	"bookscout/internal/library"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all candidates in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *library.Store, cfg *config.Config) error {
				out := cmd.OutOrStdout()

				entries := store.Entries()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No candidates in library.")
					return nil
				}

				type row struct {
					id    string
					entry library.IndexEntry
				}
				rows := make([]row, 0, len(entries))
				for id, entry := range entries {
					rows = append(rows, row{id: id, entry: entry})
				}
				sort.Slice(rows, func(i, j int) bool {
					a := strings.ToLower(rows[i].entry.Title)
					b := strings.ToLower(rows[j].entry.Title)
					if a != b {
						return a < b
					}
					return rows[i].id < rows[j].id
				})

				tableRows := make([][]string, 0, len(rows))
				for _, r := range rows {
					tableRows = append(tableRows, []string{
						r.entry.Title, r.entry.Author, entryStatus(r.entry),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Title", "Author", "Status"},
					tableRows,
					nil,
				))
				fmt.Fprintf(out, "Total: %d candidates\n", len(rows))
				return nil
			})
		},
	}
}

func entryStatus(entry library.IndexEntry) string {
	switch {
	case entry.HasRecommendation:
		return "recommended"
	case entry.HasAnalysis:
		return "analyzed"
	case entry.HasReviews:
		return "has reviews"
	case entry.HasMetadata:
		return "has metadata"
	default:
		return "pending"
	}
}

func newListReadyCommand(ctx *commandContext) *cobra.Command {
	var idsOnly bool

	cmd := &cobra.Command{
		Use:   "list-ready",
		Short: "List candidates ready for analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *library.Store, cfg *config.Config) error {
				out := cmd.OutOrStdout()

				ids := store.NeedingAnalysis()
				if len(ids) == 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), "No candidates ready for analysis.")
					return nil
				}

				entries := store.Entries()
				for _, id := range ids {
					if idsOnly {
						fmt.Fprintln(out, id)
						continue
					}
					entry := entries[id]
					fmt.Fprintf(out, "%s\t%s\t%s\n", id, entry.Title, entry.Author)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&idsOnly, "ids-only", false, "Output only Goodreads IDs, one per line")
	return cmd
}
