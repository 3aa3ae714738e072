package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"bookscout/internal/config"
	"bookscout/internal/library"
	"bookscout/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Generate the markdown recommendations report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *library.Store, cfg *config.Config) error {
				out := cmd.OutOrStdout()

				books, err := store.BooksWithRecommendations()
				if err != nil {
					return err
				}
				if len(books) == 0 {
					fmt.Fprintln(out, "No books with recommendations found.")
					fmt.Fprintln(out, "Run analysis first to generate recommendations.")
					return errors.New("nothing to report")
				}

				outputPath := filepath.Join(cfg.Paths.OutputDir, "recommendations.md")
				path, err := report.Generate(store, outputPath)
				if err != nil {
					return fmt.Errorf("generate report: %w", err)
				}
				fmt.Fprintf(out, "Report generated: %s\n", path)
				return nil
			})
		},
	}
}
