package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookscout/internal/candidates"
	"bookscout/internal/config"
	"bookscout/internal/library"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "add <id> <title> <author>",
		Short: "Manually add a candidate",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, title, author := args[0], args[1], args[2]
			return ctx.withStore(func(store *library.Store, cfg *config.Config) error {
				if note == "" {
					note = "Added manually"
				}
				sources := []candidates.Source{{Type: candidates.SourceManual, Note: note}}
				if err := store.AddCandidate(id, title, author, sources); err != nil {
					return fmt.Errorf("add candidate: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added: %s by %s (ID: %s)\n", title, author, id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Optional note about where this suggestion came from")
	return cmd
}
