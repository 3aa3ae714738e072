package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bookscout/internal/config"
	"bookscout/internal/library"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var reconcile bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show pipeline status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *library.Store, cfg *config.Config) error {
				out := cmd.OutOrStdout()

				if reconcile {
					repaired, err := store.Reconcile()
					if err != nil {
						return fmt.Errorf("reconcile index: %w", err)
					}
					fmt.Fprintf(out, "Reconciled %d index entries\n\n", repaired)
				}

				status := store.Status()
				fmt.Fprintf(out, "Library: %s\n\n", store.Root())

				rows := [][]string{
					{"Total candidates", strconv.Itoa(status.TotalCandidates)},
					{"With metadata", strconv.Itoa(status.WithMetadata)},
					{"With reviews", strconv.Itoa(status.WithReviews)},
					{"With analysis", strconv.Itoa(status.WithAnalysis)},
					{"With recommendation", strconv.Itoa(status.WithRecommendation)},
					{"Needing metadata", strconv.Itoa(status.NeedingMetadata)},
					{"Needing reviews", strconv.Itoa(status.NeedingReviews)},
					{"Needing analysis", strconv.Itoa(status.NeedingAnalysis)},
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Stage", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&reconcile, "reconcile", false, "Rebuild the status index from book records first")
	return cmd
}
