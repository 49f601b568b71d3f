package cmd

import (
	"fmt"

	"github.com/KaramelBytes/census-cli/internal/dashboard"
	"github.com/spf13/cobra"
)

var layersFlags dataFlags

var layersCmd = &cobra.Command{
	Use:   "layers [source]",
	Short: "Partition a census into colored layers and print sizes, centroid and metrics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := layersFlags.dashboardOptions(cmd)
		if err != nil {
			return err
		}
		ld, err := layersFlags.loader()
		if err != nil {
			return err
		}
		d, err := dashboard.Build(cmd.Context(), ld, layersFlags.source(args), opt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Source: %s\nColumn: %s\nRecords: %d\n", d.Source, d.Column, d.Dataset.Len())
		if d.Result != nil {
			for _, l := range d.Result.Ordered() {
				fmt.Fprintf(out, "- %s (rgb %s): %d\n", l.Label, l.Color, l.Len())
			}
			fmt.Fprintf(out, "Unmatched: %d\n", d.Result.Unmatched)
		}
		fmt.Fprintf(out, "Center: %s\n", d.Deck.InitialViewState.CenterLabel())
		for _, m := range d.Metrics {
			fmt.Fprintln(out, m.String())
		}
		for _, n := range d.Notes {
			fmt.Fprintf(out, "⚠ %s\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(layersCmd)
	layersFlags.register(layersCmd)
}
