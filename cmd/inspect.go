package cmd

import (
	"fmt"

	"github.com/KaramelBytes/census-cli/internal/metrics"
	"github.com/spf13/cobra"
)

var inspectFlags dataFlags

var inspectCmd = &cobra.Command{
	Use:   "inspect [source]",
	Short: "Load a census and print its schema, missing values and category counts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := inspectFlags.source(args)
		ld, err := inspectFlags.loader()
		if err != nil {
			return err
		}
		ds, err := ld.Load(cmd.Context(), src)
		if err != nil {
			return err
		}
		column := config().CategoryColumn
		if inspectFlags.column != "" {
			column = inspectFlags.column
		}
		counts, err := metrics.CountBy(ds, column)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, ds.Markdown())
		fmt.Fprintf(out, "\n[CATEGORY COUNTS]\nColumn: %s\n", column)
		for _, c := range counts {
			fmt.Fprintf(out, "- %s: %d\n", c.Value, c.Count)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectFlags.register(inspectCmd)
}
