package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/census-cli/internal/dashboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dashboardFlags  dataFlags
	dashboardOutDir string
	dashboardPrint  bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [source]",
	Short: "Render the census dashboard: summary, bar chart, deck.gl map and GeoJSON layers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := dashboardFlags.dashboardOptions(cmd)
		if err != nil {
			return err
		}
		ld, err := dashboardFlags.loader()
		if err != nil {
			return err
		}
		d, err := dashboard.Build(cmd.Context(), ld, dashboardFlags.source(args), opt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if dashboardPrint {
			fmt.Fprint(out, d.Markdown())
		}

		dir := dashboardOutDir
		if dir == "" {
			dir = config().OutputDir
		}
		m, err := d.Write(dir)
		if err != nil {
			return err
		}
		logger.Info("dashboard written",
			zap.String("run_id", m.RunID),
			zap.String("dir", dir),
			zap.Int("records", m.Records),
			zap.Strings("layers", m.Layers))
		for _, f := range m.Files {
			fmt.Fprintf(out, "✓ Wrote %s\n", filepath.Join(dir, f))
		}
		for _, n := range d.Notes {
			fmt.Fprintf(out, "⚠ %s\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardFlags.register(dashboardCmd)
	dashboardCmd.Flags().StringVarP(&dashboardOutDir, "output", "o", "", "output directory (default from config)")
	dashboardCmd.Flags().BoolVar(&dashboardPrint, "print", false, "also print the summary to stdout")
}
