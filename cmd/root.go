package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/census-cli/internal/config"
	"github.com/KaramelBytes/census-cli/internal/dataset"
	"github.com/KaramelBytes/census-cli/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// HTTP/logging flags (override config if set)
	flagHTTPTimeoutSec int
	flagLogLevel       string
	flagLogFormat      string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Process-wide logger and dataset memo
	logger       = zap.NewNop()
	datasetCache *dataset.Cache
)

var rootCmd = &cobra.Command{
	Use:   "census",
	Short: "Census CLI: load a wildlife census, split it into colored map layers, render a dashboard",
	Long: `Census loads a tabular wildlife census (local CSV/TSV/XLSX or an HTTPS URL),
normalizes it, partitions it into colored map layers by a category column,
and renders a bar chart, metric cards, a deck.gl map and GeoJSON layers.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// setup builds the logger and the dataset cache before any subcommand runs.
// It is attached in init because loadConfig reads rootCmd's flags.
func setup(cmd *cobra.Command, args []string) error {
	c := config()
	l, err := logging.New(c.LogLevel, c.LogFormat, debug)
	if err != nil {
		return err
	}
	logger = l
	if datasetCache == nil {
		// A zero cleanup interval starts no janitor goroutine; expired
		// entries are ignored on lookup.
		datasetCache = dataset.NewCache(c.CacheTTL(), 0)
	}
	return nil
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.census/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP timeout in seconds for remote sources (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: console|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("log-level") && flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if f.Changed("log-format") && flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
}

// config returns the loaded configuration, loading it on first use.
func config() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}
