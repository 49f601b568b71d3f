package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/census-cli/internal/config"
	"github.com/KaramelBytes/census-cli/internal/layers"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set census configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := yaml.Marshal(config())
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in defaults to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfgpkg.Save(cfgpkg.Defaults(), cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Wrote default config")
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := config()
		if err := setKey(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "source":
		c.Source = val
	case "category_column":
		c.CategoryColumn = val
	case "id_column":
		c.IDColumn = val
	case "palette":
		if _, err := layers.ParsePalette(val); err != nil {
			return err
		}
		c.Palette = val
	case "selected":
		c.Selected = trimAll(strings.Split(val, ","))
	case "reference_count":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for reference_count: %v", val)
		}
		c.ReferenceCount = i
	case "park_hectares":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for park_hectares: %v", val)
		}
		c.ParkHectares = f
	case "title":
		c.Title = val
	case "map_zoom":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for map_zoom: %w", err)
		}
		c.MapZoom = f
	case "map_pitch":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for map_pitch: %w", err)
		}
		c.MapPitch = f
	case "map_style":
		c.MapStyle = val
	case "tooltip":
		c.Tooltip = val
	case "http_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
		}
		c.HTTPTimeoutSec = i
	case "max_bytes":
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for max_bytes: %v", val)
		}
		c.MaxBytes = i
	case "cache_ttl_sec":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for cache_ttl_sec: %w", err)
		}
		c.CacheTTLSec = i
	case "log_level":
		c.LogLevel = val
	case "log_format":
		switch val {
		case "console", "json":
			c.LogFormat = val
		default:
			return fmt.Errorf("invalid log_format: %s (use console or json)", val)
		}
	case "output_dir":
		c.OutputDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
