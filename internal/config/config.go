package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/census-cli/internal/dataset"
	"github.com/KaramelBytes/census-cli/internal/layers"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Source         string   `mapstructure:"source" yaml:"source"`
	CategoryColumn string   `mapstructure:"category_column" yaml:"category_column"`
	IDColumn       string   `mapstructure:"id_column" yaml:"id_column"`
	Palette        string   `mapstructure:"palette" yaml:"palette"`
	Selected       []string `mapstructure:"selected" yaml:"selected"`
	ReferenceCount int      `mapstructure:"reference_count" yaml:"reference_count"`
	ParkHectares   float64  `mapstructure:"park_hectares" yaml:"park_hectares"`
	Title          string   `mapstructure:"title" yaml:"title"`

	// Map view
	MapZoom  float64 `mapstructure:"map_zoom" yaml:"map_zoom"`
	MapPitch float64 `mapstructure:"map_pitch" yaml:"map_pitch"`
	MapStyle string  `mapstructure:"map_style" yaml:"map_style"`
	Tooltip  string  `mapstructure:"tooltip" yaml:"tooltip"`

	// Remote sources and load memoization
	HTTPTimeoutSec int   `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	MaxBytes       int64 `mapstructure:"max_bytes" yaml:"max_bytes"`
	CacheTTLSec    int   `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		Source:         "data/squirrel_census.csv",
		CategoryColumn: "Primary Fur Color",
		IDColumn:       "Unique Squirrel ID",
		Palette:        layers.DefaultPalette().String(),
		Selected:       []string{},
		ReferenceCount: 2373,
		ParkHectares:   350,
		Title:          "The Central Park Squirrel Census",
		MapZoom:        12.5,
		MapPitch:       0,
		MapStyle:       "road",
		HTTPTimeoutSec: 30,
		MaxBytes:       64 << 20,
		CacheTTLSec:    600,
		LogLevel:       "info",
		LogFormat:      "console",
		OutputDir:      "dashboard",
	}
}

// ParsedPalette parses the palette setting.
func (c *Global) ParsedPalette() (layers.Palette, error) {
	return layers.ParsePalette(c.Palette)
}

// LoaderOptions maps the configuration onto dataset loader options.
func (c *Global) LoaderOptions() dataset.Options {
	opt := dataset.DefaultOptions()
	opt.IDColumn = c.IDColumn
	if c.HTTPTimeoutSec > 0 {
		opt.HTTPTimeout = time.Duration(c.HTTPTimeoutSec) * time.Second
	}
	if c.MaxBytes > 0 {
		opt.MaxBytes = c.MaxBytes
	}
	return opt
}

// CacheTTL returns the dataset cache lifetime.
func (c *Global) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// DefaultPath returns ~/.census/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".census", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.census/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CENSUS")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("source", d.Source)
	v.SetDefault("category_column", d.CategoryColumn)
	v.SetDefault("id_column", d.IDColumn)
	v.SetDefault("palette", d.Palette)
	v.SetDefault("selected", d.Selected)
	v.SetDefault("reference_count", d.ReferenceCount)
	v.SetDefault("park_hectares", d.ParkHectares)
	v.SetDefault("title", d.Title)
	v.SetDefault("map_zoom", d.MapZoom)
	v.SetDefault("map_pitch", d.MapPitch)
	v.SetDefault("map_style", d.MapStyle)
	v.SetDefault("tooltip", "")
	v.SetDefault("http_timeout_sec", d.HTTPTimeoutSec)
	v.SetDefault("max_bytes", d.MaxBytes)
	v.SetDefault("cache_ttl_sec", d.CacheTTLSec)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("output_dir", d.OutputDir)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".census"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := c.ParsedPalette(); err != nil {
		return nil, fmt.Errorf("config palette: %w", err)
	}
	return &c, nil
}
