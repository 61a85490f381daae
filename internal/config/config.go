// Package config loads tilseg settings from defaults, a YAML file and
// TILSEG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"tilseg/internal/cluster"
	"tilseg/internal/logging"
	"tilseg/internal/results"
	"tilseg/internal/segment"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. TILSEG_CLUSTERING_CLUSTERS.
const EnvPrefix = "TILSEG"

// Config is the full tilseg configuration.
type Config struct {
	Clustering cluster.Params       `mapstructure:"clustering" yaml:"clustering"`
	Filter     segment.FilterParams `mapstructure:"filter" yaml:"filter"`
	Output     results.Options      `mapstructure:"output" yaml:"output"`
	Scoring    cluster.ScoreOptions `mapstructure:"scoring" yaml:"scoring"`
	Log        LogConfig            `mapstructure:"log" yaml:"log"`
}

// LogConfig configures the root logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Clustering: cluster.DefaultParams(),
		Filter:     segment.DefaultFilterParams(),
		Output:     results.DefaultOptions(),
		Scoring:    cluster.DefaultScoreOptions(),
		Log:        LogConfig{Level: "info", Format: logging.FormatConsole},
	}
}

// New returns a viper instance seeded with defaults and environment lookup.
func New() *viper.Viper {
	v := viper.New()
	d := Default()

	v.SetDefault("clustering.algorithm", string(d.Clustering.Algorithm))
	v.SetDefault("clustering.clusters", d.Clustering.Clusters)
	v.SetDefault("clustering.max_iter", d.Clustering.MaxIter)
	v.SetDefault("clustering.attempts", d.Clustering.Attempts)
	v.SetDefault("clustering.epsilon", d.Clustering.Epsilon)
	v.SetDefault("clustering.seed", d.Clustering.Seed)

	v.SetDefault("filter.min_area", d.Filter.MinArea)
	v.SetDefault("filter.max_area", d.Filter.MaxArea)
	v.SetDefault("filter.max_roundness", d.Filter.MaxRoundness)

	v.SetDefault("output.overlays", d.Output.Overlays)
	v.SetDefault("output.masks", d.Output.Masks)
	v.SetDefault("output.csv", d.Output.CSV)
	v.SetDefault("output.plot", d.Output.Plot)

	v.SetDefault("scoring.silhouette", d.Scoring.Silhouette)
	v.SetDefault("scoring.calinski_harabasz", d.Scoring.CalinskiHarabasz)
	v.SetDefault("scoring.davies_bouldin", d.Scoring.DaviesBouldin)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads cfgFile (or tilseg.yaml from ./ and $HOME/.tilseg when empty)
// into v and returns the validated configuration. A missing default config
// file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("tilseg")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.tilseg")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Clustering.Validate(); err != nil {
		return fmt.Errorf("clustering: %w", err)
	}
	if c.Filter.MinArea < 0 || c.Filter.MaxArea <= c.Filter.MinArea {
		return fmt.Errorf("filter: area range (%g, %g) is empty", c.Filter.MinArea, c.Filter.MaxArea)
	}
	if c.Filter.MaxRoundness <= 0 {
		return fmt.Errorf("filter: max_roundness must be positive, got %g", c.Filter.MaxRoundness)
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("log: invalid format %q", c.Log.Format)
	}
	return nil
}

// YAML renders the configuration as a YAML document.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	return out, nil
}
