// Package config centralizes runtime configuration, layered by viper:
// built-in defaults, then .tephra.yaml, then TEPHRA_* environment
// variables, then bound CLI flags.
package config

import "github.com/spf13/viper"

// Config holds all runtime configuration for a tephra invocation.
// Values are populated from .tephra.yaml, TEPHRA_* env vars, and CLI flags.
type Config struct {
	CatalogPath string `mapstructure:"catalog_path"`
	TargetUnit  string `mapstructure:"target_unit"`
	Verbose     bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("catalog_path", ".tephra/catalog.db")
	viper.SetDefault("target_unit", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
