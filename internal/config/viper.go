// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"fjacquet/levpartflip/internal/flip"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LPF_LOG_LEVEL.
const EnvPrefix = "LPF"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Solver struct {
		Lower         float64 `mapstructure:"lower" yaml:"lower"`
		Upper         float64 `mapstructure:"upper" yaml:"upper"`
		MaxUpper      float64 `mapstructure:"max_upper" yaml:"max_upper"`
		Tolerance     float64 `mapstructure:"tolerance" yaml:"tolerance"`
		MaxIterations int     `mapstructure:"max_iterations" yaml:"max_iterations"`
	} `mapstructure:"solver" yaml:"solver"`

	Batch struct {
		Workers int `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"batch" yaml:"batch"`

	Output struct {
		Format        string `mapstructure:"format" yaml:"format"`
		IncludeArrays bool   `mapstructure:"include_arrays" yaml:"include_arrays"`
		Precision     int32  `mapstructure:"precision" yaml:"precision"`
	} `mapstructure:"output" yaml:"output"`
}

// Load initializes Viper configuration with hierarchical loading. An empty
// file searches the default locations; otherwise file replaces the search
// path and must exist.
func Load(file string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.levpartflip")
		v.AddConfigPath(".levpartflip")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")

	// Solver defaults
	b := flip.DefaultBounds()
	v.SetDefault("solver.lower", b.Lower)
	v.SetDefault("solver.upper", b.Upper)
	v.SetDefault("solver.max_upper", b.MaxUpper)
	v.SetDefault("solver.tolerance", b.Tolerance)
	v.SetDefault("solver.max_iterations", b.MaxIter)

	// Batch defaults
	v.SetDefault("batch.workers", 4)

	// Output defaults
	v.SetDefault("output.format", "json")
	v.SetDefault("output.include_arrays", false)
	v.SetDefault("output.precision", 4)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	s := config.Solver
	if !(s.Lower >= 0) || !(s.Upper > s.Lower) || !(s.MaxUpper >= s.Upper) {
		return fmt.Errorf("solver bounds must satisfy 0 <= lower < upper <= max_upper, got: %g, %g, %g",
			s.Lower, s.Upper, s.MaxUpper)
	}
	if !(s.Tolerance > 0) {
		return fmt.Errorf("solver.tolerance must be positive, got: %g", s.Tolerance)
	}
	if s.MaxIterations < 1 {
		return fmt.Errorf("solver.max_iterations must be at least 1, got: %d", s.MaxIterations)
	}

	if config.Batch.Workers < 1 || config.Batch.Workers > 256 {
		return fmt.Errorf("batch.workers must be between 1 and 256, got: %d", config.Batch.Workers)
	}

	if config.Output.Format != "json" && config.Output.Format != "yaml" {
		return fmt.Errorf("invalid output format: %s (must be 'json' or 'yaml')", config.Output.Format)
	}
	if config.Output.Precision < 0 || config.Output.Precision > 12 {
		return fmt.Errorf("output.precision must be between 0 and 12, got: %d", config.Output.Precision)
	}

	return nil
}

// Bounds returns the PPA price search settings.
func (c *Config) Bounds() flip.Bounds {
	return flip.Bounds{
		Lower:     c.Solver.Lower,
		Upper:     c.Solver.Upper,
		MaxUpper:  c.Solver.MaxUpper,
		Tolerance: c.Solver.Tolerance,
		MaxIter:   c.Solver.MaxIterations,
	}
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	return []rune(c.CSV.Delimiter)[0]
}

// Validate checks the configuration after flag overrides are applied.
func (c *Config) Validate() error {
	return validateConfig(c)
}
