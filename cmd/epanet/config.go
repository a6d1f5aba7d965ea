package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/units"
	"github.com/dd0wney/cluso-epanet/pkg/validation"
)

// Config is the optional YAML configuration shared by every subcommand.
// Command-line flags override it.
type Config struct {
	LogLevel    logging.Level `yaml:"log_level"`
	MetricsFile string        `yaml:"metrics_file"`
	Output      OutputConfig  `yaml:"output"`
	Results     ResultsConfig `yaml:"results"`
}

// OutputConfig controls INP writing.
type OutputConfig struct {
	Units            string `yaml:"units"`
	Version          string `yaml:"version" validate:"omitempty,oneof=2.0 2.2"`
	ForceCoordinates bool   `yaml:"force_coordinates"`
	SkipIsolated     bool   `yaml:"skip_isolated"`
	// Layout generates coordinates for nodes that have none.
	Layout string `yaml:"layout" validate:"omitempty,oneof=force circular hierarchical"`
}

// ResultsConfig controls binary results decoding.
type ResultsConfig struct {
	Strict        bool `yaml:"strict"`
	RawStatus     bool `yaml:"raw_status"`
	NoConvert     bool `yaml:"no_convert"`
	DarcyWeisbach bool `yaml:"darcy_weisbach"`
}

func defaultConfig() *Config {
	return &Config{
		LogLevel: logging.WarnLevel,
		Output:   OutputConfig{Version: "2.2"},
	}
}

// loadConfig reads path over the defaults; an empty path yields the
// defaults. LOG_LEVEL in the environment wins over the file.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	level, err := logging.LevelFromEnv(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks tag constraints, then the fields that need parsing.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	return validation.NewConfigValidator("config").
		When(c.Output.Units != "", func(cv *validation.ConfigValidator) {
			cv.Custom("output.units", func() error {
				_, err := units.ParseFlowUnits(c.Output.Units)
				return err
			})
		}).
		When(c.Results.NoConvert, func(cv *validation.ConfigValidator) {
			cv.Custom("results.darcy_weisbach", func() error {
				if c.Results.DarcyWeisbach {
					return errConflictingResults
				}
				return nil
			})
		}).
		Validate()
}
