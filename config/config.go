// Package config loads and validates run configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Defaults applied when a value is absent.
const (
	DefaultRecords = 100372
	DefaultOutDir  = "src_2/data_2"
	DefaultLogPath = "batchforge.log"
)

// --- Configuration Structs ---

// LogConfig controls structured log output.
type LogConfig struct {
	Path string `mapstructure:"path"`
}

// Config holds a full pipeline run configuration.
type Config struct {
	Records  int       `mapstructure:"records"`
	OutDir   string    `mapstructure:"out_dir"`
	Filename string    `mapstructure:"filename"`
	Seed     uint64    `mapstructure:"seed"`
	Report   string    `mapstructure:"report"`
	Log      LogConfig `mapstructure:"log"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Records: DefaultRecords,
		OutDir:  DefaultOutDir,
		Log:     LogConfig{Path: DefaultLogPath},
	}
}

// --- Load Configuration ---

// LoadConfig reads a YAML configuration file. Keys missing from the file
// keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("records", DefaultRecords)
	v.SetDefault("out_dir", DefaultOutDir)
	v.SetDefault("log.path", DefaultLogPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// --- Validation Functions ---

// validate is a helper function to reduce repetition.
func validate(condition bool, format string, a ...any) error {
	if !condition {
		return fmt.Errorf(format, a...)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validate(c.Records >= 0, "records must not be negative, got %d", c.Records); err != nil {
		return err
	}
	if err := validate(c.OutDir != "", "output directory is required"); err != nil {
		return err
	}
	if c.Filename != "" {
		if err := validate(strings.HasSuffix(c.Filename, ".csv"), "filename must end in .csv, got %q", c.Filename); err != nil {
			return err
		}
		if err := validate(!strings.ContainsAny(c.Filename, `/\`), "filename must not contain path separators, got %q", c.Filename); err != nil {
			return err
		}
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log configuration error: %w", err)
	}
	return nil
}

func (lc *LogConfig) Validate() error {
	return validate(lc.Path != "", "log path is required")
}
