// Package config handles brushtool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/brushkit/internal/logger"
	"github.com/Faultbox/brushkit/internal/prtview"
	"github.com/Faultbox/brushkit/pkg/encoding"
	"github.com/Faultbox/brushkit/pkg/geom"
	"github.com/Faultbox/brushkit/pkg/mapfile"
)

// MaxPrecision is the largest number of decimals written to .map files.
const MaxPrecision = 12

// Config holds all brushtool settings.
type Config struct {
	Logging LoggingConfig    `yaml:"logging" toml:"logging"`
	Brush   BrushConfig      `yaml:"brush" toml:"brush"`
	Output  OutputConfig     `yaml:"output" toml:"output"`
	Portals prtview.Settings `yaml:"portals" toml:"portals"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// BrushConfig holds brush building settings.
type BrushConfig struct {
	DefaultShader string `yaml:"default_shader" toml:"default_shader"`
	DetailShader  string `yaml:"detail_shader" toml:"detail_shader"`
	// IntersectionTolerance rejects near-singular plane triples; 0 only
	// rejects exactly parallel planes.
	IntersectionTolerance float64 `yaml:"intersection_tolerance" toml:"intersection_tolerance"`
}

// OutputConfig holds .map writer settings.
type OutputConfig struct {
	Precision int `yaml:"precision" toml:"precision"`
	// Charset is the text encoding of written .map files.
	Charset string `yaml:"charset" toml:"charset"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Brush: BrushConfig{
			DefaultShader: geom.NoDrawShader,
			DetailShader:  geom.NoDrawShader,
		},
		Output: OutputConfig{
			Precision: mapfile.DefaultPrecision,
			Charset:   encoding.UTF8,
		},
		Portals: prtview.DefaultSettings(),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs error
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("logging: %w", err))
	}
	if c.Brush.DefaultShader == "" {
		errs = multierr.Append(errs, errors.New("brush: default_shader is empty"))
	}
	if c.Brush.DetailShader == "" {
		errs = multierr.Append(errs, errors.New("brush: detail_shader is empty"))
	}
	if c.Brush.IntersectionTolerance < 0 {
		errs = multierr.Append(errs, fmt.Errorf("brush: negative intersection_tolerance %g", c.Brush.IntersectionTolerance))
	}
	if c.Output.Precision < 0 || c.Output.Precision > MaxPrecision {
		errs = multierr.Append(errs, fmt.Errorf("output: precision %d out of range [0, %d]", c.Output.Precision, MaxPrecision))
	}
	if _, err := encoding.Lookup(c.Output.Charset); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("output: %w", err))
	}
	if err := c.Portals.Validate(); err != nil {
		for _, e := range multierr.Errors(err) {
			errs = multierr.Append(errs, fmt.Errorf("portals: %w", e))
		}
	}
	return errs
}
