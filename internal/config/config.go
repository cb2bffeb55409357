// Package config defines the application configuration and its loading
// from files, environment variables, and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/MeKo-Tech/qrscan/internal/detect"
)

// Config represents the complete configuration for the qrscan application.
// It supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Detection configuration
	Detection DetectionConfig `mapstructure:"detection" yaml:"detection" json:"detection"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// DetectionConfig mirrors the per-call detection options.
type DetectionConfig struct {
	EnablePreprocessing       bool    `mapstructure:"enable_preprocessing" yaml:"enable_preprocessing" json:"enable_preprocessing"`
	EnableRotationCorrection  bool    `mapstructure:"enable_rotation_correction" yaml:"enable_rotation_correction" json:"enable_rotation_correction"`
	EnableContrastEnhancement bool    `mapstructure:"enable_contrast_enhancement" yaml:"enable_contrast_enhancement" json:"enable_contrast_enhancement"`
	EnableBlurReduction       bool    `mapstructure:"enable_blur_reduction" yaml:"enable_blur_reduction" json:"enable_blur_reduction"`
	MaxRetries                int     `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries"`
	TimeoutMs                 int     `mapstructure:"timeout_ms" yaml:"timeout_ms" json:"timeout_ms"`
	MinQuality                float64 `mapstructure:"min_quality" yaml:"min_quality" json:"min_quality"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format      string `mapstructure:"format" yaml:"format" json:"format"`
	OverlayPath string `mapstructure:"overlay_path" yaml:"overlay_path" json:"overlay_path"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() Config {
	opts := detect.DefaultOptions()
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Detection: DetectionConfig{
			EnablePreprocessing:       opts.EnablePreprocessing,
			EnableRotationCorrection:  opts.EnableRotationCorrection,
			EnableContrastEnhancement: opts.EnableContrastEnhancement,
			EnableBlurReduction:       opts.EnableBlurReduction,
			MaxRetries:                opts.MaxRetries,
			TimeoutMs:                 int(opts.Timeout / time.Millisecond),
			MinQuality:                opts.MinQuality,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (must be debug, info, warn or error)", c.LogLevel)
	}
	if c.Detection.MaxRetries < 1 {
		return fmt.Errorf("detection.max_retries must be >= 1, got %d", c.Detection.MaxRetries)
	}
	if c.Detection.TimeoutMs <= 0 {
		return fmt.Errorf("detection.timeout_ms must be > 0, got %d", c.Detection.TimeoutMs)
	}
	if c.Detection.MinQuality < 0 || c.Detection.MinQuality > 1 {
		return fmt.Errorf("detection.min_quality must be in [0,1], got %g", c.Detection.MinQuality)
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output.format %q (must be text or json)", c.Output.Format)
	}
	return nil
}

// ToOptions converts the detection section into per-call options.
func (d DetectionConfig) ToOptions() detect.Options {
	return detect.Options{
		EnablePreprocessing:       d.EnablePreprocessing,
		EnableRotationCorrection:  d.EnableRotationCorrection,
		EnableContrastEnhancement: d.EnableContrastEnhancement,
		EnableBlurReduction:       d.EnableBlurReduction,
		MaxRetries:                d.MaxRetries,
		Timeout:                   time.Duration(d.TimeoutMs) * time.Millisecond,
		MinQuality:                d.MinQuality,
	}
}
