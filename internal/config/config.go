// Package config holds the application configuration, loaded from
// files, environment variables and command-line flags.
package config

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/extract"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/frames"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/pipeline"
	"github.com/PiotrWeppo/Scenes-Information-Recorder/internal/video"
)

// Config represents the complete configuration for the application. It
// supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Frame scan and extraction settings
	Scan ScanConfig `mapstructure:"scan" yaml:"scan" json:"scan"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Metrics configuration
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// ScanConfig contains frame scan and event extraction settings.
type ScanConfig struct {
	StartFrame     int          `mapstructure:"start_frame" yaml:"start_frame" json:"start_frame"`
	TextRegion     RegionConfig `mapstructure:"text_region" yaml:"text_region" json:"text_region"`
	TCRegion       RegionConfig `mapstructure:"tc_region" yaml:"tc_region" json:"tc_region"`
	PixelThreshold int          `mapstructure:"pixel_threshold" yaml:"pixel_threshold" json:"pixel_threshold"`
	VFXSampleCount int          `mapstructure:"vfx_sample_count" yaml:"vfx_sample_count" json:"vfx_sample_count"`
	ADRStride      int          `mapstructure:"adr_stride" yaml:"adr_stride" json:"adr_stride"`
	TempBase       string       `mapstructure:"temp_base" yaml:"temp_base" json:"temp_base"`
	KeepTemp       bool         `mapstructure:"keep_temp" yaml:"keep_temp" json:"keep_temp"`
}

// RegionConfig is an axis-aligned frame region in pixel coordinates.
type RegionConfig struct {
	X int `mapstructure:"x" yaml:"x" json:"x"`
	Y int `mapstructure:"y" yaml:"y" json:"y"`
	W int `mapstructure:"w" yaml:"w" json:"w"`
	H int `mapstructure:"h" yaml:"h" json:"h"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// MetricsConfig contains the optional Prometheus listener settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr" json:"addr"`
}

// DefaultConfig returns a configuration with sensible defaults. The
// regions default to empty and must come from a file, the environment or
// flags, since they depend on where the footage burns its text in.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Scan: ScanConfig{
			StartFrame:     0,
			PixelThreshold: frames.DefaultPixelThreshold,
			VFXSampleCount: extract.DefaultVFXSampleCount,
			ADRStride:      extract.DefaultADRStride,
			TempBase:       ".",
		},
		Output: OutputConfig{
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json", "csv"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	if c.Scan.StartFrame < 0 {
		return fmt.Errorf("invalid start frame: %d (must be >= 0)", c.Scan.StartFrame)
	}
	if c.Scan.PixelThreshold <= 0 {
		return fmt.Errorf("invalid pixel threshold: %d (must be positive)", c.Scan.PixelThreshold)
	}
	if c.Scan.VFXSampleCount <= 0 {
		return fmt.Errorf("invalid vfx sample count: %d (must be positive)", c.Scan.VFXSampleCount)
	}
	if c.Scan.ADRStride <= 0 {
		return fmt.Errorf("invalid adr stride: %d (must be positive)", c.Scan.ADRStride)
	}
	for name, r := range map[string]RegionConfig{
		"text_region": c.Scan.TextRegion,
		"tc_region":   c.Scan.TCRegion,
	} {
		if r.W < 0 || r.H < 0 {
			return fmt.Errorf("invalid %s: negative size %dx%d", name, r.W, r.H)
		}
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics enabled but no listen address configured")
	}
	return nil
}

// Region converts the region to the video package representation.
func (r RegionConfig) Region() video.Region {
	return video.RegionFromRect(image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H))
}

// Empty reports whether the region has no area.
func (r RegionConfig) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// ParseRegion parses an "x,y,w,h" flag value into a region.
func ParseRegion(s string) (RegionConfig, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return RegionConfig{}, fmt.Errorf("invalid region %q: want x,y,w,h", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return RegionConfig{}, fmt.Errorf("invalid region %q: %w", s, err)
		}
		vals[i] = v
	}
	r := RegionConfig{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}
	if r.W <= 0 || r.H <= 0 {
		return RegionConfig{}, fmt.Errorf("invalid region %q: empty area", s)
	}
	return r, nil
}

// ToPipelineConfig converts the config to the pipeline configuration
// format. The video path comes from the command line, not the file.
func (c *Config) ToPipelineConfig(videoPath string) pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.VideoPath = videoPath
	cfg.StartFrame = c.Scan.StartFrame
	cfg.TextRegion = c.Scan.TextRegion.Region()
	cfg.TCRegion = c.Scan.TCRegion.Region()
	cfg.PixelThreshold = c.Scan.PixelThreshold
	cfg.VFXSampleCount = c.Scan.VFXSampleCount
	cfg.ADRStride = c.Scan.ADRStride
	cfg.TempBase = c.Scan.TempBase
	cfg.KeepTemp = c.Scan.KeepTemp
	if c.Metrics.Enabled {
		cfg.MetricsAddr = c.Metrics.Addr
	}
	return cfg
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
