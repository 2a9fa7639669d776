// Package config provides configuration loading and management for phasequality.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"phasequality/pkg/grid"
	"phasequality/pkg/patterns"
	"phasequality/pkg/visualization"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use for windowed computations
		NumCores int `yaml:"numCores"`

		// WindowSize is the side of the square window, odd and >= 3
		WindowSize int `yaml:"windowSize"`

		// BorderWidth marks this many pixels along each side with the border flag, 0 disables
		BorderWidth int `yaml:"borderWidth"`

		// IgnoreFlags selects the mask bits excluded from windowed statistics
		IgnoreFlags uint16 `yaml:"ignoreFlags"`
	} `yaml:"processing"`

	// Synthetic input parameters
	Pattern struct {
		// Kind is one of vertical, horizontal, shear, spiral, peaks
		Kind string `yaml:"kind"`

		Rows int `yaml:"rows"`
		Cols int `yaml:"cols"`

		// MinValue and MaxValue bound the unwrapped surface in radians
		MinValue float64 `yaml:"minValue"`
		MaxValue float64 `yaml:"maxValue"`
	} `yaml:"pattern"`

	// Noise injected into the wrapped input
	Noise struct {
		// SaltPepper is the probability of an impulse per pixel
		SaltPepper float64 `yaml:"saltPepper"`

		// Random is the probability of a uniform replacement per pixel
		Random float64 `yaml:"random"`

		// Magnitude shrinks the uniform replacement range, 1 uses the full range
		Magnitude float64 `yaml:"magnitude"`

		Seed uint64 `yaml:"seed"`
	} `yaml:"noise"`

	// Output parameters
	Output struct {
		// Dir is the directory maps are written to
		Dir string `yaml:"dir"`

		// Format is png, tiff or jpeg
		Format string `yaml:"format"`

		// SaveGradients also writes the dx and dy gradient images
		SaveGradients bool `yaml:"saveGradients"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumCores = runtime.NumCPU()
	cfg.Processing.WindowSize = 3
	cfg.Processing.BorderWidth = 0
	cfg.Processing.IgnoreFlags = uint16(grid.Border)

	cfg.Pattern.Kind = string(patterns.KindPeaks)
	cfg.Pattern.Rows = patterns.DefaultRows
	cfg.Pattern.Cols = patterns.DefaultCols
	cfg.Pattern.MinValue = patterns.DefaultMin
	cfg.Pattern.MaxValue = patterns.DefaultMax

	cfg.Noise.SaltPepper = 0.01
	cfg.Noise.Random = 0
	cfg.Noise.Magnitude = 1
	cfg.Noise.Seed = patterns.DefaultSeed

	cfg.Output.Dir = "quality_maps"
	cfg.Output.Format = string(visualization.PNG)
	cfg.Output.SaveGradients = false
	cfg.Output.Verbose = true

	return cfg
}

// Validate checks the configuration values that would otherwise fail deep in the pipeline
func (c *Config) Validate() error {
	if err := grid.ValidateWindow(c.Processing.WindowSize); err != nil {
		return fmt.Errorf("invalid processing.windowSize: %w", err)
	}
	if c.Processing.BorderWidth < 0 {
		return fmt.Errorf("invalid processing.borderWidth: %d", c.Processing.BorderWidth)
	}
	if c.Pattern.Rows <= 0 || c.Pattern.Cols <= 0 {
		return fmt.Errorf("invalid pattern dimensions: %dx%d", c.Pattern.Rows, c.Pattern.Cols)
	}
	if !validKind(patterns.Kind(c.Pattern.Kind)) {
		return fmt.Errorf("invalid pattern.kind: %q", c.Pattern.Kind)
	}
	for name, p := range map[string]float64{
		"noise.saltPepper": c.Noise.SaltPepper,
		"noise.random":     c.Noise.Random,
		"noise.magnitude":  c.Noise.Magnitude,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("invalid %s: %v (must be in [0, 1])", name, p)
		}
	}
	if _, err := visualization.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("invalid output.format: %w", err)
	}
	return nil
}

func validKind(kind patterns.Kind) bool {
	for _, k := range patterns.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
