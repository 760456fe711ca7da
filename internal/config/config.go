// Package config provides configuration loading for the ballscore pipeline.
// It handles loading configuration from YAML files and provides the default
// tuning the detection thresholds were calibrated with.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/gamevision/ballscore/internal/occlusion"
	"github.com/gamevision/ballscore/internal/profile"
	"github.com/gamevision/ballscore/internal/segment"
)

// Class names used throughout the pipeline. Red and Blue are the ball
// classes that get segmented; Reference is the white tape color used only
// for occlusion location.
const (
	Red       = "red"
	Blue      = "blue"
	Reference = "white"
)

// Config is the full static configuration of a detection run. Every
// threshold the pipeline uses is enumerated here; nothing is computed at
// runtime beyond resolution scaling. A loaded Config is treated as
// immutable.
type Config struct {
	// Scaling controls the resolution normalizer.
	Scaling struct {
		// Enabled toggles pre-detection downscaling.
		Enabled bool `yaml:"enabled"`

		// MinWidth is the width floor the integer downscale divisor must
		// respect.
		MinWidth int `yaml:"minWidth"`
	} `yaml:"scaling"`

	// Classifiers are the per-color classification rules, in the order
	// they are profiled.
	Classifiers []profile.Classifier `yaml:"classifiers"`

	// Zones configures the tape search regions on the reference profile.
	Zones occlusion.Zones `yaml:"zones"`

	// Segmentation is the base watershed parameter set at the reference
	// resolution.
	Segmentation segment.Params `yaml:"segmentation"`

	// Workers bounds the per-image column-profiling pool and the batch
	// image pool. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// Default returns the configuration the pipeline thresholds were tuned
// with: red/blue/white classification rules, tape search zones, and the
// watershed parameters at the 5510×408 reference color-map resolution.
func Default() *Config {
	cfg := &Config{}

	cfg.Scaling.Enabled = true
	cfg.Scaling.MinWidth = 1000

	cfg.Classifiers = []profile.Classifier{
		{
			Name:    Red,
			Channel: profile.ChannelRule{MinR: 150, MaxG: 100, MaxB: 100},
		},
		{
			Name:    Blue,
			Channel: profile.ChannelRule{MinB: 130, MaxR: 130, MaxG: 130},
			// Blue separates poorly in RGB under field lighting; the hue
			// rule recovers shaded blue pixels.
			Hue: &profile.HueRule{HueMin: 198, HueMax: 252, SatMin: 0.4},
		},
		{
			Name:    Reference,
			Channel: profile.ChannelRule{MinR: 200, MinG: 200, MinB: 200},
		},
	}

	cfg.Zones = occlusion.Zones{
		LeftStart:  0.25,
		LeftEnd:    0.45,
		RightStart: 0.55,
		RightEnd:   0.75,
		HeightFrac: 0.20,
	}

	cfg.Segmentation = segment.DefaultParams()
	cfg.Workers = runtime.NumCPU()

	return cfg
}

// Load reads configuration from a YAML file, merged over the defaults.
// A missing file is not an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent directories
// as needed. Useful for emitting a starter tuning file.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

func (c *Config) validate() error {
	if c.Scaling.MinWidth < 1 {
		return fmt.Errorf("scaling.minWidth must be positive, got %d", c.Scaling.MinWidth)
	}
	if len(c.Classifiers) == 0 {
		return fmt.Errorf("at least one classifier is required")
	}
	names := make(map[string]bool, len(c.Classifiers))
	for _, cl := range c.Classifiers {
		if cl.Name == "" {
			return fmt.Errorf("classifier with empty name")
		}
		if names[cl.Name] {
			return fmt.Errorf("duplicate classifier %q", cl.Name)
		}
		names[cl.Name] = true
	}
	for _, required := range []string{Red, Blue, Reference} {
		if !names[required] {
			return fmt.Errorf("missing classifier %q", required)
		}
	}
	z := c.Zones
	if !(0 <= z.LeftStart && z.LeftStart < z.LeftEnd && z.LeftEnd <= z.RightStart && z.RightStart < z.RightEnd && z.RightEnd <= 1) {
		return fmt.Errorf("zones must be disjoint ordered fractions of width")
	}
	if z.HeightFrac <= 0 || z.HeightFrac >= 1 {
		return fmt.Errorf("zones.heightFrac must be in (0, 1), got %v", z.HeightFrac)
	}
	s := c.Segmentation
	if s.RefWidth <= 0 || s.RefHeight <= 0 {
		return fmt.Errorf("segmentation reference resolution must be positive")
	}
	if s.ForegroundFraction <= 0 || s.ForegroundFraction >= 1 {
		return fmt.Errorf("segmentation.foregroundFraction must be in (0, 1), got %v", s.ForegroundFraction)
	}
	if s.MinArea < 0 {
		return fmt.Errorf("segmentation.minArea must be non-negative, got %d", s.MinArea)
	}
	return nil
}
