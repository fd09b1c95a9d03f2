// Package config defines the tunable parameters of a pipeline run and
// their YAML persistence.
package config

import (
	"fmt"
	"os"

	"chessboard-scan/internal/enhance"
	"chessboard-scan/internal/grid"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config carries every tunable of a pipeline run. CLI flags override
// values loaded from a file.
type Config struct {
	// CanvasSize is the width and height of the rectified board.
	CanvasSize int `yaml:"canvas_size"`
	// ThresholdMode selects the light/dark cutoff policy.
	ThresholdMode grid.Policy `yaml:"threshold_mode"`
	// FixedThreshold is the cutoff used under the fixed policy.
	FixedThreshold float64 `yaml:"fixed_threshold"`
	// OutputPath receives the annotated board image. Empty skips the
	// save.
	OutputPath string `yaml:"output_path"`
	// HeatmapPath, when set, receives the cell-intensity debug map.
	HeatmapPath string `yaml:"heatmap_path,omitempty"`
	// Labels draws algebraic square names onto the annotated board.
	Labels bool `yaml:"labels"`
	// Enhance configures the optional CLAHE/Otsu stage.
	Enhance enhance.Options `yaml:"enhance"`
}

// Default returns the standard configuration: 400x400 canvas, Otsu
// thresholding, enhancement off but parameterized so enabling it works
// without further tuning.
func Default() Config {
	return Config{
		CanvasSize:     400,
		ThresholdMode:  grid.PolicyOtsu,
		FixedThreshold: grid.DefaultFixedThreshold,
		OutputPath:     "annotated_chessboard.png",
		Enhance:        enhance.Options{ClipLimit: 2.0, TileSize: 8},
	}
}

// Load reads a YAML config, filling unset fields from Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks every field and reports all faults at once.
func (c Config) Validate() error {
	var errs error

	if c.CanvasSize < grid.Cols {
		errs = multierr.Append(errs, fmt.Errorf("canvas_size %d: must be at least %d so every cell spans a pixel", c.CanvasSize, grid.Cols))
	}
	switch c.ThresholdMode {
	case grid.PolicyFixed, grid.PolicyMean, grid.PolicyOtsu:
	default:
		errs = multierr.Append(errs, fmt.Errorf("threshold_mode %q: must be fixed, mean, or otsu", c.ThresholdMode))
	}
	if c.FixedThreshold < 0 || c.FixedThreshold > 255 {
		errs = multierr.Append(errs, fmt.Errorf("fixed_threshold %.1f: must be within [0,255]", c.FixedThreshold))
	}
	if c.Enhance.CLAHE {
		if c.Enhance.ClipLimit <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("enhance.clip_limit %.2f: must be positive", c.Enhance.ClipLimit))
		}
		if c.Enhance.TileSize < 1 {
			errs = multierr.Append(errs, fmt.Errorf("enhance.tile_size %d: must be at least 1", c.Enhance.TileSize))
		}
	}
	return errs
}
