package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical analysis defaults file.
// This is the single source of truth for all default detector values.
const DefaultConfigPath = "config/analysis.defaults.json"

// AnalysisConfig represents the tunable parameters of an analysis run.
// Fields are pointers so a partial JSON file overrides only what it names;
// the Get* methods supply defaults for everything else. CLI flags override
// file values by setting the corresponding field.
type AnalysisConfig struct {
	// Reversal detector params
	MinReversalDurationSecs *float64 `json:"min_reversal_duration_secs,omitempty"`

	// Turn detector params
	TurnAngleThresholdDeg  *float64 `json:"turn_angle_threshold_deg,omitempty"`
	TurnMinFrames          *int     `json:"turn_min_frames,omitempty"`
	TurnMaxLookaheadFrames *int     `json:"turn_max_lookahead_frames,omitempty"`

	// Stimulus windowing params. StimulusThreshold, when set, is an absolute
	// intensity cutoff; otherwise the threshold is derived from the channel
	// maximum using StimulusThresholdFraction.
	StimulusThreshold         *float64 `json:"stimulus_threshold,omitempty"`
	StimulusThresholdFraction *float64 `json:"stimulus_threshold_fraction,omitempty"`

	// Aggregation params
	ConcurrencyBinSecs *float64 `json:"concurrency_bin_secs,omitempty"`
	RateBinSecs        *float64 `json:"rate_bin_secs,omitempty"`

	// Input params
	LengthPerPixel *float64 `json:"length_per_pixel,omitempty"` // cm per pixel, used when the experiment carries none

	// Run params
	Workers *int `json:"workers,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyAnalysisConfig returns an AnalysisConfig with all fields set to nil.
// Use LoadAnalysisConfig to load actual values from a file.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// LoadAnalysisConfig loads an AnalysisConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAnalysisConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical analysis defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *AnalysisConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadAnalysisConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *AnalysisConfig) Validate() error {
	if c.MinReversalDurationSecs != nil && *c.MinReversalDurationSecs < 0 {
		return fmt.Errorf("min_reversal_duration_secs must be non-negative, got %f", *c.MinReversalDurationSecs)
	}

	if c.TurnAngleThresholdDeg != nil && *c.TurnAngleThresholdDeg <= 0 {
		return fmt.Errorf("turn_angle_threshold_deg must be positive, got %f", *c.TurnAngleThresholdDeg)
	}

	if c.TurnMinFrames != nil && *c.TurnMinFrames < 1 {
		return fmt.Errorf("turn_min_frames must be at least 1, got %d", *c.TurnMinFrames)
	}

	if c.TurnMaxLookaheadFrames != nil && *c.TurnMaxLookaheadFrames < 1 {
		return fmt.Errorf("turn_max_lookahead_frames must be at least 1, got %d", *c.TurnMaxLookaheadFrames)
	}

	if c.StimulusThresholdFraction != nil {
		if *c.StimulusThresholdFraction < 0 || *c.StimulusThresholdFraction > 1 {
			return fmt.Errorf("stimulus_threshold_fraction must be between 0 and 1, got %f", *c.StimulusThresholdFraction)
		}
	}

	if c.ConcurrencyBinSecs != nil && *c.ConcurrencyBinSecs <= 0 {
		return fmt.Errorf("concurrency_bin_secs must be positive, got %f", *c.ConcurrencyBinSecs)
	}

	if c.RateBinSecs != nil && *c.RateBinSecs <= 0 {
		return fmt.Errorf("rate_bin_secs must be positive, got %f", *c.RateBinSecs)
	}

	if c.LengthPerPixel != nil && *c.LengthPerPixel <= 0 {
		return fmt.Errorf("length_per_pixel must be positive, got %f", *c.LengthPerPixel)
	}

	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}

	return nil
}

// GetMinReversalDurationSecs returns the min_reversal_duration_secs value or the default.
func (c *AnalysisConfig) GetMinReversalDurationSecs() float64 {
	if c.MinReversalDurationSecs == nil {
		return 3.0 // default
	}
	return *c.MinReversalDurationSecs
}

// GetTurnAngleThresholdDeg returns the turn_angle_threshold_deg value or the default.
func (c *AnalysisConfig) GetTurnAngleThresholdDeg() float64 {
	if c.TurnAngleThresholdDeg == nil {
		return 45.0 // default
	}
	return *c.TurnAngleThresholdDeg
}

// GetTurnMinFrames returns the turn_min_frames value or the default.
func (c *AnalysisConfig) GetTurnMinFrames() int {
	if c.TurnMinFrames == nil {
		return 3 // default
	}
	return *c.TurnMinFrames
}

// GetTurnMaxLookaheadFrames returns the turn_max_lookahead_frames value or the default.
func (c *AnalysisConfig) GetTurnMaxLookaheadFrames() int {
	if c.TurnMaxLookaheadFrames == nil {
		return 30 // default
	}
	return *c.TurnMaxLookaheadFrames
}

// GetStimulusThresholdFraction returns the stimulus_threshold_fraction value or the default.
func (c *AnalysisConfig) GetStimulusThresholdFraction() float64 {
	if c.StimulusThresholdFraction == nil {
		return 0.1 // default: 10% of channel max
	}
	return *c.StimulusThresholdFraction
}

// GetConcurrencyBinSecs returns the concurrency_bin_secs value or the default.
func (c *AnalysisConfig) GetConcurrencyBinSecs() float64 {
	if c.ConcurrencyBinSecs == nil {
		return 10.0 // default
	}
	return *c.ConcurrencyBinSecs
}

// GetRateBinSecs returns the rate_bin_secs value or the default.
func (c *AnalysisConfig) GetRateBinSecs() float64 {
	if c.RateBinSecs == nil {
		return 10.0 // default
	}
	return *c.RateBinSecs
}

// GetLengthPerPixel returns the length_per_pixel value or the default.
func (c *AnalysisConfig) GetLengthPerPixel() float64 {
	if c.LengthPerPixel == nil {
		return 0.01 // default, cm per pixel
	}
	return *c.LengthPerPixel
}

// GetWorkers returns the workers value or the default.
func (c *AnalysisConfig) GetWorkers() int {
	if c.Workers == nil {
		return 4 // default
	}
	return *c.Workers
}
