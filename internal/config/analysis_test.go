package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmptyAnalysisConfigDefaults(t *testing.T) {
	cfg := EmptyAnalysisConfig()

	if got := cfg.GetMinReversalDurationSecs(); got != 3.0 {
		t.Errorf("GetMinReversalDurationSecs() = %f, want 3.0", got)
	}
	if got := cfg.GetTurnAngleThresholdDeg(); got != 45.0 {
		t.Errorf("GetTurnAngleThresholdDeg() = %f, want 45.0", got)
	}
	if got := cfg.GetTurnMinFrames(); got != 3 {
		t.Errorf("GetTurnMinFrames() = %d, want 3", got)
	}
	if got := cfg.GetTurnMaxLookaheadFrames(); got != 30 {
		t.Errorf("GetTurnMaxLookaheadFrames() = %d, want 30", got)
	}
	if got := cfg.GetStimulusThresholdFraction(); got != 0.1 {
		t.Errorf("GetStimulusThresholdFraction() = %f, want 0.1", got)
	}
	if got := cfg.GetConcurrencyBinSecs(); got != 10.0 {
		t.Errorf("GetConcurrencyBinSecs() = %f, want 10.0", got)
	}
	if got := cfg.GetRateBinSecs(); got != 10.0 {
		t.Errorf("GetRateBinSecs() = %f, want 10.0", got)
	}
	if got := cfg.GetLengthPerPixel(); got != 0.01 {
		t.Errorf("GetLengthPerPixel() = %f, want 0.01", got)
	}
	if got := cfg.GetWorkers(); got != 4 {
		t.Errorf("GetWorkers() = %d, want 4", got)
	}
	if cfg.StimulusThreshold != nil {
		t.Errorf("StimulusThreshold should default to nil (auto), got %v", *cfg.StimulusThreshold)
	}
}

func TestLoadAnalysisConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "min_reversal_duration_secs": 2.0,
  "turn_angle_threshold_deg": 60.0,
  "turn_min_frames": 5,
  "stimulus_threshold": 120.5,
  "workers": 2
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadAnalysisConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.MinReversalDurationSecs == nil || *cfg.MinReversalDurationSecs != 2.0 {
		t.Errorf("Expected MinReversalDurationSecs 2.0, got %v", cfg.MinReversalDurationSecs)
	}
	if cfg.TurnAngleThresholdDeg == nil || *cfg.TurnAngleThresholdDeg != 60.0 {
		t.Errorf("Expected TurnAngleThresholdDeg 60.0, got %v", cfg.TurnAngleThresholdDeg)
	}
	if cfg.TurnMinFrames == nil || *cfg.TurnMinFrames != 5 {
		t.Errorf("Expected TurnMinFrames 5, got %v", cfg.TurnMinFrames)
	}
	if cfg.StimulusThreshold == nil || *cfg.StimulusThreshold != 120.5 {
		t.Errorf("Expected StimulusThreshold 120.5, got %v", cfg.StimulusThreshold)
	}
	if cfg.Workers == nil || *cfg.Workers != 2 {
		t.Errorf("Expected Workers 2, got %v", cfg.Workers)
	}

	// Fields not present in the file fall back to defaults.
	if got := cfg.GetTurnMaxLookaheadFrames(); got != 30 {
		t.Errorf("GetTurnMaxLookaheadFrames() = %d, want default 30", got)
	}
	if got := cfg.GetConcurrencyBinSecs(); got != 10.0 {
		t.Errorf("GetConcurrencyBinSecs() = %f, want default 10.0", got)
	}
}

func TestLoadAnalysisConfigMissing(t *testing.T) {
	_, err := LoadAnalysisConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadAnalysisConfigBadExtension(t *testing.T) {
	_, err := LoadAnalysisConfig("/tmp/config.yaml")
	if err == nil || !strings.Contains(err.Error(), ".json extension") {
		t.Errorf("Expected extension error, got %v", err)
	}
}

func TestLoadAnalysisConfigInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.json")
	if err := os.WriteFile(configPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadAnalysisConfig(configPath)
	if err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *AnalysisConfig
		wantErr string
	}{
		{
			name:    "negative min duration",
			cfg:     &AnalysisConfig{MinReversalDurationSecs: ptrFloat64(-1)},
			wantErr: "min_reversal_duration_secs",
		},
		{
			name:    "zero angle threshold",
			cfg:     &AnalysisConfig{TurnAngleThresholdDeg: ptrFloat64(0)},
			wantErr: "turn_angle_threshold_deg",
		},
		{
			name:    "zero min frames",
			cfg:     &AnalysisConfig{TurnMinFrames: ptrInt(0)},
			wantErr: "turn_min_frames",
		},
		{
			name:    "fraction above one",
			cfg:     &AnalysisConfig{StimulusThresholdFraction: ptrFloat64(1.5)},
			wantErr: "stimulus_threshold_fraction",
		},
		{
			name:    "zero concurrency bin",
			cfg:     &AnalysisConfig{ConcurrencyBinSecs: ptrFloat64(0)},
			wantErr: "concurrency_bin_secs",
		},
		{
			name:    "negative length per pixel",
			cfg:     &AnalysisConfig{LengthPerPixel: ptrFloat64(-0.01)},
			wantErr: "length_per_pixel",
		},
		{
			name:    "zero workers",
			cfg:     &AnalysisConfig{Workers: ptrInt(0)},
			wantErr: "workers",
		},
		{
			name: "valid overrides",
			cfg: &AnalysisConfig{
				MinReversalDurationSecs: ptrFloat64(1.0),
				TurnAngleThresholdDeg:   ptrFloat64(30),
				Workers:                 ptrInt(8),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()

	if got := cfg.GetMinReversalDurationSecs(); got != 3.0 {
		t.Errorf("defaults file min_reversal_duration_secs = %f, want 3.0", got)
	}
	if got := cfg.GetTurnAngleThresholdDeg(); got != 45.0 {
		t.Errorf("defaults file turn_angle_threshold_deg = %f, want 45.0", got)
	}
}
