package units

import (
	"math"
	"testing"
)

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		name      string
		speedCMPS float64
		units     string
		expected  float64
	}{
		{"1 cm/s to mm/s", 1.0, MMPS, 10.0},
		{"1 cm/s to m/s", 1.0, MPS, 0.01},
		{"1 cm/s to cm/s", 1.0, CMPS, 1.0},
		{"unknown units default to cm/s", 1.0, "unknown", 1.0},
		{"0 cm/s to mm/s", 0.0, MMPS, 0.0},
		{"crawl speed 0.12 cm/s to mm/s", 0.12, MMPS, 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertSpeed(tt.speedCMPS, tt.units)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("ConvertSpeed(%f, %s) = %f, want %f", tt.speedCMPS, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, unit := range ValidUnits {
		if !IsValid(unit) {
			t.Errorf("IsValid(%q) = false, want true", unit)
		}
	}
	for _, unit := range []string{"", "mph", "px/s"} {
		if IsValid(unit) {
			t.Errorf("IsValid(%q) = true, want false", unit)
		}
	}
}

func TestPixelsToCm(t *testing.T) {
	if got := PixelsToCm(250, DefaultLengthPerPixel); math.Abs(got-2.5) > 1e-12 {
		t.Errorf("PixelsToCm(250, default) = %f, want 2.5", got)
	}
	if got := PixelsToCm(100, 0.02); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("PixelsToCm(100, 0.02) = %f, want 2.0", got)
	}
}
