// Package units provides shared constants and conversions for speed units
// and the camera pixel scale.
package units

// Unit constants
const (
	CMPS = "cmps"
	MMPS = "mmps"
	MPS  = "mps"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{CMPS, MMPS, MPS}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "cmps, mmps, mps"
}

// ConvertSpeed converts a speed from centimeters per second to the target
// units. Derived series carry speeds in cm/s.
func ConvertSpeed(speedCMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MMPS:
		return speedCMPS * 10
	case MPS:
		return speedCMPS / 100
	case CMPS:
		return speedCMPS
	default:
		return speedCMPS
	}
}

// DefaultLengthPerPixel is the camera scale applied when an experiment
// document carries no calibration, in cm per pixel.
const DefaultLengthPerPixel = 0.01

// PixelsToCm converts a pixel distance to centimeters using the scalar
// camera scale.
func PixelsToCm(pixels, lengthPerPixel float64) float64 {
	return pixels * lengthPerPixel
}
