// Package units converts the SI values used throughout the simulator into
// the units shown in reports, charts and drive logs.
package units

import (
	"fmt"
	"math"
	"strings"
)

// Speed unit names accepted by the -units flag.
const (
	MPS  = "mps"
	KPH  = "kph"
	KMPH = "kmph"
	MPH  = "mph"
)

// ValidUnits contains all valid speed unit values.
var ValidUnits = []string{MPS, KPH, KMPH, MPH}

// IsValid reports whether unit is a known speed unit.
func IsValid(unit string) bool {
	for _, u := range ValidUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// ValidUnitsString returns the speed units for flag help and errors.
func ValidUnitsString() string { return strings.Join(ValidUnits, ", ") }

// ConvertSpeed converts a speed in m/s to targetUnits. Unknown units are
// returned unchanged.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case KPH, KMPH:
		return speedMPS * 3.6
	case MPH:
		return speedMPS * 2.2369362920544
	default:
		return speedMPS
	}
}

// SpeedLabel returns the display suffix for a speed unit.
func SpeedLabel(unit string) string {
	switch unit {
	case KPH, KMPH:
		return "km/h"
	case MPH:
		return "mph"
	default:
		return "m/s"
	}
}

// FormatSpeed formats a speed in m/s in the given unit.
func FormatSpeed(speedMPS float64, unit string) string {
	return fmt.Sprintf("%.3f %s", ConvertSpeed(speedMPS, unit), SpeedLabel(unit))
}

// Centimeters converts metres to centimetres.
func Centimeters(m float64) float64 { return m * 100 }

// RPM converts a wheel angular velocity in rad/s to revolutions per minute.
func RPM(radPerSec float64) float64 { return radPerSec * 60 / (2 * math.Pi) }
