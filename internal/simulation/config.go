// Package simulation runs the pure-pursuit controller in closed loop with
// the vehicle kinematics and records every step for reporting.
package simulation

import (
	"fmt"

	"github.com/banshee-data/purepursuit/internal/geometry"
)

// Config holds the simulation tuning.
type Config struct {
	// ControlFrequency is the controller update rate in Hz.
	ControlFrequency float64 `json:"control_frequency"`
	// AvgAbsCrossTrackErrorThreshold is the pass mark for a run's mean
	// absolute cross-track error, in metres.
	AvgAbsCrossTrackErrorThreshold float64 `json:"avg_abs_cross_track_error_threshold"`
	// MaxSteps bounds a run. Zero means unbounded.
	MaxSteps int `json:"max_steps,omitempty"`
}

// Dt returns the control period in seconds.
func (c Config) Dt() float64 { return 1 / c.ControlFrequency }

// Validate checks that the tuning values are usable.
func (c Config) Validate() error {
	if !geometry.IsFinite(c.ControlFrequency) || c.ControlFrequency <= 0 {
		return fmt.Errorf("control_frequency must be positive, got %v", c.ControlFrequency)
	}
	if !geometry.IsFinite(c.AvgAbsCrossTrackErrorThreshold) || c.AvgAbsCrossTrackErrorThreshold <= 0 {
		return fmt.Errorf("avg_abs_cross_track_error_threshold must be positive, got %v", c.AvgAbsCrossTrackErrorThreshold)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", c.MaxSteps)
	}
	return nil
}
