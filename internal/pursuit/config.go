// Package pursuit implements the pure-pursuit path-tracking controller.
//
// All control logic lives in Step, a pure transition from the previous
// State and the current pose to the next State and a wheel Command.
// Controller wraps Step with the state kept between calls.
package pursuit

import (
	"fmt"

	"github.com/banshee-data/purepursuit/internal/geometry"
)

// Config holds the controller tuning.
type Config struct {
	MinLookAheadDistance   float64 `json:"min_look_ahead_distance"`
	MaxLookAheadDistance   float64 `json:"max_look_ahead_distance"`
	AngleVelocityParameter float64 `json:"angle_velocity_parameter"`
	FinalApproachVelocity  float64 `json:"final_approach_velocity"`
	EndConditionDistance   float64 `json:"end_condition_distance"`
}

// Validate checks that the tuning values are usable.
func (c Config) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"min_look_ahead_distance", c.MinLookAheadDistance},
		{"max_look_ahead_distance", c.MaxLookAheadDistance},
		{"angle_velocity_parameter", c.AngleVelocityParameter},
		{"final_approach_velocity", c.FinalApproachVelocity},
		{"end_condition_distance", c.EndConditionDistance},
	} {
		if !geometry.IsFinite(f.value) || f.value <= 0 {
			return fmt.Errorf("%s must be positive, got %v", f.name, f.value)
		}
	}
	if c.MinLookAheadDistance > c.MaxLookAheadDistance {
		return fmt.Errorf("min_look_ahead_distance %v exceeds max_look_ahead_distance %v",
			c.MinLookAheadDistance, c.MaxLookAheadDistance)
	}
	return nil
}
