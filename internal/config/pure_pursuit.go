package config

import (
	"fmt"

	"github.com/banshee-data/purepursuit/internal/pursuit"
)

// PurePursuitConfig is the on-disk controller tuning.
type PurePursuitConfig struct {
	MinLookAheadDistance   *float64 `json:"min_look_ahead_distance"`
	MaxLookAheadDistance   *float64 `json:"max_look_ahead_distance"`
	AngleVelocityParameter *float64 `json:"angle_velocity_parameter"`
	FinalApproachVelocity  *float64 `json:"final_approach_velocity"`
	EndConditionDistance   *float64 `json:"end_condition_distance"`
}

// PurePursuitConfigFrom converts c back to its file form.
func PurePursuitConfigFrom(c pursuit.Config) *PurePursuitConfig {
	return &PurePursuitConfig{
		MinLookAheadDistance:   ptrFloat64(c.MinLookAheadDistance),
		MaxLookAheadDistance:   ptrFloat64(c.MaxLookAheadDistance),
		AngleVelocityParameter: ptrFloat64(c.AngleVelocityParameter),
		FinalApproachVelocity:  ptrFloat64(c.FinalApproachVelocity),
		EndConditionDistance:   ptrFloat64(c.EndConditionDistance),
	}
}

// Validate checks that every field is present and positive and that the
// look-ahead range is ordered.
func (c *PurePursuitConfig) Validate() error {
	if err := requirePositive(
		field{"min_look_ahead_distance", c.MinLookAheadDistance},
		field{"max_look_ahead_distance", c.MaxLookAheadDistance},
		field{"angle_velocity_parameter", c.AngleVelocityParameter},
		field{"final_approach_velocity", c.FinalApproachVelocity},
		field{"end_condition_distance", c.EndConditionDistance},
	); err != nil {
		return err
	}
	if *c.MinLookAheadDistance > *c.MaxLookAheadDistance {
		return fmt.Errorf("%w: min_look_ahead_distance %v exceeds max_look_ahead_distance %v",
			ErrInvalidConfig, *c.MinLookAheadDistance, *c.MaxLookAheadDistance)
	}
	return nil
}

// Pursuit returns the validated tuning. Call Validate first.
func (c *PurePursuitConfig) Pursuit() pursuit.Config {
	return pursuit.Config{
		MinLookAheadDistance:   *c.MinLookAheadDistance,
		MaxLookAheadDistance:   *c.MaxLookAheadDistance,
		AngleVelocityParameter: *c.AngleVelocityParameter,
		FinalApproachVelocity:  *c.FinalApproachVelocity,
		EndConditionDistance:   *c.EndConditionDistance,
	}
}

// LoadPurePursuitConfig loads and validates a controller tuning file.
func (l Loader) LoadPurePursuitConfig(path string) (*PurePursuitConfig, error) {
	cfg := &PurePursuitConfig{}
	if err := l.decode(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pure pursuit config %s: %w", path, err)
	}
	return cfg, nil
}
