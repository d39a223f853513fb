package config

import (
	"fmt"

	"github.com/banshee-data/purepursuit/internal/vehicle"
)

// RobotConfig is the on-disk robot description.
type RobotConfig struct {
	WheelRadius            *float64 `json:"wheel_radius"`
	TrackWidth             *float64 `json:"track_width"`
	Length                 *float64 `json:"length"`
	MaxVelocity            *float64 `json:"max_velocity"`
	MaxAcceleration        *float64 `json:"max_acceleration"`
	MaxAngularVelocity     *float64 `json:"max_angular_velocity"`
	MaxAngularAcceleration *float64 `json:"max_angular_acceleration"`
}

// RobotConfigFrom converts v back to its file form.
func RobotConfigFrom(v vehicle.Vehicle) *RobotConfig {
	return &RobotConfig{
		WheelRadius:            ptrFloat64(v.WheelRadius),
		TrackWidth:             ptrFloat64(v.TrackWidth),
		Length:                 ptrFloat64(v.Length),
		MaxVelocity:            ptrFloat64(v.MaxVelocity),
		MaxAcceleration:        ptrFloat64(v.MaxAcceleration),
		MaxAngularVelocity:     ptrFloat64(v.MaxAngularVelocity),
		MaxAngularAcceleration: ptrFloat64(v.MaxAngularAcceleration),
	}
}

// Validate checks that every field is present and positive.
func (c *RobotConfig) Validate() error {
	return requirePositive(
		field{"wheel_radius", c.WheelRadius},
		field{"track_width", c.TrackWidth},
		field{"length", c.Length},
		field{"max_velocity", c.MaxVelocity},
		field{"max_acceleration", c.MaxAcceleration},
		field{"max_angular_velocity", c.MaxAngularVelocity},
		field{"max_angular_acceleration", c.MaxAngularAcceleration},
	)
}

// Vehicle returns the validated limits. Call Validate first.
func (c *RobotConfig) Vehicle() vehicle.Vehicle {
	return vehicle.Vehicle{
		WheelRadius:            *c.WheelRadius,
		TrackWidth:             *c.TrackWidth,
		Length:                 *c.Length,
		MaxVelocity:            *c.MaxVelocity,
		MaxAcceleration:        *c.MaxAcceleration,
		MaxAngularVelocity:     *c.MaxAngularVelocity,
		MaxAngularAcceleration: *c.MaxAngularAcceleration,
	}
}

// LoadRobotConfig loads and validates a robot config.
func (l Loader) LoadRobotConfig(path string) (*RobotConfig, error) {
	cfg := &RobotConfig{}
	if err := l.decode(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("robot config %s: %w", path, err)
	}
	return cfg, nil
}
