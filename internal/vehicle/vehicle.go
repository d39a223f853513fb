// Package vehicle models a differential-drive ground vehicle: its physical
// limits, its pose, the wheel commands it accepts and the kinematics that
// integrate one into the other.
package vehicle

import (
	"fmt"

	"github.com/banshee-data/purepursuit/internal/geometry"
)

// Vehicle holds the geometry and motion limits of the robot. Length is
// only used for drawing the footprint.
type Vehicle struct {
	WheelRadius            float64 `json:"wheel_radius"`
	TrackWidth             float64 `json:"track_width"`
	Length                 float64 `json:"length"`
	MaxVelocity            float64 `json:"max_velocity"`
	MaxAcceleration        float64 `json:"max_acceleration"`
	MaxAngularVelocity     float64 `json:"max_angular_velocity"`
	MaxAngularAcceleration float64 `json:"max_angular_acceleration"`
}

// Validate checks that every limit is positive and finite.
func (v Vehicle) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"wheel_radius", v.WheelRadius},
		{"track_width", v.TrackWidth},
		{"length", v.Length},
		{"max_velocity", v.MaxVelocity},
		{"max_acceleration", v.MaxAcceleration},
		{"max_angular_velocity", v.MaxAngularVelocity},
		{"max_angular_acceleration", v.MaxAngularAcceleration},
	} {
		if !geometry.IsFinite(f.value) || f.value <= 0 {
			return fmt.Errorf("%s must be positive, got %v", f.name, f.value)
		}
	}
	return nil
}

// WheelAngularVelocities returns the wheel speeds that reproduce the
// pose's linear and angular velocity.
func (v Vehicle) WheelAngularVelocities(p Pose) Command {
	return Command{
		RightWheelAngularVelocity: (p.Velocity + 0.5*p.AngularVelocity*v.TrackWidth) / v.WheelRadius,
		LeftWheelAngularVelocity:  (p.Velocity - 0.5*p.AngularVelocity*v.TrackWidth) / v.WheelRadius,
	}
}

// Pose is the vehicle state at one instant.
type Pose struct {
	Position geometry.Point `json:"position"`
	// Heading in radians. It is never normalised so it accumulates
	// across a run.
	Heading         float64 `json:"heading"`
	Velocity        float64 `json:"velocity"`
	AngularVelocity float64 `json:"angular_velocity"`
}

func (p Pose) String() string {
	return fmt.Sprintf("(x: %.3f, y: %.3f, theta: %.3f, v: %.3f, w: %.3f)",
		p.Position.X, p.Position.Y, p.Heading, p.Velocity, p.AngularVelocity)
}

// Command is a pair of wheel angular velocities in rad/s.
type Command struct {
	LeftWheelAngularVelocity  float64 `json:"left_wheel_angular_velocity"`
	RightWheelAngularVelocity float64 `json:"right_wheel_angular_velocity"`
}

func (c Command) String() string {
	return fmt.Sprintf("(r: %.3f, l: %.3f)", c.RightWheelAngularVelocity, c.LeftWheelAngularVelocity)
}
