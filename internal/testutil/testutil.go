// Package testutil provides shared test fixtures: a reference vehicle and
// controller tuning, adapted paths, and tolerant geometry assertions.
package testutil

import (
	"testing"

	"github.com/banshee-data/purepursuit/internal/geometry"
	"github.com/banshee-data/purepursuit/internal/path"
	"github.com/banshee-data/purepursuit/internal/pursuit"
	"github.com/banshee-data/purepursuit/internal/vehicle"
)

// Vehicle returns the vehicle described by config/robot.defaults.json.
func Vehicle() vehicle.Vehicle {
	return vehicle.Vehicle{
		WheelRadius:            0.1,
		TrackWidth:             0.5,
		Length:                 0.6,
		MaxVelocity:            1.0,
		MaxAcceleration:        0.5,
		MaxAngularVelocity:     1.5,
		MaxAngularAcceleration: 3.0,
	}
}

// PursuitConfig returns the tuning in config/pure_pursuit.defaults.json.
func PursuitConfig() pursuit.Config {
	return pursuit.Config{
		MinLookAheadDistance:   0.5,
		MaxLookAheadDistance:   1.5,
		AngleVelocityParameter: 0.5,
		FinalApproachVelocity:  0.2,
		EndConditionDistance:   0.1,
	}
}

// Path adapts points with the limits of Vehicle and PursuitConfig.
func Path(t testing.TB, points ...geometry.Point) *path.Path {
	t.Helper()
	veh, cfg := Vehicle(), PursuitConfig()
	p, err := path.Adapt(points, path.ProfileLimits{
		MaxVelocity:            veh.MaxVelocity,
		MaxAcceleration:        veh.MaxAcceleration,
		AngleVelocityParameter: cfg.AngleVelocityParameter,
	})
	if err != nil {
		t.Fatalf("adapt path: %v", err)
	}
	return p
}

// AssertPointNear fails the test if got is further than tol from want.
func AssertPointNear(t testing.TB, got, want geometry.Point, tol float64) {
	t.Helper()
	if d := geometry.Distance(got, want); d > tol {
		t.Errorf("point = %v, want %v (off by %g, tolerance %g)", got, want, d, tol)
	}
}
