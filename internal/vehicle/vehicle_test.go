package vehicle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/purepursuit/internal/geometry"
)

func testVehicle() Vehicle {
	return Vehicle{
		WheelRadius:            0.1,
		TrackWidth:             0.5,
		Length:                 0.6,
		MaxVelocity:            1,
		MaxAcceleration:        1,
		MaxAngularVelocity:     2,
		MaxAngularAcceleration: 4,
	}
}

func TestPropagateNilCommandIsIdentity(t *testing.T) {
	t.Parallel()

	pose := Pose{Position: geometry.Point{X: 1, Y: 2}, Heading: 0.3, Velocity: 0.4, AngularVelocity: -0.1}
	assert.Equal(t, pose, Propagate(testVehicle(), pose, nil, 0.1))
}

func TestPropagateStraight(t *testing.T) {
	t.Parallel()

	v := testVehicle()
	cmd := Command{LeftWheelAngularVelocity: 5, RightWheelAngularVelocity: 5}
	next := Propagate(v, Pose{Heading: math.Pi / 2}, &cmd, 0.5)

	assert.InDelta(t, 0.5, next.Velocity, 1e-12)
	assert.InDelta(t, 0.0, next.AngularVelocity, 1e-12)
	assert.InDelta(t, 0.0, next.Position.X, 1e-12)
	assert.InDelta(t, 0.25, next.Position.Y, 1e-12)
	assert.InDelta(t, math.Pi/2, next.Heading, 1e-12)
}

func TestPropagateTurnAccumulatesHeading(t *testing.T) {
	t.Parallel()

	v := testVehicle()
	// Spin in place: 0.1 * (10 - -10) / 0.5 = 4 rad/s.
	cmd := Command{LeftWheelAngularVelocity: -10, RightWheelAngularVelocity: 10}
	pose := Pose{}
	for range 10 {
		pose = Propagate(v, pose, &cmd, 0.25)
	}
	assert.InDelta(t, 10.0, pose.Heading, 1e-9, "heading is not normalised")
	assert.InDelta(t, 0.0, pose.Velocity, 1e-12)
	assert.InDelta(t, 4.0, pose.AngularVelocity, 1e-12)
	assert.InDelta(t, 0.0, pose.Position.X, 1e-12)
}

func TestWheelAngularVelocitiesRoundTrip(t *testing.T) {
	t.Parallel()

	v := testVehicle()
	pose := Pose{Velocity: 0.8, AngularVelocity: -1.2}
	cmd := v.WheelAngularVelocities(pose)
	next := Propagate(v, Pose{}, &cmd, 0.1)

	assert.InDelta(t, pose.Velocity, next.Velocity, 1e-12)
	assert.InDelta(t, pose.AngularVelocity, next.AngularVelocity, 1e-12)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, testVehicle().Validate())

	bad := testVehicle()
	bad.TrackWidth = 0
	assert.ErrorContains(t, bad.Validate(), "track_width")

	bad = testVehicle()
	bad.MaxVelocity = math.Inf(1)
	assert.ErrorContains(t, bad.Validate(), "max_velocity")
}
