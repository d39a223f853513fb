package simulation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/purepursuit/internal/geometry"
	"github.com/banshee-data/purepursuit/internal/path"
	"github.com/banshee-data/purepursuit/internal/units"
	"github.com/banshee-data/purepursuit/internal/vehicle"
)

// State is one recorded step of a run.
type State struct {
	Pose              vehicle.Pose        `json:"pose"`
	ReferencePoint    path.ReferencePoint `json:"reference_point"`
	CrossTrackError   float64             `json:"cross_track_error"`
	CheckpointIndex   int                 `json:"checkpoint_index"`
	LookAheadDistance float64             `json:"look_ahead_distance"`
	// TargetPoint is nil only if the controller was never updated.
	TargetPoint *path.TargetPoint `json:"target_point,omitempty"`
	Command     vehicle.Command   `json:"command"`
}

// Data is the full record of a run. The last state is the vehicle brought
// to rest after the controller finished.
type Data struct {
	Path                 *path.Path
	Vehicle              vehicle.Vehicle
	Dt                   float64
	EndConditionDistance float64
	States               []State
	// StepTimes holds the wall-clock time of each controller step; it has
	// one entry fewer than States.
	StepTimes []time.Duration
}

// PathLength returns the arc length of the path in metres.
func (d *Data) PathLength() float64 { return d.Path.TotalDistance() }

// AverageWaypointAngle returns the mean absolute turn angle over all
// waypoints in degrees.
func (d *Data) AverageWaypointAngle() float64 {
	angles := d.Path.TurnAngles()
	for i, a := range angles {
		angles[i] = geometry.Degrees(math.Abs(a))
	}
	return stat.Mean(angles, nil)
}

// Steps returns the number of recorded states.
func (d *Data) Steps() int { return len(d.States) }

// Runtime returns the simulated duration in seconds.
func (d *Data) Runtime() float64 { return float64(len(d.States)) * d.Dt }

// AverageStepTime returns the mean wall-clock time of a controller step.
func (d *Data) AverageStepTime() time.Duration {
	if len(d.StepTimes) == 0 {
		return 0
	}
	var total time.Duration
	for _, t := range d.StepTimes {
		total += t
	}
	return total / time.Duration(len(d.StepTimes))
}

// CrossTrackErrors returns the cross-track error of every state.
func (d *Data) CrossTrackErrors() []float64 {
	return d.series(func(s State) float64 { return s.CrossTrackError })
}

func (d *Data) series(f func(State) float64) []float64 {
	out := make([]float64, len(d.States))
	for i, s := range d.States {
		out[i] = f(s)
	}
	return out
}

// AverageAbsCrossTrackError returns the mean absolute cross-track error in
// metres.
func (d *Data) AverageAbsCrossTrackError() float64 {
	if len(d.States) == 0 {
		return 0
	}
	return stat.Mean(d.series(func(s State) float64 { return math.Abs(s.CrossTrackError) }), nil)
}

// AverageVelocity returns the mean forward velocity in m/s.
func (d *Data) AverageVelocity() float64 {
	if len(d.States) == 0 {
		return 0
	}
	return stat.Mean(d.series(func(s State) float64 { return s.Pose.Velocity }), nil)
}

// MaxAngularVelocity returns the largest absolute angular velocity in
// rad/s.
func (d *Data) MaxAngularVelocity() float64 {
	if len(d.States) == 0 {
		return 0
	}
	return floats.Max(d.series(func(s State) float64 { return math.Abs(s.Pose.AngularVelocity) }))
}

// EndPointDistance returns how far the vehicle stopped from the end of the
// path.
func (d *Data) EndPointDistance() float64 {
	if len(d.States) == 0 {
		return geometry.Distance(d.Path.Start(), d.Path.End())
	}
	return geometry.Distance(d.States[len(d.States)-1].Pose.Position, d.Path.End())
}

// Summary is the set of figures reported for a run.
type Summary struct {
	PathLength                float64       `json:"path_length"`
	AverageWaypointAngle      float64       `json:"average_waypoint_angle"`
	Steps                     int           `json:"steps"`
	Runtime                   float64       `json:"runtime"`
	AverageStepTime           time.Duration `json:"average_step_time"`
	AverageAbsCrossTrackError float64       `json:"average_abs_cross_track_error"`
	AverageVelocity           float64       `json:"average_velocity"`
	MaxAngularVelocity        float64       `json:"max_angular_velocity"`
	EndPointDistance          float64       `json:"end_point_distance"`
}

// Summarize computes the run summary.
func (d *Data) Summarize() Summary {
	return Summary{
		PathLength:                d.PathLength(),
		AverageWaypointAngle:      d.AverageWaypointAngle(),
		Steps:                     d.Steps(),
		Runtime:                   d.Runtime(),
		AverageStepTime:           d.AverageStepTime(),
		AverageAbsCrossTrackError: d.AverageAbsCrossTrackError(),
		AverageVelocity:           d.AverageVelocity(),
		MaxAngularVelocity:        d.MaxAngularVelocity(),
		EndPointDistance:          d.EndPointDistance(),
	}
}

// Checks reports whether the run met each acceptance criterion.
type Checks struct {
	CrossTrackError bool
	AngularVelocity bool
	EndDistance     bool
}

// Passed reports whether every check passed.
func (c Checks) Passed() bool {
	return c.CrossTrackError && c.AngularVelocity && c.EndDistance
}

// Check compares the run against the cross-track threshold, the vehicle's
// angular velocity limit and the end condition distance.
func (d *Data) Check(crossTrackThreshold float64) Checks {
	return Checks{
		CrossTrackError: geometry.IsFloatLessOrEqual(d.AverageAbsCrossTrackError(), crossTrackThreshold),
		AngularVelocity: geometry.IsFloatLessOrEqual(d.MaxAngularVelocity(), d.Vehicle.MaxAngularVelocity),
		EndDistance:     geometry.IsFloatLessOrEqual(d.EndPointDistance(), d.EndConditionDistance),
	}
}

func verdict(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

// ResultText formats the run summary for the terminal. The average
// velocity is shown in m/s and, unless speedUnit is units.MPS, also in
// speedUnit.
func (d *Data) ResultText(crossTrackThreshold float64, speedUnit string) string {
	s := d.Summarize()
	c := d.Check(crossTrackThreshold)

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, "  > "+format+"\n", args...)
	}

	b.WriteString("> Results:\n")
	line("---")
	line("Path length: %.3f m", s.PathLength)
	line("Average waypoint angle: %.1f deg (%.3f rad)", s.AverageWaypointAngle, geometry.Radians(s.AverageWaypointAngle))
	line("---")
	line("Steps: %d", s.Steps)
	line("Runtime: %.3f s", s.Runtime)
	line("Average step calculation time: %.3f ms", float64(s.AverageStepTime)/float64(time.Millisecond))
	line("---")
	line("Average absolute cross track error: %.3f m [%s <= %.3f m]", s.AverageAbsCrossTrackError, verdict(c.CrossTrackError), crossTrackThreshold)
	if units.SpeedLabel(speedUnit) == units.SpeedLabel(units.MPS) {
		line("Average velocity: %s", units.FormatSpeed(s.AverageVelocity, units.MPS))
	} else {
		line("Average velocity: %s (%s)", units.FormatSpeed(s.AverageVelocity, units.MPS), units.FormatSpeed(s.AverageVelocity, speedUnit))
	}
	line("Max angular speed: %.3f rad/s [%s <= %.3f rad/s]", s.MaxAngularVelocity, verdict(c.AngularVelocity), d.Vehicle.MaxAngularVelocity)
	line("Ending distance: %.3f m [%s <= %.3f m]", s.EndPointDistance, verdict(c.EndDistance), d.EndConditionDistance)
	b.WriteString("  > ---")

	return b.String()
}
