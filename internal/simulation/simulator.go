package simulation

import (
	"errors"
	"fmt"

	"github.com/banshee-data/purepursuit/internal/geometry"
	"github.com/banshee-data/purepursuit/internal/monitoring"
	"github.com/banshee-data/purepursuit/internal/path"
	"github.com/banshee-data/purepursuit/internal/pursuit"
	"github.com/banshee-data/purepursuit/internal/timeutil"
	"github.com/banshee-data/purepursuit/internal/vehicle"
)

// ErrStepBudgetExceeded is returned by RunBounded when the controller has
// not finished the path within the allowed number of steps.
var ErrStepBudgetExceeded = errors.New("step budget exceeded before path completion")

// InitialPose places a stationary vehicle on the first waypoint facing
// along the first segment.
func InitialPose(p *path.Path) vehicle.Pose {
	return vehicle.Pose{
		Position: p.Start().Point,
		Heading:  geometry.SegmentAngle(p.At(0), p.At(1)),
	}
}

// Simulator drives one controller around its path. A Simulator runs once;
// build a new one for every run.
type Simulator struct {
	controller *pursuit.Controller
	initial    vehicle.Pose
	dt         float64
	clock      timeutil.Clock
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock sets the clock used to time each step.
func WithClock(c timeutil.Clock) Option {
	return func(s *Simulator) { s.clock = c }
}

// WithInitialPose overrides the starting pose from InitialPose.
func WithInitialPose(p vehicle.Pose) Option {
	return func(s *Simulator) { s.initial = p }
}

// New returns a simulator stepping c every dt seconds.
func New(c *pursuit.Controller, dt float64, opts ...Option) (*Simulator, error) {
	if c == nil {
		return nil, errors.New("simulation: nil controller")
	}
	if !geometry.IsFinite(dt) || dt <= 0 {
		return nil, fmt.Errorf("simulation: dt must be positive, got %v", dt)
	}
	s := &Simulator{
		controller: c,
		initial:    InitialPose(c.Path()),
		dt:         dt,
		clock:      timeutil.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run simulates until the controller reports completion. It does not
// return if the controller never finishes; use RunBounded when the tuning
// is untrusted.
func (s *Simulator) Run() *Data {
	data, _ := s.RunBounded(0)
	return data
}

// RunBounded is Run with at most maxSteps controller updates. A maxSteps
// of zero or less means no bound. When the budget runs out the data
// recorded so far is returned with ErrStepBudgetExceeded.
func (s *Simulator) RunBounded(maxSteps int) (*Data, error) {
	veh := s.controller.Vehicle()
	cfg := s.controller.Config()

	data := &Data{
		Path:                 s.controller.Path(),
		Vehicle:              veh,
		Dt:                   s.dt,
		EndConditionDistance: cfg.EndConditionDistance,
	}

	pose := s.initial
	var cmd *vehicle.Command

	for !s.controller.IsPathComplete() {
		if maxSteps > 0 && len(data.States) >= maxSteps {
			monitoring.Logf("simulation stopped after %d steps, %.3f m from the end",
				len(data.States), geometry.Distance(pose.Position, data.Path.End()))
			return data, fmt.Errorf("%w: %d steps", ErrStepBudgetExceeded, maxSteps)
		}

		start := s.clock.Now()
		pose = vehicle.Propagate(veh, pose, cmd, s.dt)
		next := s.controller.Update(pose, s.dt)
		data.StepTimes = append(data.StepTimes, s.clock.Since(start))

		cmd = &next
		data.States = append(data.States, snapshot(pose, s.controller.State(), next))
	}

	// Bring the vehicle to rest and record where it stopped.
	stop := vehicle.Command{}
	pose = vehicle.Propagate(veh, pose, &stop, s.dt)
	data.States = append(data.States, snapshot(pose, s.controller.State(), stop))

	return data, nil
}

func snapshot(pose vehicle.Pose, st pursuit.State, cmd vehicle.Command) State {
	return State{
		Pose:              pose,
		ReferencePoint:    st.ReferencePoint,
		CrossTrackError:   st.CrossTrackError,
		CheckpointIndex:   st.CheckpointIndex,
		LookAheadDistance: st.LookAheadDistance,
		TargetPoint:       st.TargetPoint,
		Command:           cmd,
	}
}
