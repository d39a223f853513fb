package pursuit

import (
	"fmt"
	"math"

	"github.com/banshee-data/purepursuit/internal/geometry"
	"github.com/banshee-data/purepursuit/internal/path"
	"github.com/banshee-data/purepursuit/internal/vehicle"
)

// Step advances the controller by one update. It returns the state to carry
// into the next call and the wheel command for this one. Step does not
// modify s; the target point in the returned state is freshly allocated.
func Step(cfg Config, veh vehicle.Vehicle, p *path.Path, s State, pose vehicle.Pose, dt float64) (State, vehicle.Command) {
	next := s

	next.LookAheadDistance = lookAheadDistance(cfg, veh, p, s.CheckpointIndex, pose)

	checkpoint, target := nextTargetPoint(p, pose, s.CheckpointIndex, s.TargetPoint, next.LookAheadDistance)
	next.CheckpointIndex = checkpoint
	next.TargetPoint = &target

	next.ReferenceIndex, next.ReferencePoint = nextReferencePoint(p, pose, s.ReferenceIndex, s.ReferencePoint, checkpoint)
	next.CrossTrackError = geometry.SignedDistanceToLine(pose.Position, p.Segment(next.ReferenceIndex))

	targetVelocity := target.TargetVelocity
	if checkpoint >= p.LastIndex()-1 {
		var complete bool
		var remaining float64
		targetVelocity, complete, remaining = endConditions(cfg, p, pose, target, s.PreviousDistanceRemaining, dt)
		next.PathComplete = complete
		next.PreviousDistanceRemaining = remaining
	}

	next.Curvature = signedCurvature(pose, target, s.Curvature)

	if next.PathComplete {
		return next, vehicle.Command{}
	}
	return next, command(veh, pose, next.Curvature, targetVelocity, dt)
}

// endConditions decides whether the run is finished and, if not, the
// velocity for the final approach.
func endConditions(cfg Config, p *path.Path, pose vehicle.Pose, target path.TargetPoint, previousRemaining, dt float64) (targetVelocity float64, complete bool, remaining float64) {
	remaining = geometry.Distance(pose.Position, p.End())

	switch {
	case remaining < cfg.EndConditionDistance:
		return 0, true, remaining
	case geometry.AreEqual(target, p.End()) && remaining > previousRemaining:
		// Passed the goal without getting inside the end condition.
		return 0, true, remaining
	}

	deceleration := -pose.Velocity * pose.Velocity / (2 * remaining)
	return max(pose.Velocity+deceleration*dt, cfg.FinalApproachVelocity), false, remaining
}

// signedCurvature is the curvature of the arc from pose to target. Positive
// values turn right. When the target sits on the vehicle the arc is
// undefined and previous is returned.
func signedCurvature(pose vehicle.Pose, target path.TargetPoint, previous float64) float64 {
	d := geometry.Distance(pose.Position, target)
	if d*d <= geometry.Tolerance {
		return previous
	}
	offset := geometry.SignedDistanceToRay(target, pose.Position, pose.Heading)
	return 2 * offset / (d * d)
}

// command turns a curvature and target velocity into wheel speeds within
// the vehicle's velocity and acceleration limits.
func command(veh vehicle.Vehicle, pose vehicle.Pose, curvature, targetVelocity, dt float64) vehicle.Command {
	curvatureLimited := veh.MaxVelocity
	if curvature != 0 {
		curvatureLimited = veh.MaxAngularVelocity / math.Abs(curvature)
	}
	v := limitVelocity(veh, pose, min(targetVelocity, curvatureLimited), dt)

	right := 0.5 * v * (2 - veh.TrackWidth*curvature)
	left := 0.5 * v * (2 + veh.TrackWidth*curvature)
	omega := limitAngularVelocity(veh, pose, (right-left)/veh.TrackWidth, dt)

	return veh.WheelAngularVelocities(vehicle.Pose{Velocity: v, AngularVelocity: omega})
}

func limitVelocity(veh vehicle.Vehicle, pose vehicle.Pose, target, dt float64) float64 {
	v := geometry.Clamp(target, 0, veh.MaxVelocity)
	step := veh.MaxAcceleration * dt
	return pose.Velocity + geometry.Clamp(v-pose.Velocity, -step, step)
}

func limitAngularVelocity(veh vehicle.Vehicle, pose vehicle.Pose, target, dt float64) float64 {
	omega := geometry.Clamp(target, -veh.MaxAngularVelocity, veh.MaxAngularVelocity)
	step := veh.MaxAngularAcceleration * dt
	return pose.AngularVelocity + geometry.Clamp(omega-pose.AngularVelocity, -step, step)
}

// Controller tracks a single path. It is not safe for concurrent use; run
// one Controller per goroutine.
type Controller struct {
	cfg     Config
	vehicle vehicle.Vehicle
	path    *path.Path
	state   State
}

// New returns a controller positioned at the start of p.
func New(cfg Config, veh vehicle.Vehicle, p *path.Path) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pure pursuit config: %w", err)
	}
	if err := veh.Validate(); err != nil {
		return nil, fmt.Errorf("vehicle: %w", err)
	}
	if p == nil {
		return nil, path.ErrInvalidPath
	}
	return &Controller{
		cfg:     cfg,
		vehicle: veh,
		path:    p,
		state:   NewState(cfg, p),
	}, nil
}

// Update runs one control step for pose and returns the wheel command.
func (c *Controller) Update(pose vehicle.Pose, dt float64) vehicle.Command {
	var cmd vehicle.Command
	c.state, cmd = Step(c.cfg, c.vehicle, c.path, c.state, pose, dt)
	return cmd
}

// State returns a copy of the controller state after the last update.
func (c *Controller) State() State {
	s := c.state
	if s.TargetPoint != nil {
		tp := *s.TargetPoint
		s.TargetPoint = &tp
	}
	return s
}

// IsPathComplete reports whether the end of the path has been reached.
func (c *Controller) IsPathComplete() bool { return c.state.PathComplete }

// Path returns the path being tracked.
func (c *Controller) Path() *path.Path { return c.path }

// Vehicle returns the vehicle limits the controller commands against.
func (c *Controller) Vehicle() vehicle.Vehicle { return c.vehicle }

// Config returns the controller tuning.
func (c *Controller) Config() Config { return c.cfg }
