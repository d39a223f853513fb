package vehicle

import "math"

// Propagate advances pose by dt under cmd using forward Euler integration
// of unicycle kinematics. A nil cmd returns pose unchanged; the simulator
// relies on that for its very first step.
func Propagate(v Vehicle, pose Pose, cmd *Command, dt float64) Pose {
	if cmd == nil {
		return pose
	}

	velocity := v.WheelRadius * (cmd.RightWheelAngularVelocity + cmd.LeftWheelAngularVelocity) / 2
	angularVelocity := v.WheelRadius * (cmd.RightWheelAngularVelocity - cmd.LeftWheelAngularVelocity) / v.TrackWidth

	next := pose
	next.Position.X += math.Cos(pose.Heading) * velocity * dt
	next.Position.Y += math.Sin(pose.Heading) * velocity * dt
	next.Heading += angularVelocity * dt
	next.Velocity = velocity
	next.AngularVelocity = angularVelocity
	return next
}
