package path

import (
	"fmt"

	"github.com/banshee-data/purepursuit/internal/geometry"
)

// PathPosition is a point in the plane together with its arc length from
// the path start.
type PathPosition struct {
	geometry.Point
	DistanceAlongPath float64 `json:"distance_along_path"`
}

// ReferencePoint is the controller's orthogonal-projection estimate of
// progress along the path.
type ReferencePoint = PathPosition

func (p PathPosition) String() string {
	return fmt.Sprintf("(x: %.3f, y: %.3f, d: %.3f)", p.X, p.Y, p.DistanceAlongPath)
}

// TargetPoint is a pure-pursuit aim point: a path position plus the speed
// the vehicle should be doing when it gets there.
type TargetPoint struct {
	PathPosition
	TargetVelocity float64 `json:"target_velocity"`
}

func (t TargetPoint) String() string {
	return fmt.Sprintf("(x: %.3f, y: %.3f, d: %.3f, v: %.2f)", t.X, t.Y, t.DistanceAlongPath, t.TargetVelocity)
}

// Waypoint is a vertex of the adapted path.
type Waypoint struct {
	PathPosition
	// TurnAngle is the signed angle between the incoming and outgoing
	// segments, zero at both endpoints.
	TurnAngle      float64 `json:"turn_angle"`
	TargetVelocity float64 `json:"target_velocity"`
}

// Target returns the waypoint viewed as a target point.
func (w Waypoint) Target() TargetPoint {
	return TargetPoint{PathPosition: w.PathPosition, TargetVelocity: w.TargetVelocity}
}

func (w Waypoint) String() string {
	return fmt.Sprintf("(x: %.3f, y: %.3f, a: %.1f, d: %.3f, v: %.3f)",
		w.X, w.Y, geometry.Degrees(w.TurnAngle), w.DistanceAlongPath, w.TargetVelocity)
}
