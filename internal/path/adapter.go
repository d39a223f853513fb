package path

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/purepursuit/internal/geometry"
)

// ProfileLimits bounds the velocity profile computed by Adapt.
type ProfileLimits struct {
	MaxVelocity     float64
	MaxAcceleration float64
	// AngleVelocityParameter caps the speed at a vertex to
	// AngleVelocityParameter / |turn angle|.
	AngleVelocityParameter float64
}

// Validate checks that every limit is a positive, finite number.
func (l ProfileLimits) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"max_velocity", l.MaxVelocity},
		{"max_acceleration", l.MaxAcceleration},
		{"angle_velocity_parameter", l.AngleVelocityParameter},
	} {
		if !geometry.IsFinite(f.v) || f.v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", f.name, f.v)
		}
	}
	return nil
}

// ValidatePoints checks a raw polyline before adaptation.
func ValidatePoints(points []geometry.Point) error {
	if len(points) < 2 {
		return ErrTooFewPoints
	}
	var errs []error
	for i, p := range points {
		if !p.IsFinite() {
			errs = append(errs, fmt.Errorf("point %d: %w", i, ErrNonFinitePoint))
			continue
		}
		if i > 0 && geometry.AreEqual(points[i-1], p) {
			errs = append(errs, fmt.Errorf("points %d and %d: %w", i-1, i, ErrDegenerateSegment))
		}
	}
	return errors.Join(errs...)
}

// Adapt converts raw points into a Path with a feasible velocity profile.
//
// A forward pass computes the turn angle and cumulative distance of every
// point and limits each interior velocity by the angle cap and by what is
// reachable accelerating from the previous point. A backward pass then
// limits each velocity so the vehicle can still decelerate to the next
// point.
func Adapt(points []geometry.Point, limits ProfileLimits) (*Path, error) {
	if err := ValidatePoints(points); err != nil {
		return nil, err
	}
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("profile limits: %w", err)
	}

	last := len(points) - 1
	waypoints := make([]Waypoint, len(points))
	distance := 0.0

	for i, p := range points {
		w := Waypoint{PathPosition: PathPosition{Point: p}}
		if i > 0 {
			segmentLength := geometry.Distance(points[i-1], p)
			distance += segmentLength

			if i < last {
				w.TurnAngle = geometry.AngleBetween(
					geometry.Seg(points[i-1], p),
					geometry.Seg(p, points[i+1]),
				)

				angleLimited := limits.MaxVelocity
				if !geometry.IsFloatEqual(w.TurnAngle, 0) {
					angleLimited = min(limits.MaxVelocity, limits.AngleVelocityParameter/math.Abs(w.TurnAngle))
				}
				prevVelocity := waypoints[i-1].TargetVelocity
				accelerationLimited := math.Sqrt(prevVelocity*prevVelocity + 2*limits.MaxAcceleration*segmentLength)

				w.TargetVelocity = min(angleLimited, accelerationLimited)
			}
		}
		w.DistanceAlongPath = distance
		waypoints[i] = w
	}

	for i := last - 1; i >= 1; i-- {
		segmentLength := waypoints[i+1].DistanceAlongPath - waypoints[i].DistanceAlongPath
		next := waypoints[i+1].TargetVelocity
		decelerationLimited := math.Sqrt(next*next + 2*limits.MaxAcceleration*segmentLength)
		waypoints[i].TargetVelocity = min(waypoints[i].TargetVelocity, decelerationLimited)
	}

	return New(waypoints)
}
