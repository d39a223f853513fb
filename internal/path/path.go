package path

import (
	"errors"
	"fmt"
	"strings"

	"github.com/banshee-data/purepursuit/internal/geometry"
)

var (
	// ErrTooFewPoints is returned for paths with fewer than two points.
	ErrTooFewPoints = errors.New("path needs at least two points")
	// ErrDegenerateSegment is returned when consecutive points coincide.
	ErrDegenerateSegment = errors.New("path has a zero-length segment")
	// ErrNonFinitePoint is returned for NaN or infinite coordinates.
	ErrNonFinitePoint = errors.New("path has a non-finite coordinate")
	// ErrInvalidPath is returned when waypoints break the path invariants.
	ErrInvalidPath = errors.New("invalid path")
)

// Path is an ordered, immutable sequence of at least two waypoints.
type Path struct {
	waypoints []Waypoint
}

// New builds a Path from waypoints after checking the path invariants:
// at least two waypoints, no zero-length segments, strictly increasing
// arc length, and zero velocity and turn angle at both ends.
func New(waypoints []Waypoint) (*Path, error) {
	if len(waypoints) < 2 {
		return nil, ErrTooFewPoints
	}
	for i, w := range waypoints {
		if !w.Point.IsFinite() || !geometry.IsFinite(w.DistanceAlongPath) || !geometry.IsFinite(w.TargetVelocity) {
			return nil, fmt.Errorf("waypoint %d: %w", i, ErrNonFinitePoint)
		}
		if i == 0 {
			continue
		}
		prev := waypoints[i-1]
		if geometry.AreEqual(prev, w) {
			return nil, fmt.Errorf("waypoints %d and %d: %w", i-1, i, ErrDegenerateSegment)
		}
		if w.DistanceAlongPath <= prev.DistanceAlongPath {
			return nil, fmt.Errorf("%w: distance along path not increasing at waypoint %d", ErrInvalidPath, i)
		}
	}

	start, end := waypoints[0], waypoints[len(waypoints)-1]
	if start.DistanceAlongPath != 0 {
		return nil, fmt.Errorf("%w: start distance %.3f, want 0", ErrInvalidPath, start.DistanceAlongPath)
	}
	if start.TargetVelocity != 0 || end.TargetVelocity != 0 {
		return nil, fmt.Errorf("%w: endpoint target velocities must be zero", ErrInvalidPath)
	}
	if start.TurnAngle != 0 || end.TurnAngle != 0 {
		return nil, fmt.Errorf("%w: endpoint turn angles must be zero", ErrInvalidPath)
	}

	cp := make([]Waypoint, len(waypoints))
	copy(cp, waypoints)
	return &Path{waypoints: cp}, nil
}

// Len returns the number of waypoints.
func (p *Path) Len() int { return len(p.waypoints) }

// LastIndex returns the index of the final waypoint.
func (p *Path) LastIndex() int { return len(p.waypoints) - 1 }

// At returns waypoint i.
func (p *Path) At(i int) Waypoint { return p.waypoints[i] }

// Start returns the first waypoint.
func (p *Path) Start() Waypoint { return p.waypoints[0] }

// End returns the final waypoint.
func (p *Path) End() Waypoint { return p.waypoints[len(p.waypoints)-1] }

// TotalDistance is the arc length of the whole path.
func (p *Path) TotalDistance() float64 { return p.End().DistanceAlongPath }

// Segment returns the segment from waypoint i to waypoint i+1.
func (p *Path) Segment(i int) geometry.Segment {
	return geometry.Seg(p.waypoints[i], p.waypoints[i+1])
}

// Waypoints returns a copy of the waypoints.
func (p *Path) Waypoints() []Waypoint {
	out := make([]Waypoint, len(p.waypoints))
	copy(out, p.waypoints)
	return out
}

// Points returns the waypoint positions.
func (p *Path) Points() []geometry.Point {
	out := make([]geometry.Point, len(p.waypoints))
	for i, w := range p.waypoints {
		out[i] = w.Point
	}
	return out
}

// TurnAngles returns the turn angle of every waypoint.
func (p *Path) TurnAngles() []float64 {
	out := make([]float64, len(p.waypoints))
	for i, w := range p.waypoints {
		out[i] = w.TurnAngle
	}
	return out
}

func (p *Path) String() string {
	var b strings.Builder
	b.WriteString("[\n")
	for _, w := range p.waypoints {
		b.WriteString("  ")
		b.WriteString(w.String())
		b.WriteString(",\n")
	}
	b.WriteString("]")
	return b.String()
}
