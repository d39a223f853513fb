package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Positioned is satisfied by anything that has a location in the plane.
// The kernel accepts Positioned rather than concrete types so that path
// waypoints, target points and plain points can be mixed freely.
type Positioned interface {
	Position() Point
}

// Point is a location in metres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Position implements Positioned.
func (p Point) Position() Point { return p }

// Vec returns p as a gonum vector.
func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool { return IsFinite(p.X) && IsFinite(p.Y) }

func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}

// FromVec converts a gonum vector back into a Point.
func FromVec(v r2.Vec) Point { return Point{X: v.X, Y: v.Y} }

// Segment is the directed line segment from A to B.
type Segment struct {
	A, B Point
}

// Seg builds a Segment from any two positioned values.
func Seg(a, b Positioned) Segment {
	return Segment{A: a.Position(), B: b.Position()}
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 { return Distance(s.A, s.B) }

// IsDegenerate reports whether the endpoints coincide within Tolerance.
func (s Segment) IsDegenerate() bool { return AreEqual(s.A, s.B) }

// Angle returns the direction of the segment, atan2(dy, dx).
func (s Segment) Angle() float64 { return SegmentAngle(s.A, s.B) }

// BoundingBoxContains reports whether p lies inside the segment's
// axis-aligned bounding box, with Tolerance on every edge.
func (s Segment) BoundingBoxContains(p Point) bool {
	return IsFloatWithin(p.X, min(s.A.X, s.B.X), max(s.A.X, s.B.X)) &&
		IsFloatWithin(p.Y, min(s.A.Y, s.B.Y), max(s.A.Y, s.B.Y))
}
