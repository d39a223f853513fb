package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Positioned) float64 {
	return r2.Norm(r2.Sub(q.Position().Vec(), p.Position().Vec()))
}

// AreEqual reports whether p and q coincide within Tolerance on both axes.
func AreEqual(p, q Positioned) bool {
	a, b := p.Position(), q.Position()
	return IsFloatEqual(a.X, b.X) && IsFloatEqual(a.Y, b.Y)
}

// Orientation returns the sign of (point-a) x (b-a): +1 when point is on
// or to the right of the directed line a->b, -1 when it is to the left.
func Orientation(point Positioned, line Segment) float64 {
	a := line.A.Vec()
	cross := r2.Cross(r2.Sub(point.Position().Vec(), a), r2.Sub(line.B.Vec(), a))
	return Sgn(cross)
}

// DistanceToLine returns the perpendicular distance from point to the
// infinite line through line.A and line.B. For a degenerate line the
// distance to line.A is returned.
func DistanceToLine(point Positioned, line Segment) float64 {
	if line.IsDegenerate() {
		return Distance(point, line.A)
	}
	x1, y1 := line.A.X, line.A.Y
	x2, y2 := line.B.X, line.B.Y

	// ax + by + c = 0 with (x2 - x1) distributed so vertical lines need
	// no special case.
	a := -(y2 - y1)
	b := x2 - x1
	c := x1*y2 - x2*y1

	p := point.Position()
	return math.Abs(a*p.X+b*p.Y+c) / math.Hypot(a, b)
}

// SignedDistanceToLine is DistanceToLine carrying the sign of Orientation.
func SignedDistanceToLine(point Positioned, line Segment) float64 {
	return Orientation(point, line) * DistanceToLine(point, line)
}

// PointOnRay returns the point one metre from start along heading.
func PointOnRay(start Positioned, heading float64) Point {
	s := start.Position()
	return Point{X: s.X + math.Cos(heading), Y: s.Y + math.Sin(heading)}
}

// SignedDistanceToRay is SignedDistanceToLine for the line through start
// with direction heading.
func SignedDistanceToRay(point, start Positioned, heading float64) float64 {
	return SignedDistanceToLine(point, Segment{A: start.Position(), B: PointOnRay(start, heading)})
}

// OrthogonalProjection projects point onto the line through seg and
// returns the projection only when it falls on the segment itself
// (proportion in [0, 1] within Tolerance).
func OrthogonalProjection(point Positioned, seg Segment) (Point, bool) {
	a := seg.A.Vec()
	ab := r2.Sub(seg.B.Vec(), a)
	lengthSquared := r2.Norm2(ab)
	if lengthSquared <= Tolerance*Tolerance {
		return Point{}, false
	}

	t := r2.Dot(r2.Sub(point.Position().Vec(), a), ab) / lengthSquared
	if !IsFloatWithin(t, 0, 1) {
		return Point{}, false
	}
	return FromVec(r2.Add(a, r2.Scale(t, ab))), true
}

// SegmentCircleIntersections returns the points where seg crosses the
// circle of the given radius around center. Tangency yields two
// coincident points. Roots outside the segment's bounding box are
// discarded.
func SegmentCircleIntersections(seg Segment, center Positioned, radius float64) []Point {
	c := center.Position().Vec()
	p1 := r2.Sub(seg.A.Vec(), c)
	p2 := r2.Sub(seg.B.Vec(), c)

	d := r2.Sub(p2, p1)
	drSquared := r2.Norm2(d)
	if drSquared <= Tolerance*Tolerance {
		return nil
	}
	det := r2.Cross(p1, p2)

	discriminant := radius*radius*drSquared - det*det
	if discriminant < 0 && !IsFloatEqual(discriminant, 0) {
		return nil
	}
	root := math.Sqrt(max(discriminant, 0))

	candidates := [2]r2.Vec{
		{
			X: (det*d.Y + Sgn(d.Y)*d.X*root) / drSquared,
			Y: (-det*d.X + math.Abs(d.Y)*root) / drSquared,
		},
		{
			X: (det*d.Y - Sgn(d.Y)*d.X*root) / drSquared,
			Y: (-det*d.X - math.Abs(d.Y)*root) / drSquared,
		},
	}

	var out []Point
	for _, v := range candidates {
		p := FromVec(r2.Add(v, c))
		if seg.BoundingBoxContains(p) {
			out = append(out, p)
		}
	}
	return out
}
