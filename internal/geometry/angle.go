package geometry

import "math"

// NormalizeAngle maps angle into (-pi, pi].
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// SegmentAngle returns atan2(b.y-a.y, b.x-a.x).
func SegmentAngle(a, b Positioned) float64 {
	p, q := a.Position(), b.Position()
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

// AngleBetween returns the signed turn from the direction of first to the
// direction of second, normalised into (-pi, pi].
func AngleBetween(first, second Segment) float64 {
	return NormalizeAngle(second.Angle() - first.Angle())
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }
