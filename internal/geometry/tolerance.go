package geometry

import "math"

// Tolerance is the absolute tolerance used for every float comparison in
// the kernel.
const Tolerance = 1e-9

// IsFloatEqual reports whether a and b differ by at most Tolerance.
func IsFloatEqual(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance
}

// IsFloatLessOrEqual reports a <= b within Tolerance.
func IsFloatLessOrEqual(a, b float64) bool {
	return a < b || IsFloatEqual(a, b)
}

// IsFloatGreaterOrEqual reports a >= b within Tolerance.
func IsFloatGreaterOrEqual(a, b float64) bool {
	return a > b || IsFloatEqual(a, b)
}

// IsFloatWithin reports whether v lies in the closed interval [lo, hi],
// with both bounds widened by Tolerance.
func IsFloatWithin(v, lo, hi float64) bool {
	return (lo < v && v < hi) || IsFloatEqual(v, lo) || IsFloatEqual(v, hi)
}

// Sgn returns -1 for negative values and +1 otherwise. Values within
// Tolerance of zero count as positive.
func Sgn(v float64) float64 {
	if v > 0 || IsFloatEqual(v, 0) {
		return 1
	}
	return -1
}

// Clamp constrains v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
