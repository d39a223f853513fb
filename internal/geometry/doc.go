// Package geometry is the 2D kernel shared by the path profiler and the
// pure-pursuit controller: distances, orientation, orthogonal projection,
// segment/circle intersection and angle arithmetic.
//
// Every function is pure. Comparisons against zero or against bounds go
// through the helpers in tolerance.go so that the same absolute tolerance
// is applied at every boundary.
package geometry
