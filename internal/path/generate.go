package path

import (
	"math"
	"math/rand/v2"

	"github.com/banshee-data/purepursuit/internal/geometry"
)

// RandomOptions configures GenerateRandom.
type RandomOptions struct {
	NumPoints     int
	MinDistance   float64 // metres between consecutive points
	MaxDistance   float64
	MaxAngleDelta float64 // radians of heading change per step
}

// DefaultRandomOptions returns 16 points spaced 0.3-2.0 m apart with at
// most 108 degrees of heading change per step.
func DefaultRandomOptions() RandomOptions {
	return RandomOptions{
		NumPoints:     16,
		MinDistance:   0.3,
		MaxDistance:   2.0,
		MaxAngleDelta: geometry.Radians(108),
	}
}

// GenerateRandom returns a random polyline starting at the origin. The
// same rng state always produces the same path.
func GenerateRandom(rng *rand.Rand, opts RandomOptions) []geometry.Point {
	between := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

	points := []geometry.Point{{}}
	for i := 1; i < opts.NumPoints; i++ {
		prev := points[i-1]

		var theta float64
		if i < 2 {
			theta = between(0, 2*math.Pi)
		} else {
			theta = geometry.SegmentAngle(points[i-2], prev) + between(-opts.MaxAngleDelta, opts.MaxAngleDelta)
		}

		radius := between(opts.MinDistance, opts.MaxDistance)
		points = append(points, geometry.Point{
			X: prev.X + radius*math.Cos(theta),
			Y: prev.Y + radius*math.Sin(theta),
		})
	}
	return points
}

// Coverage stripe geometry used by GenerateCoverage.
const (
	CoverageStripeWidth     = 0.5
	CoverageWaypointSpacing = 2.0
)

// GenerateCoverage returns a back-and-forth coverage pattern over a
// maxX by maxY rectangle: stripes run along y, CoverageStripeWidth apart,
// with a waypoint every CoverageWaypointSpacing metres.
func GenerateCoverage(maxX, maxY float64) []geometry.Point {
	x, y := 0.0, 0.0
	points := []geometry.Point{{X: x, Y: y}}
	up := true

	for {
		if up {
			for y < maxY {
				y += CoverageWaypointSpacing
				points = append(points, geometry.Point{X: x, Y: y})
			}
		} else {
			for y > 0 {
				y -= CoverageWaypointSpacing
				points = append(points, geometry.Point{X: x, Y: y})
			}
		}

		x += CoverageStripeWidth
		if x >= maxX {
			break
		}
		points = append(points, geometry.Point{X: x, Y: y})
		up = !up
	}
	return points
}
