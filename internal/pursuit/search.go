package pursuit

import (
	"math"

	"github.com/banshee-data/purepursuit/internal/geometry"
	"github.com/banshee-data/purepursuit/internal/path"
	"github.com/banshee-data/purepursuit/internal/vehicle"
)

// Scoring weights for reference point candidates. Lower scores win; the
// progress term keeps the estimate on the earlier pass of a path that
// crosses or overlaps itself.
const (
	referenceDistanceWeight = 0.75
	referenceProgressWeight = 0.6
)

// firstSegmentVelocityBlend shapes the target velocity along the first
// segment as t / (a*t + (1-a)) so the vehicle does not crawl off the
// start, where the profile is zero.
const firstSegmentVelocityBlend = 0.9

// lookAheadDistance interpolates between the configured limits by the
// fraction of maximum velocity. Once the checkpoint reaches the final
// segment the velocity term is floored at the penultimate waypoint's
// target velocity so the circle does not collapse while braking.
func lookAheadDistance(cfg Config, veh vehicle.Vehicle, p *path.Path, checkpoint int, pose vehicle.Pose) float64 {
	velocityTerm := pose.Velocity
	if checkpoint >= p.LastIndex()-1 {
		velocityTerm = max(pose.Velocity, p.At(p.LastIndex()-1).TargetVelocity)
	}
	fraction := velocityTerm / veh.MaxVelocity
	return cfg.MinLookAheadDistance + fraction*(cfg.MaxLookAheadDistance-cfg.MinLookAheadDistance)
}

func endTarget(p *path.Path) (int, path.TargetPoint) {
	return p.LastIndex(), p.End().Target()
}

// distanceAlong returns the arc length of a point lying on the segment
// starting at w.
func distanceAlong(w path.Waypoint, pt geometry.Point) float64 {
	return w.DistanceAlongPath + geometry.Distance(w, pt)
}

// nextTargetPoint finds the look-ahead target for pose. The returned
// target never lies behind current along the path.
func nextTargetPoint(p *path.Path, pose vehicle.Pose, checkpoint int, current *path.TargetPoint, radius float64) (int, path.TargetPoint) {
	if checkpoint >= p.LastIndex() {
		return endTarget(p)
	}

	currentDistance := 0.0
	if current != nil {
		currentDistance = current.DistanceAlongPath
	}
	// keep holds the current target. Before the first target exists the
	// checkpoint waypoint stands in for it.
	keep := func() (int, path.TargetPoint) {
		if current != nil {
			return checkpoint, *current
		}
		return checkpoint, p.At(checkpoint).Target()
	}

	// First look on the checkpoint segment, taking intersections in the
	// order the solver returns them.
	start, next := p.At(checkpoint), p.At(checkpoint+1)
	for _, pt := range geometry.SegmentCircleIntersections(p.Segment(checkpoint), pose.Position, radius) {
		if distanceAlong(start, pt) > currentDistance {
			return checkpoint, intersectionTarget(checkpoint, pt, start, next)
		}
	}

	// Otherwise walk forward to the first segment whose far end is outside
	// the look-ahead circle.
	for i := checkpoint + 1; i <= p.LastIndex(); i++ {
		segmentStart, segmentEnd := p.At(i-1), p.At(i)
		if geometry.Distance(pose.Position, segmentEnd) <= radius {
			continue
		}

		intersections := geometry.SegmentCircleIntersections(p.Segment(i-1), pose.Position, radius)
		if len(intersections) == 0 {
			if checkpoint == i-1 {
				// The circle shrank right after crossing a checkpoint; the
				// previous target on this segment is still valid.
				return keep()
			}
			return i - 1, segmentStart.Target()
		}

		best, found := geometry.Point{}, false
		bestDistance := currentDistance
		for _, pt := range intersections {
			if d := distanceAlong(segmentStart, pt); d > bestDistance {
				best, bestDistance, found = pt, d, true
			}
		}
		if !found {
			// Every crossing would move the target backwards.
			return keep()
		}
		return i - 1, intersectionTarget(i-1, best, segmentStart, segmentEnd)
	}

	// Every remaining waypoint is inside the circle.
	return endTarget(p)
}

// intersectionTarget builds a target point at pt on the segment a->b,
// interpolating the target velocity along the segment.
func intersectionTarget(segment int, pt geometry.Point, a, b path.Waypoint) path.TargetPoint {
	along := geometry.Distance(a, pt)
	t := along / (b.DistanceAlongPath - a.DistanceAlongPath)

	scale := t
	if segment == 0 {
		scale = t / (firstSegmentVelocityBlend*t + (1 - firstSegmentVelocityBlend))
	}

	return path.TargetPoint{
		PathPosition: path.PathPosition{
			Point:             pt,
			DistanceAlongPath: a.DistanceAlongPath + along,
		},
		TargetVelocity: a.TargetVelocity + scale*(b.TargetVelocity-a.TargetVelocity),
	}
}

// nextReferencePoint projects pose onto the segments between the last
// reference segment and the checkpoint, keeping only projections that make
// progress, and returns the best scoring one. The previous reference is
// kept when nothing qualifies.
func nextReferencePoint(p *path.Path, pose vehicle.Pose, index int, current path.ReferencePoint, checkpoint int) (int, path.ReferencePoint) {
	bestIndex, best := index, current
	bestScore := math.Inf(1)

	upper := min(checkpoint, p.LastIndex()-1)
	for i := index; i <= upper; i++ {
		projection, ok := geometry.OrthogonalProjection(pose.Position, p.Segment(i))
		if !ok {
			continue
		}
		d := distanceAlong(p.At(i), projection)
		if d <= current.DistanceAlongPath {
			continue
		}

		score := referenceDistanceWeight*geometry.Distance(pose.Position, projection) +
			referenceProgressWeight*d/p.TotalDistance()
		if score < bestScore {
			bestIndex, bestScore = i, score
			best = path.ReferencePoint{Point: projection, DistanceAlongPath: d}
		}
	}
	return bestIndex, best
}
