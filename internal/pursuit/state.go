package pursuit

import (
	"math"

	"github.com/banshee-data/purepursuit/internal/path"
)

// State is everything the controller carries from one update to the next.
type State struct {
	// ReferenceIndex is the segment holding ReferencePoint.
	ReferenceIndex  int
	ReferencePoint  path.ReferencePoint
	CrossTrackError float64

	// CheckpointIndex is the segment searched first for the next target.
	// It never decreases and equals the last waypoint index once the end
	// of the path has been reached.
	CheckpointIndex   int
	LookAheadDistance float64
	// TargetPoint is nil until the first update.
	TargetPoint *path.TargetPoint

	PathComplete              bool
	PreviousDistanceRemaining float64

	// Curvature is the last well-defined curvature, reused when the target
	// coincides with the vehicle.
	Curvature float64
}

// NewState returns the state at the start of p.
func NewState(cfg Config, p *path.Path) State {
	return State{
		ReferencePoint:            p.Start().PathPosition,
		LookAheadDistance:         cfg.MinLookAheadDistance,
		PreviousDistanceRemaining: math.Inf(1),
	}
}
