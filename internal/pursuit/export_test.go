package pursuit

// Internal steps of the control law, exported for the external tests.
var (
	LookAheadDistance  = lookAheadDistance
	NextTargetPoint    = nextTargetPoint
	IntersectionTarget = intersectionTarget
	NextReferencePoint = nextReferencePoint
	SignedCurvature    = signedCurvature
	WheelCommand       = command
)
