package path

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/purepursuit/internal/geometry"
)

func testLimits() ProfileLimits {
	return ProfileLimits{MaxVelocity: 1.0, MaxAcceleration: 0.5, AngleVelocityParameter: 0.5}
}

// assertProfileFeasible checks the velocity-profile invariants on p.
func assertProfileFeasible(t *testing.T, p *Path, limits ProfileLimits) {
	t.Helper()

	last := p.LastIndex()
	assert.Zero(t, p.Start().TargetVelocity)
	assert.Zero(t, p.End().TargetVelocity)
	assert.Zero(t, p.Start().TurnAngle)
	assert.Zero(t, p.End().TurnAngle)
	assert.Zero(t, p.Start().DistanceAlongPath)

	const eps = 1e-9
	for i := 1; i <= last; i++ {
		prev, cur := p.At(i-1), p.At(i)
		segment := cur.DistanceAlongPath - prev.DistanceAlongPath
		require.Greater(t, segment, 0.0, "distance must increase at %d", i)
		assert.InDelta(t, geometry.Distance(prev, cur), segment, 1e-9)

		assert.LessOrEqual(t, cur.TargetVelocity, limits.MaxVelocity+eps)
		assert.LessOrEqual(t, cur.TargetVelocity*cur.TargetVelocity,
			prev.TargetVelocity*prev.TargetVelocity+2*limits.MaxAcceleration*segment+eps,
			"forward acceleration violated at %d", i)
		assert.LessOrEqual(t, prev.TargetVelocity*prev.TargetVelocity,
			cur.TargetVelocity*cur.TargetVelocity+2*limits.MaxAcceleration*segment+eps,
			"backward deceleration violated at %d", i-1)
	}
}

func TestAdapt(t *testing.T) {
	t.Parallel()

	t.Run("two point path", func(t *testing.T) {
		t.Parallel()
		p, err := Adapt([]geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, testLimits())
		require.NoError(t, err)
		require.Equal(t, 2, p.Len())
		assert.InDelta(t, 10.0, p.TotalDistance(), 1e-12)
		assertProfileFeasible(t, p, testLimits())
	})

	t.Run("long straight line reaches max velocity", func(t *testing.T) {
		t.Parallel()
		var pts []geometry.Point
		for x := 0.0; x <= 20; x += 1 {
			pts = append(pts, geometry.Point{X: x})
		}
		p, err := Adapt(pts, testLimits())
		require.NoError(t, err)
		assertProfileFeasible(t, p, testLimits())
		assert.InDelta(t, 1.0, p.At(10).TargetVelocity, 1e-12)
		// One metre in: sqrt(2 * 0.5 * 1).
		assert.InDelta(t, 1.0, p.At(1).TargetVelocity, 1e-12)
		assert.InDelta(t, 1.0, p.At(p.LastIndex()-1).TargetVelocity, 1e-12)
	})

	t.Run("sharp turn slows vertex", func(t *testing.T) {
		t.Parallel()
		limits := ProfileLimits{MaxVelocity: 2, MaxAcceleration: 10, AngleVelocityParameter: 0.05}
		pts := []geometry.Point{{X: 0}, {X: 5}, {X: 10}, {X: 0, Y: 0.1}, {X: -5, Y: 0.1}}
		p, err := Adapt(pts, limits)
		require.NoError(t, err)
		assertProfileFeasible(t, p, limits)

		vertex := p.At(2)
		assert.Greater(t, math.Abs(vertex.TurnAngle), geometry.Radians(170))
		assert.Less(t, vertex.TargetVelocity, 0.02)
		assert.InDelta(t, limits.AngleVelocityParameter/math.Abs(vertex.TurnAngle), vertex.TargetVelocity, 1e-12)
	})

	t.Run("random paths are feasible", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewPCG(7, 7))
		for range 20 {
			pts := GenerateRandom(rng, DefaultRandomOptions())
			p, err := Adapt(pts, testLimits())
			require.NoError(t, err)
			assertProfileFeasible(t, p, testLimits())
		}
	})

	t.Run("turn angle sign", func(t *testing.T) {
		t.Parallel()
		p, err := Adapt([]geometry.Point{{X: 0}, {X: 1}, {X: 1, Y: 1}}, testLimits())
		require.NoError(t, err)
		assert.InDelta(t, math.Pi/2, p.At(1).TurnAngle, 1e-12)
	})
}

func TestAdaptRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := Adapt([]geometry.Point{{X: 1}}, testLimits())
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = Adapt([]geometry.Point{{X: 0}, {X: 1}, {X: 1}, {X: 2}}, testLimits())
	assert.ErrorIs(t, err, ErrDegenerateSegment)

	_, err = Adapt([]geometry.Point{{X: 0}, {X: math.NaN()}}, testLimits())
	assert.ErrorIs(t, err, ErrNonFinitePoint)

	_, err = Adapt([]geometry.Point{{X: 0}, {X: 1}}, ProfileLimits{MaxVelocity: 1, MaxAcceleration: 0, AngleVelocityParameter: 1})
	assert.Error(t, err)
}

func TestNewValidates(t *testing.T) {
	t.Parallel()

	wp := func(x, d, v float64) Waypoint {
		return Waypoint{PathPosition: PathPosition{Point: geometry.Point{X: x}, DistanceAlongPath: d}, TargetVelocity: v}
	}

	_, err := New([]Waypoint{wp(0, 0, 0), wp(1, 1, 0)})
	assert.NoError(t, err)

	_, err = New([]Waypoint{wp(0, 0, 0), wp(1, 1, 0.5)})
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = New([]Waypoint{wp(0, 0, 0), wp(1, 2, 1), wp(2, 1, 0)})
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestPathIsImmutable(t *testing.T) {
	t.Parallel()

	p, err := Adapt([]geometry.Point{{X: 0}, {X: 1}, {X: 2, Y: 1}}, testLimits())
	require.NoError(t, err)

	before := p.Waypoints()
	w := p.Waypoints()
	w[1].TargetVelocity = 99

	if diff := cmp.Diff(before, p.Waypoints(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("path mutated through Waypoints() (-want +got):\n%s", diff)
	}
}

func TestWaypointTarget(t *testing.T) {
	t.Parallel()

	w := Waypoint{
		PathPosition:   PathPosition{Point: geometry.Point{X: 1, Y: 2}, DistanceAlongPath: 3},
		TurnAngle:      0.2,
		TargetVelocity: 0.7,
	}
	tp := w.Target()
	assert.Equal(t, w.PathPosition, tp.PathPosition)
	assert.Equal(t, 0.7, tp.TargetVelocity)
	assert.True(t, geometry.AreEqual(w, tp))
	assert.Contains(t, w.String(), "a: 11.5")
}

func TestGenerateCoverage(t *testing.T) {
	t.Parallel()

	pts := GenerateCoverage(1, 4)
	want := []geometry.Point{
		{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 0, Y: 4},
		{X: 0.5, Y: 4}, {X: 0.5, Y: 2}, {X: 0.5, Y: 0},
	}
	if diff := cmp.Diff(want, pts); diff != "" {
		t.Errorf("coverage path (-want +got):\n%s", diff)
	}
	assert.NoError(t, ValidatePoints(pts))
}

func TestGenerateRandomIsDeterministic(t *testing.T) {
	t.Parallel()

	a := GenerateRandom(rand.New(rand.NewPCG(1, 1)), DefaultRandomOptions())
	b := GenerateRandom(rand.New(rand.NewPCG(1, 1)), DefaultRandomOptions())
	require.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.Equal(t, geometry.Point{}, a[0])
	for i := 1; i < len(a); i++ {
		d := geometry.Distance(a[i-1], a[i])
		assert.GreaterOrEqual(t, d, 0.3-1e-12)
		assert.LessOrEqual(t, d, 2.0+1e-12)
	}
}
