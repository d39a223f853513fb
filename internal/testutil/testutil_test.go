package testutil

import (
	"fmt"
	"testing"

	"github.com/banshee-data/purepursuit/internal/geometry"
)

// recordingT captures failures instead of failing the enclosing test.
type recordingT struct {
	testing.TB
	failures []string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Errorf(format string, args ...interface{}) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func TestFixturesAreValid(t *testing.T) {
	t.Parallel()

	if err := Vehicle().Validate(); err != nil {
		t.Fatalf("Vehicle() invalid: %v", err)
	}
	if err := PursuitConfig().Validate(); err != nil {
		t.Fatalf("PursuitConfig() invalid: %v", err)
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	p := Path(t, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 3, Y: 4})
	if got := p.TotalDistance(); got != 5 {
		t.Errorf("TotalDistance() = %v, want 5", got)
	}
	if got := p.End().TargetVelocity; got != 0 {
		t.Errorf("final target velocity = %v, want 0", got)
	}
}

func TestAssertPointNear(t *testing.T) {
	t.Parallel()

	AssertPointNear(t, geometry.Point{X: 1, Y: 1}, geometry.Point{X: 1, Y: 1.0005}, 1e-3)

	rt := &recordingT{TB: t}
	AssertPointNear(rt, geometry.Point{X: 1, Y: 1}, geometry.Point{X: 2, Y: 1}, 1e-3)
	if len(rt.failures) != 1 {
		t.Fatalf("failures = %v, want one for distant points", rt.failures)
	}
}
