package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/purepursuit/internal/fsutil"
	"github.com/banshee-data/purepursuit/internal/geometry"
	"github.com/banshee-data/purepursuit/internal/path"
)

func memLoader(t *testing.T, files map[string]string) Loader {
	t.Helper()
	fsys := fsutil.NewMemoryFileSystem()
	for name, body := range files {
		require.NoError(t, fsys.WriteFile(name, []byte(body), 0o644))
	}
	return Loader{FS: fsys}
}

const robotJSON = `{
  "wheel_radius": 0.1, "track_width": 0.5, "length": 0.6,
  "max_velocity": 1.0, "max_acceleration": 0.5,
  "max_angular_velocity": 1.5, "max_angular_acceleration": 3.0
}`

func TestLoadRobotConfig(t *testing.T) {
	t.Parallel()

	l := memLoader(t, map[string]string{
		"robot.json":        robotJSON,
		"missing.json":      `{"wheel_radius": 0.1}`,
		"zero.json":         strings.Replace(robotJSON, `"length": 0.6`, `"length": 0`, 1),
		"broken.json":       `{"wheel_radius": `,
		"robot.yaml":        robotJSON,
		"wrong_type.json":   strings.Replace(robotJSON, `0.1`, `"0.1"`, 1),
		"negative_vel.json": strings.Replace(robotJSON, `"max_velocity": 1.0`, `"max_velocity": -1`, 1),
	})

	cfg, err := l.LoadRobotConfig("robot.json")
	require.NoError(t, err)
	veh := cfg.Vehicle()
	assert.Equal(t, 0.5, veh.TrackWidth)
	assert.Equal(t, 3.0, veh.MaxAngularAcceleration)
	require.NoError(t, veh.Validate())

	_, err = l.LoadRobotConfig("missing.json")
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "track_width is required")
	assert.ErrorContains(t, err, "max_angular_acceleration is required")

	_, err = l.LoadRobotConfig("zero.json")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "length must be positive")

	_, err = l.LoadRobotConfig("negative_vel.json")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = l.LoadRobotConfig("broken.json")
	assert.ErrorContains(t, err, "failed to parse")

	_, err = l.LoadRobotConfig("wrong_type.json")
	assert.ErrorContains(t, err, "failed to parse")

	_, err = l.LoadRobotConfig("robot.yaml")
	assert.ErrorContains(t, err, ".json extension")

	_, err = l.LoadRobotConfig("nope.json")
	assert.ErrorContains(t, err, "failed to read")
}

func TestLoadPurePursuitConfig(t *testing.T) {
	t.Parallel()

	l := memLoader(t, map[string]string{
		"pp.json": `{"min_look_ahead_distance": 0.4, "max_look_ahead_distance": 1.2,
			"angle_velocity_parameter": 0.6, "final_approach_velocity": 0.1, "end_condition_distance": 0.05}`,
		"inverted.json": `{"min_look_ahead_distance": 2, "max_look_ahead_distance": 1,
			"angle_velocity_parameter": 0.6, "final_approach_velocity": 0.1, "end_condition_distance": 0.05}`,
	})

	cfg, err := l.LoadPurePursuitConfig("pp.json")
	require.NoError(t, err)
	pp := cfg.Pursuit()
	assert.Equal(t, 0.4, pp.MinLookAheadDistance)
	assert.Equal(t, 0.05, pp.EndConditionDistance)
	assert.NoError(t, pp.Validate())

	_, err = l.LoadPurePursuitConfig("inverted.json")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "exceeds")
}

func TestLoadSimulationConfig(t *testing.T) {
	t.Parallel()

	l := memLoader(t, map[string]string{
		"sim.json":     `{"control_frequency": 50, "avg_abs_cross_track_error_threshold": 0.05}`,
		"bounded.json": `{"control_frequency": 50, "avg_abs_cross_track_error_threshold": 0.05, "max_steps": 1000}`,
		"neg.json":     `{"control_frequency": 50, "avg_abs_cross_track_error_threshold": 0.05, "max_steps": -1}`,
		"nofreq.json":  `{"avg_abs_cross_track_error_threshold": 0.05}`,
	})

	cfg, err := l.LoadSimulationConfig("sim.json")
	require.NoError(t, err)
	sim := cfg.Simulation()
	assert.InDelta(t, 0.02, sim.Dt(), 1e-12)
	assert.Zero(t, sim.MaxSteps)

	cfg, err = l.LoadSimulationConfig("bounded.json")
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Simulation().MaxSteps)

	_, err = l.LoadSimulationConfig("neg.json")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = l.LoadSimulationConfig("nofreq.json")
	assert.ErrorContains(t, err, "control_frequency is required")
}

func TestLoadRawPath(t *testing.T) {
	t.Parallel()

	l := memLoader(t, map[string]string{
		"square.json":    `[{"x": 0, "y": 0}, {"x": 1, "y": 0}, {"x": 1, "y": 1}]`,
		"single.json":    `[{"x": 0, "y": 0}]`,
		"repeat.json":    `[{"x": 0, "y": 0}, {"x": 0, "y": 0}, {"x": 1, "y": 1}]`,
		"missing_y.json": `[{"x": 0, "y": 0}, {"x": 1}]`,
	})

	points, err := l.LoadRawPath("square.json")
	require.NoError(t, err)
	assert.Equal(t, []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, points)

	_, err = l.LoadRawPath("single.json")
	assert.ErrorIs(t, err, path.ErrTooFewPoints)

	_, err = l.LoadRawPath("repeat.json")
	assert.ErrorIs(t, err, path.ErrDegenerateSegment)

	_, err = l.LoadRawPath("missing_y.json")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSaveRawPathRoundTrip(t *testing.T) {
	t.Parallel()

	fsys := fsutil.NewMemoryFileSystem()
	points := []geometry.Point{{X: 0, Y: 0}, {X: 2.5, Y: -1}}
	require.NoError(t, SaveRawPath(fsys, "paths/line.json", points))

	got, err := Loader{FS: fsys}.LoadRawPath("paths/line.json")
	require.NoError(t, err)
	assert.Equal(t, points, got)
}

func TestLoaderReadsDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fsys := fsutil.OSFileSystem{}
	require.NoError(t, fsys.WriteFile(filepath.Join(dir, "robot.json"), []byte(robotJSON), 0o644))
	require.NoError(t, SaveRawPath(fsys, filepath.Join(dir, "line.json"), []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}))

	l := Loader{FS: fsys}
	cfg, err := l.LoadRobotConfig(filepath.Join(dir, "robot.json"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Vehicle().TrackWidth)

	points, err := l.LoadRawPath(filepath.Join(dir, "line.json"))
	require.NoError(t, err)
	assert.Len(t, points, 2)

	_, err = l.LoadRobotConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestFileSizeLimit(t *testing.T) {
	t.Parallel()

	big := "[" + strings.Repeat(`{"x": 0, "y": 0},`, maxFileSize/16) + `{"x": 1, "y": 1}]`
	l := memLoader(t, map[string]string{"big.json": big})

	_, err := l.LoadRawPath("big.json")
	assert.ErrorContains(t, err, "too large")
}

func TestConfigFromRoundTrip(t *testing.T) {
	t.Parallel()

	d := MustLoadDefaults()
	assert.Equal(t, d.Vehicle, RobotConfigFrom(d.Vehicle).Vehicle())
	assert.Equal(t, d.Pursuit, PurePursuitConfigFrom(d.Pursuit).Pursuit())
	assert.Equal(t, d.Simulation, SimulationConfigFrom(d.Simulation).Simulation())
}

func TestMustLoadDefaults(t *testing.T) {
	t.Parallel()

	d := MustLoadDefaults()
	require.NoError(t, d.Vehicle.Validate())
	require.NoError(t, d.Pursuit.Validate())
	require.NoError(t, d.Simulation.Validate())
	assert.Positive(t, d.Simulation.MaxSteps)
}

func TestValidateJoinsErrors(t *testing.T) {
	t.Parallel()

	err := (&RobotConfig{}).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Equal(t, 7, strings.Count(err.Error(), "is required"))
}
