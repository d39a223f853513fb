package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/purepursuit/internal/fsutil"
	"github.com/banshee-data/purepursuit/internal/monitoring"
	"github.com/banshee-data/purepursuit/internal/storage/sqlite"
	"github.com/banshee-data/purepursuit/internal/units"
)

func setupFS(t *testing.T) (*fsutil.MemoryFileSystem, options) {
	t.Helper()
	fsys := fsutil.NewMemoryFileSystem()
	files := map[string]string{
		"config/robot.json":        `{"wheel_radius": 0.1, "track_width": 0.5, "length": 0.6, "max_velocity": 1.0, "max_acceleration": 0.5, "max_angular_velocity": 1.5, "max_angular_acceleration": 3.0}`,
		"config/pure_pursuit.json": `{"min_look_ahead_distance": 0.5, "max_look_ahead_distance": 1.5, "angle_velocity_parameter": 0.5, "final_approach_velocity": 0.2, "end_condition_distance": 0.1}`,
		"config/simulation.json":   `{"control_frequency": 20.0, "avg_abs_cross_track_error_threshold": 0.1, "max_steps": 20000}`,
		"paths/straight.json":      `[{"x": 0, "y": 0}, {"x": 5, "y": 0}]`,
		"paths/l-shape.json":       `[{"x": 0, "y": 0}, {"x": 4, "y": 0}, {"x": 4, "y": 5}]`,
	}
	for name, content := range files {
		require.NoError(t, fsys.WriteFile(name, []byte(content), 0o644))
	}
	return fsys, options{
		Files:             []string{"paths/straight.json", "paths/l-shape.json"},
		SimulationConfig:  "config/simulation.json",
		RobotConfig:       "config/robot.json",
		PurePursuitConfig: "config/pure_pursuit.json",
		Workers:           2,
		MaxSteps:          -1,
		SpeedUnit:         units.MPS,
	}
}

func TestRun_Table(t *testing.T) {
	_, restore := monitoring.Record()
	defer restore()

	fsys, opts := setupFS(t)
	var out bytes.Buffer
	_, err := run(context.Background(), opts, fsys, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "PATH")
	assert.Contains(t, text, "AVG V (m/s)")
	assert.Contains(t, text, "straight")
	assert.Contains(t, text, "l-shape")
	assert.Contains(t, text, "/2 passed")
	// Sorted by file name.
	assert.Less(t, bytes.Index(out.Bytes(), []byte("l-shape")), bytes.Index(out.Bytes(), []byte("straight")))
}

func TestRun_BudgetFailures(t *testing.T) {
	_, restore := monitoring.Record()
	defer restore()

	fsys, opts := setupFS(t)
	opts.MaxSteps = 5
	opts.DBPath = filepath.Join(t.TempDir(), "runs.db")
	var out bytes.Buffer
	failed, err := run(context.Background(), opts, fsys, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, failed)
	assert.Contains(t, out.String(), "0/2 passed")

	db, err := sqlite.Open(opts.DBPath)
	require.NoError(t, err)
	defer db.Close()
	runs, err := sqlite.NewRunStore(db).List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.False(t, r.Passed)
		assert.NotEmpty(t, r.Error)
	}
}

func TestRun_InvalidPath(t *testing.T) {
	fsys, opts := setupFS(t)
	require.NoError(t, fsys.WriteFile("paths/bad.json", []byte(`[{"x": 0, "y": 0}, {"x": 0, "y": 0}]`), 0o644))
	opts.Files = append(opts.Files, "paths/bad.json")

	_, err := run(context.Background(), opts, fsys, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid path")
}

func TestRun_SpeedUnits(t *testing.T) {
	_, restore := monitoring.Record()
	defer restore()

	fsys, opts := setupFS(t)
	opts.SpeedUnit = units.KMPH
	var out bytes.Buffer
	_, err := run(context.Background(), opts, fsys, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "AVG V (km/h)")

	opts.SpeedUnit = "knots"
	_, err = run(context.Background(), opts, fsys, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid units")
}

func TestJobName(t *testing.T) {
	assert.Equal(t, "coverage-path-10x10", jobName(filepath.Join("paths", "coverage-path-10x10.json")))
}
