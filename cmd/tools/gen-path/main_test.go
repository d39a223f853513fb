package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/purepursuit/internal/config"
	"github.com/banshee-data/purepursuit/internal/fsutil"
)

func TestGenerate_Random(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	files, err := generate(options{Mode: "random", NumPaths: 3, Seed: 1, OutputDir: "paths"}, fsys, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("paths", "random-path-1.json"),
		filepath.Join("paths", "random-path-2.json"),
		filepath.Join("paths", "random-path-3.json"),
	}, files)

	loader := config.Loader{FS: fsys}
	for _, f := range files {
		points, err := loader.LoadRawPath(f)
		require.NoError(t, err, f)
		assert.Len(t, points, 16)
	}
}

func TestGenerate_RandomIsSeeded(t *testing.T) {
	a, b := fsutil.NewMemoryFileSystem(), fsutil.NewMemoryFileSystem()
	opts := options{Mode: "random", NumPaths: 1, Seed: 7, OutputDir: "out"}
	_, err := generate(opts, a, &bytes.Buffer{})
	require.NoError(t, err)
	_, err = generate(opts, b, &bytes.Buffer{})
	require.NoError(t, err)

	name := filepath.Join("out", "random-path-1.json")
	da, err := a.ReadFile(name)
	require.NoError(t, err)
	db, err := b.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestGenerate_Coverage(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	var out bytes.Buffer
	files, err := generate(options{Mode: "coverage", MaxX: 2, MaxY: 4, OutputDir: "paths"}, fsys, &out)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join("paths", "coverage-path-2x4.json")}, files)
	assert.Contains(t, out.String(), "> Done")

	points, err := config.Loader{FS: fsys}.LoadRawPath(files[0])
	require.NoError(t, err)
	assert.Equal(t, 0.0, points[0].X)
	assert.Equal(t, 0.0, points[0].Y)
}

func TestGenerate_InvalidOptions(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	for name, opts := range map[string]options{
		"unknown mode": {Mode: "spiral"},
		"no paths":     {Mode: "random", NumPaths: 0},
		"empty area":   {Mode: "coverage", MaxX: 0, MaxY: 3},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := generate(opts, fsys, &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
	assert.Empty(t, fsys.Files())
}
