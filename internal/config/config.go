// Package config loads and validates the JSON files describing the robot,
// the pure-pursuit tuning, the simulation settings and raw paths.
//
// Every numeric field is decoded into a pointer so a field missing from
// the file can be told apart from an explicit zero. Missing fields are
// rejected; no defaults are substituted at load time.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/purepursuit/internal/fsutil"
	"github.com/banshee-data/purepursuit/internal/geometry"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// maxFileSize caps config and path files at 1MB.
const maxFileSize = 1 * 1024 * 1024

// Loader reads configuration through a FileSystem.
type Loader struct {
	FS fsutil.FileSystem
}

// defaultLoader reads from disk and backs MustLoadDefaults.
var defaultLoader = Loader{FS: fsutil.OSFileSystem{}}

// decode validates the file path, reads the file and unmarshals it into v.
func (l Loader) decode(path string, v any) error {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := fsutil.ReadFileLimited(l.FS, cleanPath, maxFileSize)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cleanPath, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", cleanPath, err)
	}
	return nil
}

type field struct {
	name  string
	value *float64
}

// requirePositive checks that every field is present, finite and > 0.
func requirePositive(fields ...field) error {
	var errs []error
	for _, f := range fields {
		switch {
		case f.value == nil:
			errs = append(errs, fmt.Errorf("%w: %s is required", ErrInvalidConfig, f.name))
		case !geometry.IsFinite(*f.value) || *f.value <= 0:
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, f.name, *f.value))
		}
	}
	return errors.Join(errs...)
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
