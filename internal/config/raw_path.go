package config

import (
	"fmt"

	"github.com/banshee-data/purepursuit/internal/fsutil"
	"github.com/banshee-data/purepursuit/internal/geometry"
	"github.com/banshee-data/purepursuit/internal/path"
)

type rawPoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// LoadRawPath loads an ordered array of {"x": .., "y": ..} objects and
// checks it describes a usable path.
func (l Loader) LoadRawPath(file string) ([]geometry.Point, error) {
	var raw []rawPoint
	if err := l.decode(file, &raw); err != nil {
		return nil, err
	}

	points := make([]geometry.Point, len(raw))
	for i, r := range raw {
		if r.X == nil || r.Y == nil {
			return nil, fmt.Errorf("path %s: %w: point %d needs both x and y", file, ErrInvalidConfig, i)
		}
		points[i] = geometry.Point{X: *r.X, Y: *r.Y}
	}

	if err := path.ValidatePoints(points); err != nil {
		return nil, fmt.Errorf("path %s: %w", file, err)
	}
	return points, nil
}

// SaveRawPath writes points in the format LoadRawPath reads.
func SaveRawPath(fsys fsutil.FileSystem, file string, points []geometry.Point) error {
	return fsutil.WriteJSON(fsys, file, points)
}
