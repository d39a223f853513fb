// Package plotting renders simulation results as PNG charts with
// gonum/plot and as interactive HTML with go-echarts.
package plotting

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/purepursuit/internal/fsutil"
	"github.com/banshee-data/purepursuit/internal/monitoring"
	"github.com/banshee-data/purepursuit/internal/simulation"
	"github.com/banshee-data/purepursuit/internal/units"
)

// Chart size for saved PNGs.
const (
	pngWidth  = 10 * vg.Inch
	pngHeight = 6 * vg.Inch
)

// yPadding widens the cross-track axis beyond the extreme errors.
const yPadding = 1.2

var (
	referenceColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	errorColor      = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	pathColor       = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	trajectoryColor = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// CrossTrackPlot plots the cross-track error of every step in
// centimetres against a zero reference line.
func CrossTrackPlot(data *simulation.Data, title string) (*plot.Plot, error) {
	errs := data.CrossTrackErrors()
	if len(errs) == 0 {
		return nil, fmt.Errorf("no states to plot")
	}

	zero := make(plotter.XYs, len(errs))
	pts := make(plotter.XYs, len(errs))
	cm := make([]float64, len(errs))
	for i, e := range errs {
		cm[i] = units.Centimeters(e)
		zero[i] = plotter.XY{X: float64(i), Y: 0}
		pts[i] = plotter.XY{X: float64(i), Y: cm[i]}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Error (cm)"

	zeroLine, err := plotter.NewLine(zero)
	if err != nil {
		return nil, fmt.Errorf("zero line: %w", err)
	}
	zeroLine.Color = referenceColor
	zeroLine.Width = vg.Points(1)

	errLine, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("error line: %w", err)
	}
	errLine.Color = errorColor
	errLine.Width = vg.Points(1)

	p.Add(zeroLine, errLine, plotter.NewGrid())
	p.Legend.Add("cross track error", errLine)
	p.Legend.Top = true

	p.Y.Min, p.Y.Max = paddedRange(floats.Min(cm), floats.Max(cm))
	return p, nil
}

// paddedRange returns axis limits that include zero and leave yPadding
// headroom around the data.
func paddedRange(lo, hi float64) (float64, float64) {
	lo, hi = yPadding*min(lo, 0), yPadding*max(hi, 0)
	if lo == hi {
		return -1, 1
	}
	return lo, hi
}

// TrajectoryPlot draws the path, its waypoints and the driven trajectory
// in metres.
func TrajectoryPlot(data *simulation.Data, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	waypoints := make(plotter.XYs, data.Path.Len())
	for i, pt := range data.Path.Points() {
		waypoints[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	pathLine, pathMarks, err := plotter.NewLinePoints(waypoints)
	if err != nil {
		return nil, fmt.Errorf("path line: %w", err)
	}
	pathLine.Color = pathColor
	pathLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	pathMarks.Shape = draw.CircleGlyph{}
	pathMarks.Color = pathColor

	p.Add(plotter.NewGrid(), pathLine, pathMarks)
	p.Legend.Add("path", pathLine, pathMarks)

	if len(data.States) > 0 {
		driven := make(plotter.XYs, len(data.States))
		for i, s := range data.States {
			driven[i] = plotter.XY{X: s.Pose.Position.X, Y: s.Pose.Position.Y}
		}
		line, err := plotter.NewLine(driven)
		if err != nil {
			return nil, fmt.Errorf("trajectory line: %w", err)
		}
		line.Color = trajectoryColor
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add("trajectory", line)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// SavePNG writes p to file as a PNG.
func SavePNG(fsys fsutil.FileSystem, file string, p *plot.Plot) error {
	w, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", file, err)
	}
	if err := fsys.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	f, err := fsys.Create(file)
	if err != nil {
		return err
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", file, err)
	}
	return f.Close()
}

// SaveGraphs writes the cross-track and trajectory PNGs for a run into dir
// and returns the files written.
func SaveGraphs(fsys fsutil.FileSystem, dir, name string, data *simulation.Data) ([]string, error) {
	crossTrack, err := CrossTrackPlot(data, "Cross Track Errors: "+name)
	if err != nil {
		return nil, err
	}
	trajectory, err := TrajectoryPlot(data, "Trajectory: "+name)
	if err != nil {
		return nil, err
	}

	files := []string{
		filepath.Join(dir, name+"_cross_track.png"),
		filepath.Join(dir, name+"_trajectory.png"),
	}
	for i, p := range []*plot.Plot{crossTrack, trajectory} {
		if err := SavePNG(fsys, files[i], p); err != nil {
			return nil, err
		}
		monitoring.Logf("wrote %s", files[i])
	}
	return files, nil
}
