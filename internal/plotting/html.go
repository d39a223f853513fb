package plotting

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/purepursuit/internal/fsutil"
	"github.com/banshee-data/purepursuit/internal/simulation"
	"github.com/banshee-data/purepursuit/internal/units"
)

// crossTrackChart is the interactive version of CrossTrackPlot.
func crossTrackChart(data *simulation.Data, name string) *charts.Line {
	errs := data.CrossTrackErrors()
	steps := make([]int, len(errs))
	values := make([]opts.LineData, len(errs))
	for i, e := range errs {
		steps[i] = i
		values[i] = opts.LineData{Value: units.Centimeters(e)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Cross Track Errors", Width: "1000px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Cross Track Errors", Subtitle: fmt.Sprintf("path=%s steps=%d", name, len(errs))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Step", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Error (cm)", NameLocation: "middle", NameGap: 40}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)
	line.SetXAxis(steps).AddSeries("cross track error", values,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	return line
}

// trajectoryChart scatters the waypoints and the driven positions.
func trajectoryChart(data *simulation.Data, name string) *charts.Scatter {
	waypoints := make([]opts.ScatterData, 0, data.Path.Len())
	for _, w := range data.Path.Waypoints() {
		waypoints = append(waypoints, opts.ScatterData{
			Name:  w.String(),
			Value: []interface{}{w.X, w.Y},
		})
	}
	driven := make([]opts.ScatterData, 0, len(data.States))
	for _, s := range data.States {
		driven = append(driven, opts.ScatterData{Value: []interface{}{s.Pose.Position.X, s.Pose.Position.Y}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Trajectory", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Trajectory", Subtitle: fmt.Sprintf("path=%s length=%.2fm", name, data.PathLength())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("trajectory", driven, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}))
	scatter.AddSeries("waypoints", waypoints, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	return scatter
}

// RenderHTML writes a page with the cross-track and trajectory charts.
func RenderHTML(w io.Writer, name string, data *simulation.Data) error {
	page := components.NewPage()
	page.SetPageTitle("Pure Pursuit: " + name)
	page.AddCharts(crossTrackChart(data, name), trajectoryChart(data, name))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// SaveHTML writes the HTML report for a run to dir/<name>.html and
// returns the file name.
func SaveHTML(fsys fsutil.FileSystem, dir, name string, data *simulation.Data) (string, error) {
	file := filepath.Join(dir, name+".html")
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := fsys.Create(file)
	if err != nil {
		return "", err
	}
	if err := RenderHTML(f, name, data); err != nil {
		f.Close()
		return "", err
	}
	return file, f.Close()
}
