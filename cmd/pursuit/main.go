// Command pursuit simulates a differential-drive vehicle tracking a path
// with the pure pursuit controller and reports how well it did.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/banshee-data/purepursuit/internal/batch"
	"github.com/banshee-data/purepursuit/internal/config"
	"github.com/banshee-data/purepursuit/internal/drive"
	"github.com/banshee-data/purepursuit/internal/fsutil"
	"github.com/banshee-data/purepursuit/internal/monitoring"
	"github.com/banshee-data/purepursuit/internal/plotting"
	"github.com/banshee-data/purepursuit/internal/simulation"
	"github.com/banshee-data/purepursuit/internal/storage/sqlite"
	"github.com/banshee-data/purepursuit/internal/timeutil"
	"github.com/banshee-data/purepursuit/internal/units"
	"github.com/banshee-data/purepursuit/internal/version"
)

var (
	pathFile          = flag.String("path", "", "Raw path JSON file (required)")
	simulationConfig  = flag.String("simulation-config", filepath.Join(config.DefaultConfigDir, config.SimulationDefaultsFile), "Simulation config JSON file")
	robotConfig       = flag.String("robot-config", filepath.Join(config.DefaultConfigDir, config.RobotDefaultsFile), "Robot config JSON file")
	purePursuitConfig = flag.String("pure-pursuit-config", filepath.Join(config.DefaultConfigDir, config.PurePursuitDefaultsFile), "Pure pursuit config JSON file")
	outputDir         = flag.String("output", "output", "Directory for results and graphs")
	graphs            = flag.Bool("graphs", false, "Write cross-track error and trajectory PNG graphs")
	html              = flag.Bool("html", false, "Write an interactive HTML report")
	dbPath            = flag.String("db", "", "SQLite database to record the run in (disabled if empty)")
	speedUnits        = flag.String("units", units.KPH, "Speed units for the report ("+units.ValidUnitsString()+")")
	maxSteps          = flag.Int("max-steps", -1, "Step budget; overrides the simulation config when >= 0 (0 = unbounded)")
	quiet             = flag.Bool("quiet", false, "Only print errors")
	serialPort        = flag.String("serial", "", "Stream the wheel commands to this serial port after simulating")
	baudRate          = flag.Int("baud", drive.DefaultBaudRate, "Serial baud rate")
	showVersion       = flag.Bool("version", false, "Print version and exit")
)

// options is the parsed command line.
type options struct {
	PathFile          string
	SimulationConfig  string
	RobotConfig       string
	PurePursuitConfig string
	OutputDir         string
	Graphs            bool
	HTML              bool
	DBPath            string
	SpeedUnit         string
	MaxSteps          int
	Quiet             bool
	SerialPort        string
	Port              drive.PortOptions
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("pursuit"))
		return
	}
	if *pathFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	opts := options{
		PathFile:          *pathFile,
		SimulationConfig:  *simulationConfig,
		RobotConfig:       *robotConfig,
		PurePursuitConfig: *purePursuitConfig,
		OutputDir:         *outputDir,
		Graphs:            *graphs,
		HTML:              *html,
		DBPath:            *dbPath,
		SpeedUnit:         *speedUnits,
		MaxSteps:          *maxSteps,
		Quiet:             *quiet,
		SerialPort:        *serialPort,
		Port:              drive.PortOptions{BaudRate: *baudRate},
	}
	if opts.Quiet {
		monitoring.SetLogger(nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var out io.Writer = os.Stdout
	if opts.Quiet {
		out = io.Discard
	}
	if err := run(ctx, opts, fsutil.OSFileSystem{}, out); err != nil {
		log.Fatalf("pursuit: %v", err)
	}
}

// pathName is the file name of the raw path without its extension.
func pathName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func run(ctx context.Context, opts options, fsys fsutil.FileSystem, out io.Writer) error {
	if !units.IsValid(opts.SpeedUnit) {
		return fmt.Errorf("invalid units %q, want one of: %s", opts.SpeedUnit, units.ValidUnitsString())
	}
	loader := config.Loader{FS: fsys}

	simCfg, err := loader.LoadSimulationConfig(opts.SimulationConfig)
	if err != nil {
		return fmt.Errorf("invalid simulation config: %w", err)
	}
	robotCfg, err := loader.LoadRobotConfig(opts.RobotConfig)
	if err != nil {
		return fmt.Errorf("invalid robot config: %w", err)
	}
	ppCfg, err := loader.LoadPurePursuitConfig(opts.PurePursuitConfig)
	if err != nil {
		return fmt.Errorf("invalid pure pursuit config: %w", err)
	}
	points, err := loader.LoadRawPath(opts.PathFile)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	job := batch.Job{
		Name:       pathName(opts.PathFile),
		Points:     points,
		Vehicle:    robotCfg.Vehicle(),
		Pursuit:    ppCfg.Pursuit(),
		Simulation: simCfg.Simulation(),
	}
	if opts.MaxSteps >= 0 {
		job.Simulation.MaxSteps = opts.MaxSteps
	}

	fmt.Fprintf(out, "> Simulating %s ...\n", job.Name)
	data, runErr := batch.RunJob(job)
	if data == nil {
		return fmt.Errorf("simulate %s: %w", job.Name, runErr)
	}
	if runErr != nil {
		fmt.Fprintf(out, "  > Stopped: %v\n", runErr)
	} else {
		fmt.Fprintln(out, "  > Done")
	}
	threshold := job.Simulation.AvgAbsCrossTrackErrorThreshold
	fmt.Fprintln(out, data.ResultText(threshold, opts.SpeedUnit))

	resultFile := filepath.Join(opts.OutputDir, "results", job.Name+".json")
	fmt.Fprintf(out, "> Saving output to %s ...\n", resultFile)
	if err := fsutil.WriteJSON(fsys, resultFile, data.CrossTrackErrors()); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	fmt.Fprintln(out, "  > Done")

	graphDir := filepath.Join(opts.OutputDir, "graphs")
	if opts.Graphs {
		files, err := plotting.SaveGraphs(fsys, graphDir, job.Name, data)
		if err != nil {
			return fmt.Errorf("write graphs: %w", err)
		}
		fmt.Fprintf(out, "> Graphs: %s\n", strings.Join(files, ", "))
	}
	if opts.HTML {
		file, err := plotting.SaveHTML(fsys, graphDir, job.Name, data)
		if err != nil {
			return fmt.Errorf("write html: %w", err)
		}
		fmt.Fprintf(out, "> Report: %s\n", file)
	}

	if opts.DBPath != "" {
		if err := recordRun(ctx, opts.DBPath, job, data, runErr); err != nil {
			return err
		}
	}

	if opts.SerialPort != "" {
		if runErr != nil {
			return fmt.Errorf("not streaming incomplete run: %w", runErr)
		}
		if err := streamCommands(ctx, opts, data); err != nil {
			return err
		}
	}

	if runErr != nil && !errors.Is(runErr, simulation.ErrStepBudgetExceeded) {
		return runErr
	}
	return nil
}

func recordRun(ctx context.Context, file string, job batch.Job, data *simulation.Data, runErr error) error {
	db, err := sqlite.Open(file)
	if err != nil {
		return fmt.Errorf("open run database: %w", err)
	}
	defer db.Close()

	run, err := sqlite.RunFromData(uuid.New(), job.Name, data, job.Simulation.AvgAbsCrossTrackErrorThreshold, job.Pursuit, runErr)
	if err != nil {
		return err
	}
	if err := sqlite.NewRunStore(db).Insert(ctx, run, data.CrossTrackErrors()); err != nil {
		return err
	}
	log.Printf("recorded run %s in %s", run.RunID, file)
	return nil
}

func streamCommands(ctx context.Context, opts options, data *simulation.Data) error {
	sink, err := drive.OpenSerial(opts.SerialPort, opts.Port)
	if err != nil {
		return err
	}
	defer sink.Close()

	log.Printf("streaming %d commands to %s", len(data.States), opts.SerialPort)
	return drive.Stream(ctx, timeutil.RealClock{}, sink, drive.Commands(data), data.Dt)
}
