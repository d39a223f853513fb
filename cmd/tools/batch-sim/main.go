// Command batch-sim simulates every raw path in a directory in parallel
// and prints a pass/fail table.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/banshee-data/purepursuit/internal/batch"
	"github.com/banshee-data/purepursuit/internal/config"
	"github.com/banshee-data/purepursuit/internal/fsutil"
	"github.com/banshee-data/purepursuit/internal/storage/sqlite"
	"github.com/banshee-data/purepursuit/internal/units"
	"github.com/banshee-data/purepursuit/internal/version"
)

type options struct {
	Files             []string
	SimulationConfig  string
	RobotConfig       string
	PurePursuitConfig string
	Workers           int
	MaxSteps          int
	DBPath            string
	SpeedUnit         string
}

func main() {
	dir := flag.String("dir", "paths", "Directory of raw path JSON files")
	simulationConfig := flag.String("simulation-config", filepath.Join(config.DefaultConfigDir, config.SimulationDefaultsFile), "Simulation config JSON file")
	robotConfig := flag.String("robot-config", filepath.Join(config.DefaultConfigDir, config.RobotDefaultsFile), "Robot config JSON file")
	purePursuitConfig := flag.String("pure-pursuit-config", filepath.Join(config.DefaultConfigDir, config.PurePursuitDefaultsFile), "Pure pursuit config JSON file")
	workers := flag.Int("workers", 0, "Parallel simulations (0 = GOMAXPROCS)")
	maxSteps := flag.Int("max-steps", -1, "Step budget per run; overrides the simulation config when >= 0")
	speedUnits := flag.String("units", units.MPS, "Speed units for the velocity column ("+units.ValidUnitsString()+")")
	dbPath := flag.String("db", "", "SQLite database to record runs in (disabled if empty)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("batch-sim"))
		return
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.json"))
	if err != nil {
		log.Fatalf("batch-sim: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("batch-sim: no path files in %s", *dir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := options{
		Files:             files,
		SimulationConfig:  *simulationConfig,
		RobotConfig:       *robotConfig,
		PurePursuitConfig: *purePursuitConfig,
		Workers:           *workers,
		MaxSteps:          *maxSteps,
		DBPath:            *dbPath,
		SpeedUnit:         *speedUnits,
	}
	failed, err := run(ctx, opts, fsutil.OSFileSystem{}, os.Stdout)
	if err != nil {
		log.Fatalf("batch-sim: %v", err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func jobName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// run simulates every file and returns the number of runs that failed.
func run(ctx context.Context, opts options, fsys fsutil.FileSystem, out io.Writer) (int, error) {
	if !units.IsValid(opts.SpeedUnit) {
		return 0, fmt.Errorf("invalid units %q, want one of: %s", opts.SpeedUnit, units.ValidUnitsString())
	}
	loader := config.Loader{FS: fsys}

	simCfg, err := loader.LoadSimulationConfig(opts.SimulationConfig)
	if err != nil {
		return 0, fmt.Errorf("invalid simulation config: %w", err)
	}
	robotCfg, err := loader.LoadRobotConfig(opts.RobotConfig)
	if err != nil {
		return 0, fmt.Errorf("invalid robot config: %w", err)
	}
	ppCfg, err := loader.LoadPurePursuitConfig(opts.PurePursuitConfig)
	if err != nil {
		return 0, fmt.Errorf("invalid pure pursuit config: %w", err)
	}

	sim := simCfg.Simulation()
	if opts.MaxSteps >= 0 {
		sim.MaxSteps = opts.MaxSteps
	}

	files := append([]string(nil), opts.Files...)
	sort.Strings(files)

	var jobs []batch.Job
	for _, f := range files {
		points, err := loader.LoadRawPath(f)
		if err != nil {
			return 0, fmt.Errorf("invalid path: %w", err)
		}
		jobs = append(jobs, batch.Job{
			Name:       jobName(f),
			Points:     points,
			Vehicle:    robotCfg.Vehicle(),
			Pursuit:    ppCfg.Pursuit(),
			Simulation: sim,
		})
	}

	results := batch.Run(ctx, jobs, opts.Workers)
	threshold := sim.AvgAbsCrossTrackErrorThreshold

	failed := 0
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "PATH\tSTEPS\tAVG |CTE| (m)\tAVG V (%s)\tMAX ω (rad/s)\tEND (m)\tRESULT\n", units.SpeedLabel(opts.SpeedUnit))
	for _, r := range results {
		verdict := "PASS"
		if !r.Passed(threshold) {
			verdict = "FAIL"
			failed++
		}
		if r.Data == nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t%s (%v)\n", r.Name, verdict, r.Err)
			continue
		}
		s := r.Data.Summarize()
		if r.Err != nil {
			verdict = fmt.Sprintf("%s (%v)", verdict, r.Err)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%s\n",
			r.Name, s.Steps, s.AverageAbsCrossTrackError, units.ConvertSpeed(s.AverageVelocity, opts.SpeedUnit),
			s.MaxAngularVelocity, s.EndPointDistance, verdict)
	}
	if err := tw.Flush(); err != nil {
		return failed, err
	}
	fmt.Fprintf(out, "> %d/%d passed\n", len(results)-failed, len(results))

	if opts.DBPath != "" {
		if err := record(ctx, opts.DBPath, ppCfg.Pursuit(), threshold, results); err != nil {
			return failed, err
		}
	}
	return failed, nil
}

func record(ctx context.Context, file string, pursuitConfig interface{}, threshold float64, results []batch.Result) error {
	db, err := sqlite.Open(file)
	if err != nil {
		return fmt.Errorf("open run database: %w", err)
	}
	defer db.Close()

	store := sqlite.NewRunStore(db)
	for _, r := range results {
		if r.Data == nil {
			continue
		}
		run, err := sqlite.RunFromData(r.RunID, r.Name, r.Data, threshold, pursuitConfig, r.Err)
		if err != nil {
			return err
		}
		if err := store.Insert(ctx, run, r.Data.CrossTrackErrors()); err != nil {
			return err
		}
	}
	log.Printf("recorded %d runs in %s", len(results), file)
	return nil
}
