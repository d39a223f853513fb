// Package batch runs independent simulations in parallel. Every job gets
// its own path, controller and simulator; nothing mutable is shared.
package batch

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/purepursuit/internal/geometry"
	"github.com/banshee-data/purepursuit/internal/monitoring"
	"github.com/banshee-data/purepursuit/internal/path"
	"github.com/banshee-data/purepursuit/internal/pursuit"
	"github.com/banshee-data/purepursuit/internal/simulation"
	"github.com/banshee-data/purepursuit/internal/vehicle"
)

// Job describes one simulation.
type Job struct {
	Name       string
	Points     []geometry.Point
	Vehicle    vehicle.Vehicle
	Pursuit    pursuit.Config
	Simulation simulation.Config
}

// Result is the outcome of one Job. Data may be set alongside Err when a
// run exceeded its step budget.
type Result struct {
	RunID uuid.UUID
	Name  string
	Data  *simulation.Data
	Err   error
}

// Passed reports whether the run finished and met every check.
func (r Result) Passed(crossTrackThreshold float64) bool {
	return r.Err == nil && r.Data != nil && r.Data.Check(crossTrackThreshold).Passed()
}

// RunJob executes a single job synchronously.
func RunJob(job Job) (*simulation.Data, error) {
	if err := job.Simulation.Validate(); err != nil {
		return nil, fmt.Errorf("simulation config: %w", err)
	}

	p, err := path.Adapt(job.Points, path.ProfileLimits{
		MaxVelocity:            job.Vehicle.MaxVelocity,
		MaxAcceleration:        job.Vehicle.MaxAcceleration,
		AngleVelocityParameter: job.Pursuit.AngleVelocityParameter,
	})
	if err != nil {
		return nil, fmt.Errorf("adapt path: %w", err)
	}

	controller, err := pursuit.New(job.Pursuit, job.Vehicle, p)
	if err != nil {
		return nil, err
	}

	sim, err := simulation.New(controller, job.Simulation.Dt())
	if err != nil {
		return nil, err
	}
	return sim.RunBounded(job.Simulation.MaxSteps)
}

// Run executes jobs with at most workers running at once; workers <= 0
// uses GOMAXPROCS. Results are returned in job order. A failing job does
// not stop the others. Cancelling ctx stops new jobs from starting; jobs
// that never started report ctx.Err().
func Run(ctx context.Context, jobs []Job, workers int) []Result {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(jobs))
	for i, job := range jobs {
		results[i] = Result{RunID: uuid.New(), Name: job.Name}
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(jobs); j++ {
				results[j].Err = err
			}
			break
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			data, err := RunJob(job)
			results[i].Data = data
			results[i].Err = err
			if err != nil {
				monitoring.Logf("batch: %s failed: %v", job.Name, err)
			} else {
				monitoring.Logf("batch: %s finished in %d steps", job.Name, data.Steps())
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
