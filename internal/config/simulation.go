package config

import (
	"fmt"

	"github.com/banshee-data/purepursuit/internal/simulation"
)

// SimulationConfig is the on-disk simulation settings.
type SimulationConfig struct {
	ControlFrequency               *float64 `json:"control_frequency"`
	AvgAbsCrossTrackErrorThreshold *float64 `json:"avg_abs_cross_track_error_threshold"`
	// MaxSteps is optional; absent or zero leaves runs unbounded.
	MaxSteps *int `json:"max_steps,omitempty"`
}

// SimulationConfigFrom converts c back to its file form.
func SimulationConfigFrom(c simulation.Config) *SimulationConfig {
	out := &SimulationConfig{
		ControlFrequency:               ptrFloat64(c.ControlFrequency),
		AvgAbsCrossTrackErrorThreshold: ptrFloat64(c.AvgAbsCrossTrackErrorThreshold),
	}
	if c.MaxSteps > 0 {
		out.MaxSteps = ptrInt(c.MaxSteps)
	}
	return out
}

// Validate checks the required fields and the optional step budget.
func (c *SimulationConfig) Validate() error {
	if err := requirePositive(
		field{"control_frequency", c.ControlFrequency},
		field{"avg_abs_cross_track_error_threshold", c.AvgAbsCrossTrackErrorThreshold},
	); err != nil {
		return err
	}
	if c.MaxSteps != nil && *c.MaxSteps < 0 {
		return fmt.Errorf("%w: max_steps must not be negative, got %d", ErrInvalidConfig, *c.MaxSteps)
	}
	return nil
}

// Simulation returns the validated settings. Call Validate first.
func (c *SimulationConfig) Simulation() simulation.Config {
	out := simulation.Config{
		ControlFrequency:               *c.ControlFrequency,
		AvgAbsCrossTrackErrorThreshold: *c.AvgAbsCrossTrackErrorThreshold,
	}
	if c.MaxSteps != nil {
		out.MaxSteps = *c.MaxSteps
	}
	return out
}

// LoadSimulationConfig loads and validates a simulation settings file.
func (l Loader) LoadSimulationConfig(path string) (*SimulationConfig, error) {
	cfg := &SimulationConfig{}
	if err := l.decode(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simulation config %s: %w", path, err)
	}
	return cfg, nil
}
