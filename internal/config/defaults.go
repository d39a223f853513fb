package config

import (
	"path/filepath"

	"github.com/banshee-data/purepursuit/internal/pursuit"
	"github.com/banshee-data/purepursuit/internal/simulation"
	"github.com/banshee-data/purepursuit/internal/vehicle"
)

// DefaultConfigDir holds the canonical config files, relative to the
// repository root.
const DefaultConfigDir = "config"

// Canonical default file names.
const (
	RobotDefaultsFile       = "robot.defaults.json"
	PurePursuitDefaultsFile = "pure_pursuit.defaults.json"
	SimulationDefaultsFile  = "simulation.defaults.json"
)

// Defaults bundles the three canonical config files.
type Defaults struct {
	Vehicle    vehicle.Vehicle
	Pursuit    pursuit.Config
	Simulation simulation.Config
}

// LoadDefaults loads the canonical configs from dir.
func (l Loader) LoadDefaults(dir string) (Defaults, error) {
	robot, err := l.LoadRobotConfig(filepath.Join(dir, RobotDefaultsFile))
	if err != nil {
		return Defaults{}, err
	}
	pp, err := l.LoadPurePursuitConfig(filepath.Join(dir, PurePursuitDefaultsFile))
	if err != nil {
		return Defaults{}, err
	}
	sim, err := l.LoadSimulationConfig(filepath.Join(dir, SimulationDefaultsFile))
	if err != nil {
		return Defaults{}, err
	}
	return Defaults{Vehicle: robot.Vehicle(), Pursuit: pp.Pursuit(), Simulation: sim.Simulation()}, nil
}

// MustLoadDefaults loads the canonical configs from DefaultConfigDir.
// It searches for the directory in the current directory and common parent directories.
// Panics if the files cannot be loaded, intended for test setup.
func MustLoadDefaults() Defaults {
	candidates := []string{
		DefaultConfigDir,
		"../" + DefaultConfigDir,
		"../../" + DefaultConfigDir,    // from internal/config/
		"../../../" + DefaultConfigDir, // from internal/storage/sqlite/
	}
	for _, dir := range candidates {
		if d, err := defaultLoader.LoadDefaults(dir); err == nil {
			return d
		}
	}
	panic("cannot find " + DefaultConfigDir + "/ defaults - run tests from repository root")
}
