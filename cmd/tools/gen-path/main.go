// Command gen-path writes raw path files: seeded random polylines or a
// back-and-forth coverage pattern.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/banshee-data/purepursuit/internal/config"
	"github.com/banshee-data/purepursuit/internal/fsutil"
	"github.com/banshee-data/purepursuit/internal/geometry"
	"github.com/banshee-data/purepursuit/internal/path"
	"github.com/banshee-data/purepursuit/internal/version"
)

type options struct {
	Mode      string
	NumPaths  int
	Seed      uint64
	MaxX      float64
	MaxY      float64
	OutputDir string
}

func main() {
	mode := flag.String("mode", "random", "Path kind: random or coverage")
	numPaths := flag.Int("n", 1, "Number of random paths to generate")
	seed := flag.Uint64("seed", 1, "Random seed")
	maxX := flag.Float64("x", 10, "Coverage area width in metres")
	maxY := flag.Float64("y", 10, "Coverage area height in metres")
	outputDir := flag.String("o", "paths", "Output directory")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("gen-path"))
		return
	}

	opts := options{
		Mode:      *mode,
		NumPaths:  *numPaths,
		Seed:      *seed,
		MaxX:      *maxX,
		MaxY:      *maxY,
		OutputDir: *outputDir,
	}
	if _, err := generate(opts, fsutil.OSFileSystem{}, os.Stdout); err != nil {
		log.Fatalf("gen-path: %v", err)
	}
}

// generate writes the requested paths and returns their file names.
func generate(opts options, fsys fsutil.FileSystem, out io.Writer) ([]string, error) {
	var files []string
	write := func(name string, points []geometry.Point) error {
		file := filepath.Join(opts.OutputDir, name+".json")
		fmt.Fprintf(out, "> Saving to '%s'...\n", file)
		if err := config.SaveRawPath(fsys, file, points); err != nil {
			return err
		}
		files = append(files, file)
		return nil
	}

	switch opts.Mode {
	case "random":
		if opts.NumPaths < 1 {
			return nil, fmt.Errorf("number of paths must be at least 1, got %d", opts.NumPaths)
		}
		rng := rand.New(rand.NewPCG(opts.Seed, 0))
		for i := 0; i < opts.NumPaths; i++ {
			points := path.GenerateRandom(rng, path.DefaultRandomOptions())
			if err := write(fmt.Sprintf("random-path-%d", i+1), points); err != nil {
				return nil, err
			}
		}
	case "coverage":
		if opts.MaxX <= 0 || opts.MaxY <= 0 {
			return nil, fmt.Errorf("coverage area must be positive, got %vx%v", opts.MaxX, opts.MaxY)
		}
		points := path.GenerateCoverage(opts.MaxX, opts.MaxY)
		if err := write(fmt.Sprintf("coverage-path-%gx%g", opts.MaxX, opts.MaxY), points); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown mode %q: expected random or coverage", opts.Mode)
	}

	fmt.Fprintln(out, "> Done")
	return files, nil
}
