// Command hvgbuilder is the reference adjacency-cache builder tool from
// spec.md §6: it loads an obstacle polygon set, builds the four-level
// hierarchy, computes level-0 adjacency, and saves the .hvg_adj cache so
// later runs over the same polygon set can skip the expensive build.
//
// Real shapefile/TIFF ingestion is an explicit non-goal of this module
// (spec.md §1) and is treated as an external collaborator; this tool
// accepts a simple JSON polygon-set file in its place (see loadPolygons
// below) so the CLI shape from spec.md §6 still has a runnable loader
// step to time and log.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shipnetsim/hvg/hvg"
	"github.com/shipnetsim/hvg/internal/hvgraph"
)

// builderConfig is the optional -config sidecar: level tolerances for
// the simplification hierarchy, read the way la2go reads its YAML
// service config. Any field left at zero falls back to spec.md §3's
// LEVEL_TOLERANCES default.
type builderConfig struct {
	LevelTolerancesMeters []float64 `yaml:"levelTolerancesMeters"`
}

// polygonFile is the JSON stand-in for a parsed shapefile: one entry per
// obstacle polygon, outer ring first, holes after.
type polygonFile struct {
	Polygons []struct {
		ID    string         `json:"id"`
		Outer [][2]float64   `json:"outer"`
		Holes [][][2]float64 `json:"holes"`
	} `json:"polygons"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("hvgbuilder", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional YAML config overriding level tolerances")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	rest := fs.Args()
	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "usage: hvgbuilder <polygons.json> [output.hvg_adj]")
		return 1
	}
	inputPath := rest[0]
	outputPath := "output.hvg_adj"
	if len(rest) >= 2 {
		outputPath = rest[1]
	}

	log := slog.Default()

	if *configPath != "" {
		if err := applyConfig(*configPath); err != nil {
			log.Error("hvgbuilder: config load failed", "path", *configPath, "err", err)
			return 1
		}
	}

	ctx := context.Background()

	specs, err := timedStep(log, "load polygons", func() ([]hvg.PolygonSpec, error) {
		return loadPolygons(inputPath)
	})
	if err != nil {
		log.Error("hvgbuilder: load polygons failed", "err", err)
		return 1
	}

	hierarchy, err := timedStep(log, "build hierarchy", func() (*hvg.Hierarchy, error) {
		return hvg.BuildHierarchy(ctx, specs, hvg.DefaultHierarchyOptions())
	})
	if err != nil {
		log.Error("hvgbuilder: build hierarchy failed", "err", err)
		return 1
	}

	_, err = timedStep(log, "build level-0 adjacency", func() (struct{}, error) {
		return struct{}{}, hierarchy.BuildLevel0Adjacency(ctx)
	})
	if err != nil {
		log.Error("hvgbuilder: build level-0 adjacency failed", "err", err)
		return 1
	}

	_, err = timedStep(log, "save cache", func() (struct{}, error) {
		return struct{}{}, hierarchy.SaveAdjacencyCache(outputPath)
	})
	if err != nil {
		log.Error("hvgbuilder: save cache failed", "err", err)
		return 1
	}

	return 0
}

// timedStep logs a step's start, runs fn, and logs its completion with
// elapsed duration, matching spec.md §6's "four-step progress log ...
// with elapsed seconds".
func timedStep[T any](log *slog.Logger, name string, fn func() (T, error)) (T, error) {
	log.Info("hvgbuilder: step starting", "step", name)
	started := time.Now()
	result, err := fn()
	elapsed := time.Since(started)
	if err != nil {
		log.Info("hvgbuilder: step failed", "step", name, "elapsedSeconds", elapsed.Seconds())
		return result, err
	}
	log.Info("hvgbuilder: step finished", "step", name, "elapsedSeconds", elapsed.Seconds())
	return result, nil
}

func applyConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var cfg builderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	if len(cfg.LevelTolerancesMeters) == hvgraph.NumLevels {
		copy(hvgraph.LevelTolerances[:], cfg.LevelTolerancesMeters)
	}
	return nil
}

func loadPolygons(path string) ([]hvg.PolygonSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file polygonFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	specs := make([]hvg.PolygonSpec, 0, len(file.Polygons))
	for _, p := range file.Polygons {
		spec := hvg.PolygonSpec{ID: p.ID}
		for _, xy := range p.Outer {
			spec.Outer = append(spec.Outer, hvg.NewPoint(xy[0], xy[1]))
		}
		for _, hole := range p.Holes {
			var ring []hvg.Point
			for _, xy := range hole {
				ring = append(ring, hvg.NewPoint(xy[0], xy[1]))
			}
			spec.Holes = append(spec.Holes, ring)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
