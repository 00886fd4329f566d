// Command firetune searches solver parameters with CMA-ES for a plume that
// reaches a target height without running away.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/fire/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	steps := flag.Int("steps", 90, "Steps per simulation run")
	seeds := flag.Int("seeds", 2, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	height := flag.Float64("height", 0, "Target plume height in meters (0 = half the volume)")
	maxSpeed := flag.Float64("max-speed", 5, "Speed above which runs are penalized, m/s (0 = off)")
	resolution := flag.Int("resolution", 8, "Velocity scale used while tuning (0 = use config)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	// Solver warnings are noise at this volume of runs; progress goes to its
	// own logger.
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(log, *configPath, *outputDir, *steps, *seeds, *maxEvals, *population, *resolution, Target{Height: *height, MaxSpeed: *maxSpeed}); err != nil {
		log.Error("tuning failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, configPath, outputDir string, steps, seeds, maxEvals, population, resolution int, target Target) error {
	if outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	base := config.Cfg()
	if resolution > 0 {
		base = base.WithResolution(resolution)
	}
	if target.Height <= 0 {
		target.Height = float64(base.SimulationSize()[1]) / 2
	}

	params := NewParamVector()
	evalSeeds := make([]int64, seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, steps, evalSeeds, base, target)

	logFile, err := os.Create(filepath.Join(outputDir, "tune_log.csv"))
	if err != nil {
		return fmt.Errorf("creating tune log: %w", err)
	}
	defer logFile.Close()
	rec, err := newRecorder(logFile, log, params, evaluator)
	if err != nil {
		return fmt.Errorf("writing tune log header: %w", err)
	}

	if population == 0 {
		population = 4 + 3*params.Dim()/2
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: population}

	log.Info("starting CMA-ES",
		"params", params.Dim(),
		"population", population,
		"max_evals", maxEvals,
		"seeds", seeds,
		"steps", steps,
		"target_height", target.Height,
	)

	start := time.Now()
	result, err := optimize.Minimize(
		optimize.Problem{Func: rec.objective},
		params.Normalize(params.Extract(base)),
		&optimize.Settings{FuncEvaluations: maxEvals},
		method,
	)
	if err != nil {
		log.Warn("optimization ended early", "error", err)
	}

	best, ok := rec.Best()
	if !ok {
		if result == nil {
			return fmt.Errorf("no evaluation completed")
		}
		best.values = params.Clamp(params.Denormalize(result.X))
	}
	log.Info("optimization complete",
		"evals", rec.Evals(),
		"elapsed", time.Since(start).Round(time.Second),
		"fitness", best.fitness,
		"plume_height", best.stats.PlumeHeight,
	)
	for i, spec := range params.Specs {
		log.Info("best parameter", "path", spec.Path, "value", best.values[i])
	}

	// Saved at the base resolution, not the tuning one.
	tuned := params.Apply(config.Cfg(), best.values).WithName("Tuned")
	out := filepath.Join(outputDir, "best_config.yaml")
	if err := tuned.WriteYAML(out); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	log.Info("best config saved", "path", out)
	return nil
}
