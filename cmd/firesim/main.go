// Command firesim runs the smoke solver headless, logging stats and writing
// CSV telemetry and density slices.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/fire/config"
	"github.com/pthm-cable/fire/sim"
	"github.com/pthm-cable/fire/telemetry"
)

// maxConsecutiveFailures bounds how long a run keeps retrying failing steps.
const maxConsecutiveFailures = 5

var errGaveUp = errors.New("repeated step failures")

type options struct {
	configPath string
	preset     string
	source     string
	boundary   string
	seed       int64
	maxSteps   int
	outputDir  string
	logStats   bool
	statsEvery int
	sliceEvery int
}

func main() {
	var opts options
	// CLI flags
	flag.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.StringVar(&opts.preset, "preset", "", "Built-in preset: default, few-iterations or example (overrides -config)")
	flag.StringVar(&opts.source, "source", "", "Emitter shape override, e.g. sphere, cube or cone")
	flag.StringVar(&opts.boundary, "boundary", "", "Boundary mode override: none or some")
	flag.IntVar(&opts.maxSteps, "max-steps", 300, "Stop after N steps (0 = unlimited)")
	flag.StringVar(&opts.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	flag.Int64Var(&opts.seed, "seed", 0, "Noise and wind seed (0 = use config)")
	flag.BoolVar(&opts.logStats, "log-stats", false, "Output stats via slog")
	flag.IntVar(&opts.statsEvery, "stats-every", 30, "Steps between stats records")
	flag.IntVar(&opts.sliceEvery, "slice-every", 0, "Steps between density slice PNGs (0 = off, needs -output-dir)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(opts); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// run owns every resource it opens so they are closed before main exits.
func run(opts options) error {
	settings, err := loadSettings(opts.configPath, opts.preset)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settings, err = applyOverrides(settings, opts)
	if err != nil {
		return err
	}

	out, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	every := max(opts.statsEvery, 1)
	s := sim.NewWithOptions(sim.Options{PerfWindow: every})
	if err := s.Init(settings); err != nil {
		return fmt.Errorf("initializing simulator: %w", err)
	}
	if err := out.WriteConfig(s.Settings()); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	st := s.Settings()
	slog.Info("starting headless simulation",
		"preset", st.Name,
		"source", st.SourceType,
		"boundary", st.Boundary,
		"seed", st.Seed,
		"velocity_voxel_m", st.VoxelSize(config.Velocity),
		"substance_voxel_m", st.VoxelSize(config.Substance),
		"max_steps", opts.maxSteps,
		"stats_every", every,
	)

	start := time.Now()
	failures := 0
	for opts.maxSteps == 0 || s.Step() < opts.maxSteps {
		frame, err := s.Update()
		if err != nil {
			failures++
			if failures >= maxConsecutiveFailures {
				return fmt.Errorf("%w at step %d: %w", errGaveUp, s.Step(), err)
			}
			continue
		}
		failures = 0

		step := frame.Step
		if step%every == 0 {
			stats := s.Stats()
			perf := s.Perf()
			if opts.logStats {
				stats.LogStats()
				perf.LogStats()
			}
			if err := out.WriteStep(stats); err != nil {
				slog.Error("failed to write step stats", "error", err)
			}
			if err := out.WritePerf(perf, step); err != nil {
				slog.Error("failed to write perf stats", "error", err)
			}
		}
		if opts.sliceEvery > 0 && out != nil && step%opts.sliceEvery == 0 {
			if err := writeSlice(out.Dir(), frame); err != nil {
				slog.Error("failed to write slice", "step", step, "error", err)
			}
		}
	}

	slog.Info("max steps reached",
		"step", s.Step(),
		"sim_time", s.Time(),
		"failed_steps", s.Perf().FailedSteps,
		"elapsed", time.Since(start).String(),
	)
	return nil
}

func loadSettings(path, preset string) (config.Settings, error) {
	switch preset {
	case "":
	case "default":
		return config.Default(), nil
	case "few-iterations":
		return config.FewIterations(), nil
	case "example":
		return config.Example(), nil
	default:
		slog.Warn("unknown preset, using config", "preset", preset)
	}
	if err := config.Init(path); err != nil {
		return config.Settings{}, err
	}
	return config.Cfg(), nil
}

// applyOverrides applies the command-line overrides on top of s.
func applyOverrides(s config.Settings, opts options) (config.Settings, error) {
	if opts.source != "" {
		t, err := config.ParseSourceType(opts.source)
		if err != nil {
			return s, err
		}
		s = s.WithSourceType(t)
	}
	if opts.boundary != "" {
		b, err := config.ParseBoundaryType(opts.boundary)
		if err != nil {
			return s, err
		}
		s = s.WithBoundaryType(b)
	}
	if opts.seed != 0 {
		s = s.WithSeed(opts.seed)
	}
	return s, nil
}
