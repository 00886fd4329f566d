package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/fire/config"
	"github.com/pthm-cable/fire/sim"
	"github.com/pthm-cable/fire/telemetry"
)

// failedFitness is returned for runs that could not complete.
const failedFitness = 1e6

// Target describes the plume a run should produce.
type Target struct {
	Height   float64 // density-weighted plume height after the run, m
	MaxSpeed float64 // speeds above this are penalized, m/s
}

// FitnessEvaluator runs headless simulations and scores their plumes. It
// holds no per-evaluation state, so Evaluate may be called concurrently.
type FitnessEvaluator struct {
	params *ParamVector
	steps  int
	seeds  []int64
	base   config.Settings
	target Target
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, steps int, seeds []int64, base config.Settings, target Target) *FitnessEvaluator {
	return &FitnessEvaluator{
		params: params,
		steps:  steps,
		seeds:  seeds,
		base:   base,
		target: target,
	}
}

// Evaluate computes fitness for raw parameter values (lower = better),
// averaged over every seed. The returned stats are the first seed's after
// its last step.
func (fe *FitnessEvaluator) Evaluate(x []float64) (float64, telemetry.StepStats) {
	settings := fe.params.Apply(fe.base, x)

	fits := make([]float64, len(fe.seeds))
	stats := make([]telemetry.StepStats, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, seed int64) {
			defer wg.Done()
			st, ok := fe.run(settings.WithSeed(seed))
			stats[idx] = st
			if !ok {
				fits[idx] = failedFitness
				return
			}
			fits[idx] = fe.score(st)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, f := range fits {
		total += f
	}
	return total / float64(len(fits)), stats[0]
}

// run executes one simulation and returns the stats after its last step.
func (fe *FitnessEvaluator) run(s config.Settings) (telemetry.StepStats, bool) {
	solver := sim.New()
	if err := solver.Init(s); err != nil {
		return telemetry.StepStats{}, false
	}
	for solver.Step() < fe.steps {
		if _, err := solver.Update(); err != nil {
			return solver.Stats(), false
		}
	}
	return solver.Stats(), true
}

// score is the squared relative height error plus a penalty for runaway
// speed and for density lost entirely.
func (fe *FitnessEvaluator) score(st telemetry.StepStats) float64 {
	if st.TotalDensity <= 0 || math.IsNaN(st.PlumeHeight) {
		return failedFitness
	}
	e := (st.PlumeHeight - fe.target.Height) / fe.target.Height
	fit := e * e
	if fe.target.MaxSpeed > 0 && st.MaxSpeed > fe.target.MaxSpeed {
		over := (st.MaxSpeed - fe.target.MaxSpeed) / fe.target.MaxSpeed
		fit += over * over
	}
	return fit
}
