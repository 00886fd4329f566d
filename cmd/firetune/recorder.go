package main

import (
	"encoding/csv"
	"io"
	"log/slog"
	"math"
	"strconv"
	"sync"

	"github.com/pthm-cable/fire/telemetry"
)

// recorder logs every evaluation as a CSV row and remembers the best one.
// The optimizer may call the objective from several goroutines.
type recorder struct {
	log    *slog.Logger
	params *ParamVector
	eval   *FitnessEvaluator

	mu    sync.Mutex
	w     *csv.Writer
	evals int
	best  evaluation
}

type evaluation struct {
	fitness float64
	values  []float64 // clamped raw parameter values
	stats   telemetry.StepStats
}

func newRecorder(w io.Writer, log *slog.Logger, params *ParamVector, eval *FitnessEvaluator) (*recorder, error) {
	r := &recorder{
		log:    log,
		params: params,
		eval:   eval,
		w:      csv.NewWriter(w),
		best:   evaluation{fitness: math.Inf(1)},
	}
	header := []string{"eval", "fitness", "plume_height", "max_speed"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := r.w.Write(header); err != nil {
		return nil, err
	}
	r.w.Flush()
	return r, r.w.Error()
}

// objective evaluates a normalized point. It is the optimizer's Func.
func (r *recorder) objective(x []float64) float64 {
	values := r.params.Clamp(r.params.Denormalize(x))
	fit, st := r.eval.Evaluate(values)
	r.record(evaluation{fitness: fit, values: values, stats: st})
	return fit
}

func (r *recorder) record(e evaluation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evals++
	if e.fitness < r.best.fitness {
		r.best = e
	}

	row := []string{
		strconv.Itoa(r.evals),
		strconv.FormatFloat(e.fitness, 'f', 6, 64),
		strconv.FormatFloat(e.stats.PlumeHeight, 'f', 4, 64),
		strconv.FormatFloat(e.stats.MaxSpeed, 'f', 4, 64),
	}
	for _, v := range e.values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	r.w.Write(row)
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		r.log.Warn("tune log write failed", "error", err)
	}

	r.log.Info("evaluation",
		"n", r.evals,
		"fitness", e.fitness,
		"best", r.best.fitness,
		"plume_height", e.stats.PlumeHeight,
		"max_speed", e.stats.MaxSpeed,
	)
}

// Best returns the best evaluation so far and whether one exists.
func (r *recorder) Best() (evaluation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.best, r.best.values != nil
}

// Evals returns the number of completed evaluations.
func (r *recorder) Evals() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evals
}
