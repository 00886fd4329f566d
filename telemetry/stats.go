package telemetry

import (
	"log/slog"
	"slices"
)

// StepStats summarizes the solver state after one step.
type StepStats struct {
	Step    int     `csv:"step"`
	SimTime float64 `csv:"sim_time"`

	// Substance totals and distribution over the substance interior
	TotalDensity     float64 `csv:"total_density"`
	MaxDensity       float64 `csv:"max_density"`
	DensityP50       float64 `csv:"density_p50"`
	DensityP90       float64 `csv:"density_p90"`
	TotalTemperature float64 `csv:"total_temperature"`
	MaxTemperature   float64 `csv:"max_temperature"`
	PlumeHeight      float64 `csv:"plume_height"` // density-weighted mean height, m

	// Velocity field health
	MaxSpeed      float64 `csv:"max_speed"`      // m/s
	MaxDivergence float64 `csv:"max_divergence"` // per cell, after projection

	WindAngle float64 `csv:"wind_angle"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution returns the sum, max, median and 90th percentile of values.
// values is sorted in place.
func Distribution(values []float64) (sum, hi, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	for _, v := range values {
		sum += v
	}
	slices.Sort(values)
	return sum, values[len(values)-1], Percentile(values, 0.50), Percentile(values, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s StepStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", s.Step),
		slog.Float64("sim_time", s.SimTime),
		slog.Float64("total_density", s.TotalDensity),
		slog.Float64("max_density", s.MaxDensity),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("density_p90", s.DensityP90),
		slog.Float64("total_temperature", s.TotalTemperature),
		slog.Float64("max_temperature", s.MaxTemperature),
		slog.Float64("plume_height", s.PlumeHeight),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("max_divergence", s.MaxDivergence),
		slog.Float64("wind_angle", s.WindAngle),
	)
}

// LogStats logs the step stats using slog.
func (s StepStats) LogStats() {
	slog.Info("stats", "step", s)
}
