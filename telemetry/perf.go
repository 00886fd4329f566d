package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one timed section of a solver step.
type Phase int

// Phases in step order.
const (
	PhaseReconfigure Phase = iota
	PhaseVelocity
	PhaseProjection
	PhaseTemperature
	PhaseDensity

	numPhases
)

var phaseNames = [numPhases]string{"reconfigure", "velocity", "projection", "temperature", "density"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// stepSample is the timing of one completed step.
type stepSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps step timings in a ring of the last window steps. It is
// not safe for concurrent use; the simulator drives it from its update
// goroutine. Steps that fail are counted but not timed.
type PerfCollector struct {
	ring   []stepSample
	next   int
	filled int
	failed int

	cur        stepSample
	stepStart  time.Time
	phaseStart time.Time
	phase      Phase
	running    bool
}

// NewPerfCollector creates a collector averaging over window steps (30 when
// window < 1).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 30
	}
	return &PerfCollector{ring: make([]stepSample, window)}
}

// StartStep begins timing a step.
func (p *PerfCollector) StartStep() {
	p.stepStart = time.Now()
	p.cur = stepSample{}
	p.running = false
}

// StartPhase closes the running phase and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase, p.phaseStart, p.running = phase, now, phase >= 0 && phase < numPhases
}

// EndStep records the step into the window.
func (p *PerfCollector) EndStep() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.stepStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// FailStep drops the step in progress and counts it as failed.
func (p *PerfCollector) FailStep() {
	p.running = false
	p.failed++
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.running {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
		p.running = false
	}
}

// PerfStats aggregates the steps in the window.
type PerfStats struct {
	Steps           int // steps in the window
	FailedSteps     int // since the collector was created
	AvgStepDuration time.Duration
	MinStepDuration time.Duration
	MaxStepDuration time.Duration
	StepsPerSecond  float64

	// Mean duration and percent of mean step time, indexed by Phase.
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	st := PerfStats{Steps: p.filled, FailedSteps: p.failed}
	if p.filled == 0 {
		return st
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	for i, s := range p.ring[:p.filled] {
		total += s.total
		if i == 0 || s.total < st.MinStepDuration {
			st.MinStepDuration = s.total
		}
		st.MaxStepDuration = max(st.MaxStepDuration, s.total)
		for ph, d := range s.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.filled)
	st.AvgStepDuration = total / n
	for ph := range phaseSum {
		st.PhaseAvg[ph] = phaseSum[ph] / n
		if total > 0 {
			st.PhasePct[ph] = float64(phaseSum[ph]) / float64(total) * 100
		}
	}
	if st.AvgStepDuration > 0 {
		st.StepsPerSecond = float64(time.Second) / float64(st.AvgStepDuration)
	}
	return st
}

// Pct returns the share of step time spent in phase.
func (s PerfStats) Pct(phase Phase) float64 {
	if phase < 0 || phase >= numPhases {
		return 0
	}
	return s.PhasePct[phase]
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "window", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("steps", s.Steps),
		slog.Int("failed", s.FailedSteps),
		slog.Int64("avg_step_us", s.AvgStepDuration.Microseconds()),
		slog.Int64("min_step_us", s.MinStepDuration.Microseconds()),
		slog.Int64("max_step_us", s.MaxStepDuration.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
	}
	for ph := range numPhases {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the flat perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      int     `csv:"window_end"`
	FailedSteps    int     `csv:"failed_steps"`
	AvgStepUS      int64   `csv:"avg_step_us"`
	MinStepUS      int64   `csv:"min_step_us"`
	MaxStepUS      int64   `csv:"max_step_us"`
	StepsPerSec    float64 `csv:"steps_per_sec"`
	ReconfigurePct float64 `csv:"reconfigure_pct"`
	VelocityPct    float64 `csv:"velocity_pct"`
	ProjectionPct  float64 `csv:"projection_pct"`
	TemperaturePct float64 `csv:"temperature_pct"`
	DensityPct     float64 `csv:"density_pct"`
}

// ToCSV flattens s into a row for the window ending at step windowEnd.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		FailedSteps:    s.FailedSteps,
		AvgStepUS:      s.AvgStepDuration.Microseconds(),
		MinStepUS:      s.MinStepDuration.Microseconds(),
		MaxStepUS:      s.MaxStepDuration.Microseconds(),
		StepsPerSec:    s.StepsPerSecond,
		ReconfigurePct: s.PhasePct[PhaseReconfigure],
		VelocityPct:    s.PhasePct[PhaseVelocity],
		ProjectionPct:  s.PhasePct[PhaseProjection],
		TemperaturePct: s.PhasePct[PhaseTemperature],
		DensityPct:     s.PhasePct[PhaseDensity],
	}
}
