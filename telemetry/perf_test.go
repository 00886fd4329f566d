package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorTimesPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseVelocity)
		time.Sleep(20 * time.Microsecond)
		pc.StartPhase(PhaseProjection)
		time.Sleep(500 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()
	if stats.Steps != 5 {
		t.Fatalf("expected 5 steps, got %d", stats.Steps)
	}
	if stats.AvgStepDuration <= 0 || stats.StepsPerSecond <= 0 {
		t.Error("expected positive step timing")
	}
	if stats.PhaseAvg[PhaseProjection] <= 0 {
		t.Error("expected projection to be timed")
	}
	if stats.Pct(PhaseProjection) <= stats.Pct(PhaseVelocity) {
		t.Errorf("expected projection (%v%%) > velocity (%v%%)", stats.Pct(PhaseProjection), stats.Pct(PhaseVelocity))
	}
	if stats.Pct(PhaseDensity) != 0 {
		t.Error("untouched phase should have no share")
	}
	if stats.MinStepDuration > stats.AvgStepDuration || stats.AvgStepDuration > stats.MaxStepDuration {
		t.Errorf("expected min <= avg <= max, got %v %v %v", stats.MinStepDuration, stats.AvgStepDuration, stats.MaxStepDuration)
	}
}

func TestPerfCollectorWindow(t *testing.T) {
	pc := NewPerfCollector(4)
	for i := 0; i < 10; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseDensity)
		pc.EndStep()
	}
	if got := pc.Stats().Steps; got != 4 {
		t.Errorf("expected the window to hold 4 steps, got %d", got)
	}
}

func TestPerfCollectorFailedSteps(t *testing.T) {
	pc := NewPerfCollector(4)
	pc.StartStep()
	pc.StartPhase(PhaseVelocity)
	pc.FailStep()

	stats := pc.Stats()
	if stats.FailedSteps != 1 || stats.Steps != 0 {
		t.Errorf("expected one failed and no timed step, got %+v", stats)
	}
	if stats.AvgStepDuration != 0 {
		t.Error("failed steps must not be timed")
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseProjection.String() != "projection" || Phase(99).String() != "unknown" {
		t.Errorf("unexpected phase names %q %q", PhaseProjection, Phase(99))
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	var stats PerfStats
	stats.AvgStepDuration = 2 * time.Millisecond
	stats.FailedSteps = 2
	stats.PhasePct[PhaseProjection] = 60
	stats.PhasePct[PhaseDensity] = 15

	rec := stats.ToCSV(90)
	if rec.WindowEnd != 90 || rec.AvgStepUS != 2000 || rec.FailedSteps != 2 {
		t.Errorf("unexpected record header fields: %+v", rec)
	}
	if rec.ProjectionPct != 60 || rec.DensityPct != 15 || rec.VelocityPct != 0 {
		t.Errorf("unexpected phase columns: %+v", rec)
	}
}
