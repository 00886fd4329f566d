package main

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"testing"

	"github.com/pthm-cable/fire/telemetry"
)

func TestRecorderKeepsBestAndLogsRows(t *testing.T) {
	var buf bytes.Buffer
	params := NewParamVector()
	rec, err := newRecorder(&buf, slog.New(slog.NewTextHandler(io.Discard, nil)), params, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rec.Best(); ok {
		t.Fatal("best reported before any evaluation")
	}

	def := params.DefaultVector()
	rec.record(evaluation{fitness: 0.5, values: def, stats: telemetry.StepStats{PlumeHeight: 1}})
	rec.record(evaluation{fitness: 0.1, values: def, stats: telemetry.StepStats{PlumeHeight: 1.8}})
	rec.record(evaluation{fitness: 0.3, values: def, stats: telemetry.StepStats{PlumeHeight: 1.5}})

	best, ok := rec.Best()
	if !ok || best.fitness != 0.1 || best.stats.PlumeHeight != 1.8 {
		t.Errorf("unexpected best %+v", best)
	}
	if rec.Evals() != 3 {
		t.Errorf("expected 3 evals, got %d", rec.Evals())
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(rows))
	}
	if want := 4 + params.Dim(); len(rows[0]) != want || len(rows[3]) != want {
		t.Errorf("expected %d columns, got %d and %d", want, len(rows[0]), len(rows[3]))
	}
	if rows[2][0] != "2" || rows[2][1] != "0.100000" {
		t.Errorf("unexpected second row %v", rows[2])
	}
}
