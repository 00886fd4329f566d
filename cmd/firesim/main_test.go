package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/fire/config"
)

func TestApplyOverrides(t *testing.T) {
	s, err := applyOverrides(config.Default(), options{source: "Cube", boundary: "none", seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if s.SourceType.String() != "cube" || s.Boundary.String() != "none" || s.Seed != 7 {
		t.Errorf("overrides not applied: source=%v boundary=%v seed=%d", s.SourceType, s.Boundary, s.Seed)
	}

	if _, err := applyOverrides(config.Default(), options{source: "torus"}); err == nil {
		t.Error("expected an error for an unknown source type")
	}
	if _, err := applyOverrides(config.Default(), options{boundary: "wrap"}); err == nil {
		t.Error("expected an error for an unknown boundary type")
	}

	def := config.Default()
	if s, _ := applyOverrides(def, options{}); s.SourceType != def.SourceType || s.Seed != def.Seed {
		t.Error("empty overrides changed the settings")
	}
}

func TestRunWritesTelemetry(t *testing.T) {
	dir := t.TempDir()
	err := run(options{preset: "default", maxSteps: 2, statsEvery: 1, outputDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "steps.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(strings.TrimSpace(string(data)), "\n") + 1; lines != 3 {
		t.Errorf("expected header and 2 step rows, got %d lines", lines)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestRunRejectsBadOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := run(options{preset: "default", boundary: "wrap", outputDir: dir}); err == nil {
		t.Fatal("expected an error for an unknown boundary")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("output directory created before the settings were validated")
	}
}
