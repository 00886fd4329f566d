package main

import (
	"github.com/pthm-cable/fire/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config key for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable plume parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "buoyancy", Path: "buoyancy_scale", Min: 0.01, Max: 0.6, Default: 0.15},
			{Name: "vorticity", Path: "vorticity_scale", Min: 0, Max: 15, Default: 8},
			{Name: "smoke_dissipation", Path: "smoke_dissipation", Min: 0, Max: 1, Default: 0},
			{Name: "temp_dissipation", Path: "temp_dissipation", Min: 0, Max: 2, Default: 0},
			{Name: "turbulence", Path: "turbulence_scale", Min: 0, Max: 2, Default: 0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return out
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return out
}

// Apply returns s with the clamped parameter values. Order must match Specs.
func (pv *ParamVector) Apply(s config.Settings, values []float64) config.Settings {
	c := pv.Clamp(values)
	return s.
		WithBuoyancyScale(float32(c[0])).
		WithVorticityScale(float32(c[1])).
		WithSmokeDissipation(float32(c[2])).
		WithTempDissipation(float32(c[3])).
		WithTurbulenceScale(float32(c[4]))
}

// Extract reads the current parameter values from s.
func (pv *ParamVector) Extract(s config.Settings) []float64 {
	return []float64{
		float64(s.BuoyancyScale),
		float64(s.VorticityScale),
		float64(s.SmokeDissipation),
		float64(s.TempDissipation),
		float64(s.TurbulenceScale),
	}
}
