package config

import "math"

// Default values used by Sanitize when a field is out of range.
const (
	defaultDeltaTime = 1.0 / 30.0
	maxIterations    = 1000
)

// Size returns the interior cell count per axis of the given grid.
func (s Settings) Size(res Resolution) [3]int {
	scale := s.VelocityScale
	if res == Substance {
		scale = s.SubstanceScale
	}
	return [3]int{s.SizeRatio[0] * scale, s.SizeRatio[1] * scale, s.SizeRatio[2] * scale}
}

// SimulationSize returns the physical extent of the volume in meters.
func (s Settings) SimulationSize() [3]float32 {
	return [3]float32{
		float32(s.SizeRatio[0]) * s.SimulationScale,
		float32(s.SizeRatio[1]) * s.SimulationScale,
		float32(s.SizeRatio[2]) * s.SimulationScale,
	}
}

// MetersToVoxels returns the cells per meter of the given grid. The factor is
// the same on every axis because both size and extent scale with SizeRatio.
func (s Settings) MetersToVoxels(res Resolution) float32 {
	scale := s.VelocityScale
	if res == Substance {
		scale = s.SubstanceScale
	}
	return float32(scale) / s.SimulationScale
}

// VoxelSize returns the edge length of one cell of the given grid in meters.
func (s Settings) VoxelSize(res Resolution) float32 {
	return 1 / s.MetersToVoxels(res)
}

// Center returns the emitter center in meters. A zero SourceCenter places the
// emitter on the vertical axis a quarter of the way up the volume.
func (s Settings) Center() [3]float32 {
	if s.SourceCenter != [3]float32{} {
		return s.SourceCenter
	}
	size := s.SimulationSize()
	return [3]float32{size[0] / 2, size[1] / 4, size[2] / 2}
}

// Bands returns the turbulence octave band actually used. Without a custom
// bound the band spans from the base frequency to the substance Nyquist limit.
func (s Settings) Bands() (lo, hi float32) {
	lo, hi = 1, float32(s.SubstanceScale)/2
	if s.CustomMinBand {
		lo = s.MinBand
	}
	if s.CustomMaxBand {
		hi = s.MaxBand
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// NeedsRegeneration reports whether moving from s to next changes the shape
// of any grid or source field.
func (s Settings) NeedsRegeneration(next Settings) bool {
	return s.Size(Velocity) != next.Size(Velocity) ||
		s.Size(Substance) != next.Size(Substance) ||
		s.SimulationScale != next.SimulationScale ||
		s.SourceType != next.SourceType ||
		s.SourceRadius != next.SourceRadius ||
		s.Center() != next.Center() ||
		s.SourceTemperature != next.SourceTemperature ||
		s.SourceDensity != next.SourceDensity ||
		s.SourceVelocity != next.SourceVelocity ||
		s.DensityFill != next.DensityFill
}

// Sanitize clamps every parameter to a safe range. Host controls may pass
// transient out-of-range values, so nothing here is an error.
func (s Settings) Sanitize() Settings {
	for i := range s.SizeRatio {
		s.SizeRatio[i] = max(s.SizeRatio[i], 1)
	}
	s.VelocityScale = max(s.VelocityScale, 1)
	s.SubstanceScale = max(s.SubstanceScale, 1)
	if !(s.SimulationScale > 0) || isInf(s.SimulationScale) {
		s.SimulationScale = 1
	}
	if !(s.DeltaTime > 0) || isInf(s.DeltaTime) {
		s.DeltaTime = defaultDeltaTime
	}
	if s.SourceMode != SourceSet && s.SourceMode != SourceAdd {
		s.SourceMode = SourceSet
	}
	if s.SourceType < SourceSphere || s.SourceType > SourceWall {
		s.SourceType = SourceSphere
	}
	if s.DensityFill != Intensive && s.DensityFill != Extensive {
		s.DensityFill = Intensive
	}
	if s.Boundary != BoundaryNone && s.Boundary != BoundarySome {
		s.Boundary = BoundarySome
	}
	if s.NoiseBasis != NoisePerlin && s.NoiseBasis != NoiseSimplex {
		s.NoiseBasis = NoisePerlin
	}
	s.SourceRadius = nonNegative(s.SourceRadius)
	s.VelDiffusion = s.VelDiffusion.sanitize()
	s.TempDiffusion = s.TempDiffusion.sanitize()
	s.SmokeDiffusion = s.SmokeDiffusion.sanitize()
	s.ProjectionIterations = clampInt(s.ProjectionIterations, 0, maxIterations)
	s.SmokeDissipation = nonNegative(s.SmokeDissipation)
	s.TempDissipation = nonNegative(s.TempDissipation)
	s.MinBand = nonNegative(s.MinBand)
	s.MaxBand = nonNegative(s.MaxBand)
	if s.MaxBand < s.MinBand {
		s.MinBand, s.MaxBand = s.MaxBand, s.MinBand
	}
	return s
}

func (d Diffusion) sanitize() Diffusion {
	d.Viscosity = nonNegative(d.Viscosity)
	d.Iterations = clampInt(d.Iterations, 0, maxIterations)
	return d
}

func nonNegative(v float32) float32 {
	if !(v > 0) || isInf(v) {
		return 0
	}
	return v
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func isInf(v float32) bool {
	return math.IsInf(float64(v), 0)
}
