package config

// WithName returns a copy with the preset name changed.
func (s Settings) WithName(name string) Settings {
	s.Name = name
	return s
}

// WithSize returns a copy with new grid dimensions. ratio is the per-axis
// aspect, velocityScale and substanceScale the cells per ratio unit of each
// grid and simulationScale the meters per ratio unit.
func (s Settings) WithSize(ratio [3]int, velocityScale, substanceScale int, simulationScale float32) Settings {
	s.SizeRatio = ratio
	s.VelocityScale = velocityScale
	s.SubstanceScale = substanceScale
	s.SimulationScale = simulationScale
	return s
}

// WithResolution returns a copy with a new velocity resolution, keeping the
// substance/velocity resolution ratio.
func (s Settings) WithResolution(velocityScale int) Settings {
	scale := float32(s.SubstanceScale) / float32(max(s.VelocityScale, 1))
	return s.WithSize(s.SizeRatio, velocityScale, int(scale*float32(velocityScale)+0.5), s.SimulationScale)
}

// WithResolutionScale returns a copy whose substance grid is scale times finer
// than the velocity grid.
func (s Settings) WithResolutionScale(scale float32) Settings {
	return s.WithSize(s.SizeRatio, s.VelocityScale, int(scale*float32(s.VelocityScale)+0.5), s.SimulationScale)
}

// WithSimulationScale returns a copy with a new physical size per ratio unit.
func (s Settings) WithSimulationScale(meters float32) Settings {
	return s.WithSize(s.SizeRatio, s.VelocityScale, s.SubstanceScale, meters)
}

func (s Settings) WithDeltaTime(dt float32) Settings {
	s.DeltaTime = dt
	return s
}

func (s Settings) WithSourceMode(mode SourceMode) Settings {
	s.SourceMode = mode
	return s
}

func (s Settings) WithSourceType(t SourceType) Settings {
	s.SourceType = t
	return s
}

func (s Settings) WithSourceTemperature(t float32) Settings {
	s.SourceTemperature = t
	return s
}

func (s Settings) WithSourceDensity(d float32) Settings {
	s.SourceDensity = d
	return s
}

func (s Settings) WithSourceRadius(r float32) Settings {
	s.SourceRadius = r
	return s
}

func (s Settings) WithSourceVelocity(v float32) Settings {
	s.SourceVelocity = v
	return s
}

// WithSourceCenter returns a copy with the emitter centered at p (meters).
func (s Settings) WithSourceCenter(p [3]float32) Settings {
	s.SourceCenter = p
	return s
}

func (s Settings) WithDensityFill(mode FillMode) Settings {
	s.DensityFill = mode
	return s
}

func (s Settings) WithVelDiffusion(viscosity float32, iterations int) Settings {
	s.VelDiffusion = Diffusion{Viscosity: viscosity, Iterations: iterations}
	return s
}

func (s Settings) WithTempDiffusion(viscosity float32, iterations int) Settings {
	s.TempDiffusion = Diffusion{Viscosity: viscosity, Iterations: iterations}
	return s
}

func (s Settings) WithSmokeDiffusion(viscosity float32, iterations int) Settings {
	s.SmokeDiffusion = Diffusion{Viscosity: viscosity, Iterations: iterations}
	return s
}

func (s Settings) WithVorticityScale(scale float32) Settings {
	s.VorticityScale = scale
	return s
}

func (s Settings) WithBuoyancyScale(scale float32) Settings {
	s.BuoyancyScale = scale
	return s
}

func (s Settings) WithAmbientTemperature(t float32) Settings {
	s.AmbientTemperature = t
	return s
}

func (s Settings) WithProjectIterations(n int) Settings {
	s.ProjectionIterations = n
	return s
}

func (s Settings) WithSmokeDissipation(rate float32) Settings {
	s.SmokeDissipation = rate
	return s
}

func (s Settings) WithTempDissipation(rate float32) Settings {
	s.TempDissipation = rate
	return s
}

func (s Settings) WithWindStrength(strength float32) Settings {
	s.WindStrength = strength
	return s
}

// WithWindAngle returns a copy with a fixed wind direction in radians.
func (s Settings) WithWindAngle(angle float32) Settings {
	s.WindAngle = angle
	return s
}

func (s Settings) WithRotatingWindAngle(rotating bool) Settings {
	s.RotatingWind = rotating
	return s
}

func (s Settings) WithWindRotationRate(rate float32) Settings {
	s.WindRotationRate = rate
	return s
}

func (s Settings) WithBoundaryType(b BoundaryType) Settings {
	s.Boundary = b
	return s
}

func (s Settings) WithNoiseBasis(b NoiseBasis) Settings {
	s.NoiseBasis = b
	return s
}

func (s Settings) WithMinBand(band float32) Settings {
	s.MinBand = band
	return s
}

func (s Settings) WithMaxBand(band float32) Settings {
	s.MaxBand = band
	return s
}

func (s Settings) WithCustomMinBand(custom bool) Settings {
	s.CustomMinBand = custom
	return s
}

func (s Settings) WithCustomMaxBand(custom bool) Settings {
	s.CustomMaxBand = custom
	return s
}

func (s Settings) WithTurbulenceScale(scale float32) Settings {
	s.TurbulenceScale = scale
	return s
}

func (s Settings) WithSeed(seed int64) Settings {
	s.Seed = seed
	return s
}

func (s Settings) WithBackgroundColor(c [3]float32) Settings {
	s.BackgroundColor = c
	return s
}

func (s Settings) WithFilterColor(c [3]float32) Settings {
	s.FilterColor = c
	return s
}

func (s Settings) WithColorSpace(c [3]float32) Settings {
	s.ColorSpace = c
	return s
}

func (s Settings) WithTouchMode(touch bool) Settings {
	s.TouchMode = touch
	return s
}

func (s Settings) WithOrientationMode(orientation bool) Settings {
	s.OrientationMode = orientation
	return s
}
