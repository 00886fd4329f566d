package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/fire/config"
	"github.com/pthm-cable/fire/ops"
	"github.com/pthm-cable/fire/telemetry"
)

// Update applies queued settings, advances the simulation by one step and
// returns the new density and temperature. If the step fails the previous
// output is returned with an error wrapping ErrStep.
func (s *Simulator) Update() (out Output, err error) {
	if s.State() == Uninitialized {
		return Output{}, ErrNotInitialized
	}

	saved := s.checkpoint()
	defer func() {
		if r := recover(); r != nil {
			s.abort(saved)
			s.perf.FailStep()
			out = s.output()
			err = fmt.Errorf("%w: step %d: %v", ErrStep, s.step+1, r)
			slog.Error("step failed", "step", s.step+1, "error", r)
		}
	}()

	s.perf.StartStep()
	s.perf.StartPhase(telemetry.PhaseReconfigure)
	s.changed = s.applyPending()
	saved = s.checkpoint()

	s.state.Store(int32(Stepping))
	dt := s.settings.DeltaTime

	s.perf.StartPhase(telemetry.PhaseVelocity)
	s.velocityStep(dt)
	s.perf.StartPhase(telemetry.PhaseTemperature)
	s.temperatureStep(dt)
	s.perf.StartPhase(telemetry.PhaseDensity)
	s.densityStep(dt)

	s.outDensity.CopyFrom(s.density)
	s.outTemperature.CopyFrom(s.temperature)
	s.lastVelocity.CopyFrom(s.velocity)
	s.step++
	s.time += dt
	s.state.Store(int32(Ready))
	s.perf.EndStep()

	return s.output(), nil
}

// velocityStep runs the force, transport and projection passes on velocity.
func (s *Simulator) velocityStep(dt float32) {
	st := &s.settings
	vel := s.velocity

	ops.AddSource(vel, s.sources.Velocity, dt)
	ops.Buoyancy(vel, s.velSpace, s.temperature, s.subSpace, s.upVector(), st.AmbientTemperature, st.BuoyancyScale, dt)
	s.vorticity.Apply(vel, st.VorticityScale, dt)
	s.velDiff.Diffuse(vel, st.VelDiffusion.Viscosity, st.VelDiffusion.Iterations, dt,
		s.velSpace.MetersToVoxels, st.Boundary, ops.VelocityScale)
	s.applyWind(dt)
	ops.Turbulence(vel, s.velSpace, s.band, s.time, st.TurbulenceScale, dt)
	s.applyForces(dt)
	ops.Advect(vel, s.velSpace, vel, s.velSpace, dt, ops.Interior)

	s.perf.StartPhase(telemetry.PhaseProjection)
	s.projector.Project(vel, st.ProjectionIterations, st.Boundary)
}

// temperatureStep injects, transports, diffuses and cools temperature.
func (s *Simulator) temperatureStep(dt float32) {
	st := &s.settings
	temp := s.temperature

	if st.SourceMode == config.SourceAdd {
		ops.AddSource(temp, s.sources.Temperature, dt)
	} else {
		ops.SetSource(temp, s.sources.Temperature)
	}
	ops.Advect(s.velocity, s.velSpace, temp, s.subSpace, dt, ops.Full)
	s.tempDiff.Diffuse(temp, st.TempDiffusion.Viscosity, st.TempDiffusion.Iterations, dt,
		s.subSpace.MetersToVoxels, st.Boundary, ops.SubstanceScale)
	ops.Dissipate(temp, st.TempDissipation, dt)
}

// densityStep injects, diffuses, dissipates and transports smoke density.
func (s *Simulator) densityStep(dt float32) {
	st := &s.settings
	den := s.density

	ops.AddSource(den, s.sources.Density, dt)
	s.smokeDiff.Diffuse(den, st.SmokeDiffusion.Viscosity, st.SmokeDiffusion.Iterations, dt,
		s.subSpace.MetersToVoxels, st.Boundary, ops.SubstanceScale)
	ops.Dissipate(den, st.SmokeDissipation, dt)
	ops.Advect(s.velocity, s.velSpace, den, s.subSpace, dt, ops.Full)
}

// applyWind advances a rotating wind direction by a seeded random amount and
// pushes velocity along it.
func (s *Simulator) applyWind(dt float32) {
	st := &s.settings
	if st.RotatingWind {
		jitter := s.rng.Float32()
		s.windAngle = float32(math.Mod(float64(s.windAngle+dt*jitter*st.WindRotationRate), 2*math.Pi))
	}
	ops.Wind(s.velocity, s.windAngle, st.WindStrength, dt)
}

// applyForces drains queued external forces into velocity.
func (s *Simulator) applyForces(dt float32) {
	s.forceMu.Lock()
	forces := s.forces
	s.forces = nil
	s.forceMu.Unlock()

	if s.settings.TouchMode {
		return
	}
	radius := forceRadius / s.velSpace.MetersToVoxels
	for _, f := range forces {
		ops.ExternalForce(s.velocity, s.velSpace, f.pos, f.force, radius, dt)
	}
}

func (s *Simulator) upVector() [3]float32 {
	if !s.settings.OrientationMode {
		return [3]float32{0, 1, 0}
	}
	return *s.up.Load()
}

// checkpoint is the solver state outside the fields that a step advances.
type checkpoint struct {
	windAngle float32
	pcg       rand.PCG
}

func (s *Simulator) checkpoint() checkpoint {
	return checkpoint{windAngle: s.windAngle, pcg: *s.pcg}
}

// abort releases any write left bound by a failed pass and rolls the fields,
// wind and random stream back to the end of the last successful step.
// Settings applied at the start of the failed step stay applied.
func (s *Simulator) abort(saved checkpoint) {
	s.velocity.Abort()
	s.temperature.Abort()
	s.density.Abort()

	s.velocity.CopyFrom(s.lastVelocity)
	s.temperature.CopyFrom(s.outTemperature)
	s.density.CopyFrom(s.outDensity)
	s.windAngle = saved.windAngle
	*s.pcg = saved.pcg

	s.projector = ops.NewProjector(s.velSpace.Dims)
	s.state.Store(int32(Ready))
}

func (s *Simulator) output() Output {
	return Output{
		Density:       s.outDensity,
		Temperature:   s.outTemperature,
		SubstanceDims: s.subSpace.Dims,
		VelocityDims:  s.velSpace.Dims,
		Step:          s.step,
	}
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
