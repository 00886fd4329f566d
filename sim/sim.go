// Package sim drives the buoyant smoke solver: it owns every field, applies
// queued reconfiguration at step boundaries and runs the velocity,
// temperature and density steps in a fixed order.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/pthm-cable/fire/config"
	"github.com/pthm-cable/fire/grid"
	"github.com/pthm-cable/fire/noise"
	"github.com/pthm-cable/fire/ops"
	"github.com/pthm-cable/fire/source"
	"github.com/pthm-cable/fire/telemetry"
)

// forceRadius is the falloff radius of external forces, in velocity cells.
const forceRadius = 1.5

// Output is the read handoff of one step: the density and temperature of the
// last successful step with the lattice shapes. The fields stay valid and
// unchanged until the next successful Update.
type Output struct {
	Density       *grid.Field
	Temperature   *grid.Field
	SubstanceDims grid.Dims
	VelocityDims  grid.Dims
	Step          int
}

// Options configures a Simulator.
type Options struct {
	// PerfWindow is the number of steps averaged by Perf (0 = 30).
	PerfWindow int
}

type request struct {
	settings   config.Settings
	regenerate bool
}

type impulse struct {
	pos, force [3]float32
}

// Simulator owns the solver state. Update, Init and the accessors must be
// called from one goroutine; ChangeSettings, AddExternalForce and SetUp may be
// called from any goroutine.
type Simulator struct {
	state   atomic.Int32
	pending atomic.Pointer[request]
	up      atomic.Pointer[[3]float32]

	forceMu sync.Mutex
	forces  []impulse

	settings config.Settings
	changed  bool

	velSpace grid.Space
	subSpace grid.Space

	velocity    *grid.Field
	temperature *grid.Field
	density     *grid.Field
	sources     source.Set

	projector *ops.Projector
	vorticity *ops.Vorticity
	velDiff   ops.Diffuser
	tempDiff  ops.Diffuser
	smokeDiff ops.Diffuser
	band      *noise.Band
	pcg       *rand.PCG
	rng       *rand.Rand

	windAngle float32
	time      float32
	step      int

	// Copies of the last successful step. Density and temperature are handed
	// out through Output; all three restore the fields after a failed step.
	outDensity     *grid.Field
	outTemperature *grid.Field
	lastVelocity   *grid.Field

	perf *telemetry.PerfCollector
}

// New creates an uninitialized simulator.
func New() *Simulator {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an uninitialized simulator with options.
func NewWithOptions(opts Options) *Simulator {
	s := &Simulator{perf: telemetry.NewPerfCollector(opts.PerfWindow)}
	s.up.Store(&[3]float32{0, 1, 0})
	return s
}

// Init sanitizes settings and allocates every field and source for them.
// Calling Init again discards the current state.
func (s *Simulator) Init(settings config.Settings) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.state.Store(int32(Uninitialized))
			err = fmt.Errorf("%w: %v", ErrInit, r)
		}
	}()

	st := settings.Sanitize()
	s.regenerate(st)
	s.settings = st
	s.pending.Store(nil)
	s.changed = false
	s.step = 0
	s.time = 0
	s.pcg = rand.NewPCG(uint64(st.Seed), 0)
	s.rng = rand.New(s.pcg)
	s.windAngle = st.WindAngle
	s.state.Store(int32(Ready))

	slog.Info("simulator initialized",
		"preset", s.settings.Name,
		"velocity_dims", s.velSpace.Dims.String(),
		"substance_dims", s.subSpace.Dims.String(),
		"source", s.settings.SourceType.String(),
	)
	return nil
}

// regenerate reallocates every field for st and rebuilds the sources. All
// field state is discarded. Nothing is replaced unless every allocation
// succeeds.
func (s *Simulator) regenerate(st config.Settings) {
	velSpace := source.SpaceFor(st, config.Velocity)
	subSpace := source.SpaceFor(st, config.Substance)

	velocity := grid.NewField("velocity", velSpace.Dims, grid.Vector)
	temperature := grid.NewField("temperature", subSpace.Dims, grid.Scalar)
	density := grid.NewField("density", subSpace.Dims, grid.Scalar)
	outDensity := grid.NewField("density", subSpace.Dims, grid.Scalar)
	outTemperature := grid.NewField("temperature", subSpace.Dims, grid.Scalar)
	lastVelocity := grid.NewField("velocity", velSpace.Dims, grid.Vector)
	projector := ops.NewProjector(velSpace.Dims)
	vorticity := ops.NewVorticity(velSpace.Dims)
	sources := source.Build(st)
	band := noise.FromSettings(st)

	s.velSpace, s.subSpace = velSpace, subSpace
	s.velocity, s.temperature, s.density = velocity, temperature, density
	s.outDensity, s.outTemperature, s.lastVelocity = outDensity, outTemperature, lastVelocity
	s.projector, s.vorticity = projector, vorticity
	s.velDiff, s.tempDiff, s.smokeDiff = ops.Diffuser{}, ops.Diffuser{}, ops.Diffuser{}
	s.sources = sources
	s.band = band
}

// ChangeSettings queues settings to take effect at the next step boundary.
// With regenerate, or when the grid resolution changes, all fields are
// reallocated and cleared. A later call replaces an earlier queued one, but a
// queued regeneration is never dropped.
func (s *Simulator) ChangeSettings(settings config.Settings, regenerate bool) error {
	if s.State() == Uninitialized {
		return ErrNotInitialized
	}
	next := &request{settings: settings, regenerate: regenerate}
	for {
		prev := s.pending.Load()
		if prev != nil && prev.regenerate {
			next.regenerate = true
		}
		if s.pending.CompareAndSwap(prev, next) {
			return nil
		}
	}
}

// Pending reports whether settings are queued but not yet applied.
func (s *Simulator) Pending() bool {
	return s.pending.Load() != nil
}

// ChangedSettings reports whether the last Update applied queued settings.
func (s *Simulator) ChangedSettings() bool {
	return s.changed
}

// AddExternalForce queues an acceleration (m/s^2) at pos (meters), applied to
// velocity during the next step. It is ignored in touch mode, where touches
// steer the camera instead.
func (s *Simulator) AddExternalForce(pos, force [3]float32) {
	s.forceMu.Lock()
	s.forces = append(s.forces, impulse{pos: pos, force: force})
	s.forceMu.Unlock()
}

// SetUp sets the direction buoyancy pushes hot gas toward while orientation
// mode is enabled, in grid axes. A zero vector is ignored.
func (s *Simulator) SetUp(dir [3]float32) {
	if n := normalize(dir); n != [3]float32{} {
		s.up.Store(&n)
	}
}

// applyPending swaps in queued settings. It reports whether any were applied.
func (s *Simulator) applyPending() bool {
	req := s.pending.Swap(nil)
	if req == nil {
		return false
	}

	prev := s.settings
	next := req.settings.Sanitize()

	resized := prev.Size(config.Velocity) != next.Size(config.Velocity) ||
		prev.Size(config.Substance) != next.Size(config.Substance) ||
		prev.SimulationScale != next.SimulationScale

	switch {
	case req.regenerate || resized:
		s.state.Store(int32(Reinitializing))
		s.regenerate(next)
		slog.Info("fields regenerated",
			"preset", next.Name,
			"velocity_dims", s.velSpace.Dims.String(),
			"substance_dims", s.subSpace.Dims.String(),
		)
	case prev.NeedsRegeneration(next):
		s.sources = source.Build(next)
		slog.Debug("sources rebuilt", "source", next.SourceType.String())
	}

	if prev.NoiseBasis != next.NoiseBasis || prev.Seed != next.Seed || prev.SubstanceScale != next.SubstanceScale ||
		prev.MinBand != next.MinBand || prev.MaxBand != next.MaxBand ||
		prev.CustomMinBand != next.CustomMinBand || prev.CustomMaxBand != next.CustomMaxBand {
		s.band = noise.FromSettings(next)
	}
	if !next.RotatingWind {
		s.windAngle = next.WindAngle
	}
	s.settings = next

	slog.Debug("settings applied", "preset", next.Name, "regenerated", req.regenerate || resized)
	return true
}

// State returns the lifecycle state.
func (s *Simulator) State() State {
	return State(s.state.Load())
}

// Settings returns the settings currently in effect.
func (s *Simulator) Settings() config.Settings {
	return s.settings
}

// Velocity returns the live velocity field (m/s).
func (s *Simulator) Velocity() *grid.Field {
	return s.velocity
}

// Sources returns the emitter fields in use.
func (s *Simulator) Sources() source.Set {
	return s.sources
}

// WindAngle returns the current wind direction in radians.
func (s *Simulator) WindAngle() float32 {
	return s.windAngle
}

// Step returns the number of completed steps since Init.
func (s *Simulator) Step() int {
	return s.step
}

// Time returns the simulated time since Init in seconds.
func (s *Simulator) Time() float32 {
	return s.time
}

// Perf returns timing statistics over the recent steps.
func (s *Simulator) Perf() telemetry.PerfStats {
	return s.perf.Stats()
}

func normalize(v [3]float32) [3]float32 {
	l := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
	if !(l > 0) {
		return [3]float32{}
	}
	inv := 1 / sqrt32(l)
	return [3]float32{v[0] * inv, v[1] * inv, v[2] * inv}
}
