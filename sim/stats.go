package sim

import (
	"github.com/pthm-cable/fire/grid"
	"github.com/pthm-cable/fire/ops"
	"github.com/pthm-cable/fire/telemetry"
)

// Stats summarizes the state after the last step. It walks every field, so
// callers on a hot loop should sample it at a window rather than every step.
func (s *Simulator) Stats() telemetry.StepStats {
	if s.State() == Uninitialized {
		return telemetry.StepStats{}
	}

	stats := telemetry.StepStats{
		Step:          s.step,
		SimTime:       float64(s.time),
		MaxDivergence: float64(ops.MaxDivergence(s.velocity)),
		WindAngle:     float64(s.windAngle),
	}

	stats.PlumeHeight = plumeHeight(s.density, s.subSpace)
	density := interior(s.density)
	stats.TotalDensity, stats.MaxDensity, stats.DensityP50, stats.DensityP90 = telemetry.Distribution(density)

	for _, v := range interior(s.temperature) {
		stats.TotalTemperature += v
		stats.MaxTemperature = max(stats.MaxTemperature, v)
	}

	d := s.velocity.Dims
	u := s.velocity.Current()
	var top float32
	for z := 1; z < d.NZ-1; z++ {
		for y := 1; y < d.NY-1; y++ {
			for x := 1; x < d.NX-1; x++ {
				b := 3 * d.Idx(x, y, z)
				top = max(top, u[b]*u[b]+u[b+1]*u[b+1]+u[b+2]*u[b+2])
			}
		}
	}
	stats.MaxSpeed = float64(sqrt32(top))
	return stats
}

// interior copies the interior cells of a scalar field.
func interior(f *grid.Field) []float64 {
	d := f.Dims
	in := d.Interior()
	out := make([]float64, 0, in[0]*in[1]*in[2])
	buf := f.Current()
	for z := 1; z < d.NZ-1; z++ {
		for y := 1; y < d.NY-1; y++ {
			for x := 1; x < d.NX-1; x++ {
				out = append(out, float64(buf[d.Idx(x, y, z)]))
			}
		}
	}
	return out
}

// plumeHeight is the density-weighted mean height of the interior in meters,
// or 0 for an empty field.
func plumeHeight(f *grid.Field, sp grid.Space) float64 {
	d := f.Dims
	buf := f.Current()
	var mass, moment float64
	for y := 1; y < d.NY-1; y++ {
		var row float64
		for z := 1; z < d.NZ-1; z++ {
			for x := 1; x < d.NX-1; x++ {
				row += float64(buf[d.Idx(x, y, z)])
			}
		}
		mass += row
		moment += row * float64(sp.CellCenter(1, y, 1)[1])
	}
	if mass <= 0 {
		return 0
	}
	return moment / mass
}
