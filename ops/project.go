package ops

import (
	"math"

	"github.com/pthm-cable/fire/config"
	"github.com/pthm-cable/fire/grid"
)

// Projector removes the divergent part of a velocity field. Its divergence
// and pressure fields are transient: both are reset on every call.
type Projector struct {
	divergence *grid.Field
	pressure   *grid.Field
}

// NewProjector allocates the scratch fields for a velocity lattice.
func NewProjector(d grid.Dims) *Projector {
	return &Projector{
		divergence: grid.NewField("divergence", d, grid.Scalar),
		pressure:   grid.NewField("pressure", d, grid.Scalar),
	}
}

// Project makes vel approximately divergence free: it computes the
// divergence, solves the pressure Poisson equation from a zero guess with
// iterations Jacobi sweeps, subtracts the pressure gradient and finally
// enforces the velocity boundary.
func (p *Projector) Project(vel *grid.Field, iterations int, mode config.BoundaryType) {
	if vel.Dims != p.divergence.Dims {
		*p = *NewProjector(vel.Dims)
	}
	p.divergence.Clear()
	p.pressure.Clear()

	p.computeDivergence(vel)
	Enforce(mode, p.divergence, DivergenceScale)

	d := vel.Dims
	sy, sz := d.NX, d.NX*d.NY
	div := p.divergence.Current()
	for range iterations {
		apply(p.pressure, Interior, func(dst, src []float32, i, _, _, _ int) {
			sum := src[i-1] + src[i+1] + src[i-sy] + src[i+sy] + src[i-sz] + src[i+sz]
			dst[i] = (sum - div[i]) / 6
		})
		Enforce(mode, p.pressure, PressureScale)
	}

	pr := p.pressure.Current()
	apply(vel, Interior, func(dst, src []float32, i, _, _, _ int) {
		b := 3 * i
		dst[b] = src[b] - 0.5*(pr[i+1]-pr[i-1])
		dst[b+1] = src[b+1] - 0.5*(pr[i+sy]-pr[i-sy])
		dst[b+2] = src[b+2] - 0.5*(pr[i+sz]-pr[i-sz])
	})
	Enforce(mode, vel, VelocityScale)
}

func (p *Projector) computeDivergence(vel *grid.Field) {
	u := vel.Current()
	d := vel.Dims
	apply(p.divergence, Interior, func(dst, _ []float32, i, _, _, _ int) {
		dst[i] = divergenceAt(u, d, i)
	})
}

// divergenceAt is the central-difference divergence at interior cell i, in
// cell units.
func divergenceAt(u []float32, d grid.Dims, i int) float32 {
	b := 3 * i
	sx, sy, sz := 3, 3*d.NX, 3*d.NX*d.NY
	return 0.5 * ((u[b+sx] - u[b-sx]) + (u[b+sy+1] - u[b-sy+1]) + (u[b+sz+2] - u[b-sz+2]))
}

// MaxDivergence returns the largest absolute interior divergence of vel.
func MaxDivergence(vel *grid.Field) float32 {
	var worst float32
	eachInterior(vel.Dims, func(i int) {
		v := divergenceAt(vel.Current(), vel.Dims, i)
		if v < 0 {
			v = -v
		}
		worst = max(worst, v)
	})
	return worst
}

// DivergenceNorm returns the L2 norm of the interior divergence of vel.
func DivergenceNorm(vel *grid.Field) float32 {
	var sum float64
	eachInterior(vel.Dims, func(i int) {
		v := float64(divergenceAt(vel.Current(), vel.Dims, i))
		sum += v * v
	})
	return float32(math.Sqrt(sum))
}

// eachInterior visits interior cells serially.
func eachInterior(d grid.Dims, fn func(i int)) {
	for z := 1; z < d.NZ-1; z++ {
		for y := 1; y < d.NY-1; y++ {
			for x := 1; x < d.NX-1; x++ {
				fn(d.Idx(x, y, z))
			}
		}
	}
}
