package ops

import (
	"github.com/pthm-cable/fire/config"
	"github.com/pthm-cable/fire/grid"
)

// Advect moves f along vel with a semi-Lagrangian back trace: each cell takes
// the value found at p - dt*u(p), sampled trilinearly. The two fields may live
// on different lattices; positions are traced in meters. vel may be f itself.
func Advect(vel *grid.Field, velSpace grid.Space, f *grid.Field, space grid.Space, dt float32, cov Coverage) {
	vb := vel.Current()
	vd := vel.Dims
	n := int(f.Kind)
	d := f.Dims

	apply(f, cov, func(dst, src []float32, i, x, y, z int) {
		p := space.CellCenter(x, y, z)
		gx, gy, gz := velSpace.GridCoord(p)
		u := grid.SampleVec(vb, vd, gx, gy, gz)
		back := [3]float32{p[0] - dt*u[0], p[1] - dt*u[1], p[2] - dt*u[2]}
		bx, by, bz := space.GridCoord(back)
		for c := range n {
			dst[i*n+c] = grid.Sample(src, d, f.Kind, c, bx, by, bz)
		}
	})
}

// Dissipate decays the interior of f: r = c / (1 + rate*dt).
func Dissipate(f *grid.Field, rate, dt float32) {
	if rate == 0 {
		return
	}
	k := 1 / (1 + rate*dt)
	n := int(f.Kind)
	apply(f, Interior, func(dst, src []float32, i, _, _, _ int) {
		for c := i * n; c < i*n+n; c++ {
			dst[c] = src[c] * k
		}
	})
}

// Diffuser solves implicit diffusion with Jacobi iterations. It keeps a copy
// of the field at the start of the solve as the right-hand side.
type Diffuser struct {
	rhs []float32
}

// Diffuse runs iterations of x = (b + a*sum(x_n)) / (1 + 6a) over the
// interior of f, with a = viscosity * dt * metersToVoxels^2. The boundary is
// enforced with scale after every iteration. It does nothing when a or
// iterations is zero.
func (df *Diffuser) Diffuse(f *grid.Field, viscosity float32, iterations int, dt, metersToVoxels float32, mode config.BoundaryType, scale float32) {
	a := viscosity * dt * metersToVoxels * metersToVoxels
	if a == 0 || iterations <= 0 {
		return
	}
	if len(df.rhs) != len(f.Current()) {
		df.rhs = make([]float32, len(f.Current()))
	}
	copy(df.rhs, f.Current())

	d := f.Dims
	n := int(f.Kind)
	sx, sy, sz := n, n*d.NX, n*d.NX*d.NY
	inv := 1 / (1 + 6*a)
	b := df.rhs

	for range iterations {
		apply(f, Interior, func(dst, src []float32, i, _, _, _ int) {
			for c := i * n; c < i*n+n; c++ {
				sum := src[c-sx] + src[c+sx] + src[c-sy] + src[c+sy] + src[c-sz] + src[c+sz]
				dst[c] = (b[c] + a*sum) * inv
			}
		})
		Enforce(mode, f, scale)
	}
}
