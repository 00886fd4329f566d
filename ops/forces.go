package ops

import (
	"math"

	"github.com/pthm-cable/fire/grid"
	"github.com/pthm-cable/fire/noise"
)

// Buoyancy lifts velocity along the unit vector up by the temperature excess
// over ambient: v += up * (T - ambient) * scale * dt, with T sampled on the
// substance grid at the physical position of each velocity cell.
func Buoyancy(vel *grid.Field, velSpace grid.Space, temp *grid.Field, tempSpace grid.Space, up [3]float32, ambient, scale, dt float32) {
	if scale == 0 {
		return
	}
	tb := temp.Current()
	td := temp.Dims
	k := scale * dt
	apply(vel, Interior, func(dst, src []float32, i, x, y, z int) {
		gx, gy, gz := tempSpace.GridCoord(velSpace.CellCenter(x, y, z))
		lift := (grid.Sample(tb, td, grid.Scalar, 0, gx, gy, gz) - ambient) * k
		dst[3*i] = src[3*i] + up[0]*lift
		dst[3*i+1] = src[3*i+1] + up[1]*lift
		dst[3*i+2] = src[3*i+2] + up[2]*lift
	})
}

// Wind adds a horizontal push of strength along angle (radians from +x
// toward +z).
func Wind(vel *grid.Field, angle, strength, dt float32) {
	if strength == 0 {
		return
	}
	s, c := math.Sincos(float64(angle))
	wx := strength * dt * float32(c)
	wz := strength * dt * float32(s)
	apply(vel, Interior, func(dst, src []float32, i, _, _, _ int) {
		dst[3*i] = src[3*i] + wx
		dst[3*i+1] = src[3*i+1]
		dst[3*i+2] = src[3*i+2] + wz
	})
}

// Turbulence perturbs velocity with band-limited noise advanced along time t.
func Turbulence(vel *grid.Field, sp grid.Space, band *noise.Band, t, scale, dt float32) {
	if scale == 0 || band == nil {
		return
	}
	k := scale * dt
	apply(vel, Interior, func(dst, src []float32, i, x, y, z int) {
		n := band.Vector(sp.CellCenter(x, y, z), t)
		dst[3*i] = src[3*i] + k*n[0]
		dst[3*i+1] = src[3*i+1] + k*n[1]
		dst[3*i+2] = src[3*i+2] + k*n[2]
	})
}

// ExternalForce splats an acceleration onto velocity with a Gaussian falloff
// of the given radius around pos. pos and radius are in meters.
func ExternalForce(vel *grid.Field, sp grid.Space, pos, force [3]float32, radius, dt float32) {
	if radius <= 0 {
		return
	}
	inv := 1 / (radius * radius)
	apply(vel, Interior, func(dst, src []float32, i, x, y, z int) {
		p := sp.CellCenter(x, y, z)
		dx, dy, dz := p[0]-pos[0], p[1]-pos[1], p[2]-pos[2]
		w := dt * float32(math.Exp(float64(-(dx*dx+dy*dy+dz*dz)*inv)))
		dst[3*i] = src[3*i] + w*force[0]
		dst[3*i+1] = src[3*i+1] + w*force[1]
		dst[3*i+2] = src[3*i+2] + w*force[2]
	})
}

// Vorticity applies vorticity confinement, re-injecting the small-scale swirl
// lost to numerical dissipation. It keeps curl and curl-magnitude buffers for
// the velocity lattice it was built for.
type Vorticity struct {
	dims grid.Dims
	curl []float32
	mag  []float32
}

func NewVorticity(d grid.Dims) *Vorticity {
	return &Vorticity{
		dims: d,
		curl: make([]float32, 3*d.Cells()),
		mag:  make([]float32, d.Cells()),
	}
}

// Apply adds scale * dt * (N x w) to the interior of vel, where w is the curl
// and N the normalized gradient of its magnitude.
func (v *Vorticity) Apply(vel *grid.Field, scale, dt float32) {
	if scale == 0 {
		return
	}
	if vel.Dims != v.dims {
		*v = *NewVorticity(vel.Dims)
	}
	d := v.dims
	u := vel.Current()
	sx, sy, sz := 3, 3*d.NX, 3*d.NX*d.NY

	clear(v.curl)
	clear(v.mag)
	grid.ParallelInteriorSlices(d, func(z int) {
		for y := 1; y < d.NY-1; y++ {
			for x := 1; x < d.NX-1; x++ {
				i := d.Idx(x, y, z)
				b := 3 * i
				// d(component)/d(axis), central, in cell units.
				dwdy := (u[b+sy+2] - u[b-sy+2]) * 0.5
				dvdz := (u[b+sz+1] - u[b-sz+1]) * 0.5
				dudz := (u[b+sz] - u[b-sz]) * 0.5
				dwdx := (u[b+sx+2] - u[b-sx+2]) * 0.5
				dvdx := (u[b+sx+1] - u[b-sx+1]) * 0.5
				dudy := (u[b+sy] - u[b-sy]) * 0.5

				wx, wy, wz := dwdy-dvdz, dudz-dwdx, dvdx-dudy
				v.curl[b], v.curl[b+1], v.curl[b+2] = wx, wy, wz
				v.mag[i] = float32(math.Sqrt(float64(wx*wx + wy*wy + wz*wz)))
			}
		}
	})

	k := scale * dt
	mx, my, mz := 1, d.NX, d.NX*d.NY
	apply(vel, Interior, func(dst, src []float32, i, _, _, _ int) {
		ex := (v.mag[i+mx] - v.mag[i-mx]) * 0.5
		ey := (v.mag[i+my] - v.mag[i-my]) * 0.5
		ez := (v.mag[i+mz] - v.mag[i-mz]) * 0.5
		l := float32(math.Sqrt(float64(ex*ex+ey*ey+ez*ez))) + 1e-6
		nx, ny, nz := ex/l, ey/l, ez/l

		b := 3 * i
		wx, wy, wz := v.curl[b], v.curl[b+1], v.curl[b+2]
		dst[b] = src[b] + k*(ny*wz-nz*wy)
		dst[b+1] = src[b+1] + k*(nz*wx-nx*wz)
		dst[b+2] = src[b+2] + k*(nx*wy-ny*wx)
	})
}
