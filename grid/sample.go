package grid

import "math"

// Space ties a lattice to physical coordinates. Interior cell i (1-based)
// covers meters [(i-1)/MetersToVoxels, i/MetersToVoxels) on every axis, so the
// boundary shell lies just outside the physical volume.
type Space struct {
	Dims           Dims
	MetersToVoxels float32
}

// GridCoord converts a position in meters to continuous cell coordinates,
// where integer values are cell centers.
func (s Space) GridCoord(p [3]float32) (gx, gy, gz float32) {
	m := s.MetersToVoxels
	return p[0]*m + 0.5, p[1]*m + 0.5, p[2]*m + 0.5
}

// CellCenter returns the center of cell (x, y, z) in meters.
func (s Space) CellCenter(x, y, z int) [3]float32 {
	inv := 1 / s.MetersToVoxels
	return [3]float32{
		(float32(x) - 0.5) * inv,
		(float32(y) - 0.5) * inv,
		(float32(z) - 0.5) * inv,
	}
}

// CellBox returns the axis-aligned extent of cell (x, y, z) in meters.
func (s Space) CellBox(x, y, z int) (lo, hi [3]float32) {
	inv := 1 / s.MetersToVoxels
	lo = [3]float32{float32(x-1) * inv, float32(y-1) * inv, float32(z-1) * inv}
	hi = [3]float32{float32(x) * inv, float32(y) * inv, float32(z) * inv}
	return lo, hi
}

// CellVolume returns the volume of one cell in cubic meters.
func (s Space) CellVolume() float32 {
	inv := 1 / s.MetersToVoxels
	return inv * inv * inv
}

// Sample trilinearly interpolates component c of buf, a buffer of the given
// dims and kind, at continuous cell coordinates. Coordinates are clamped to
// the lattice so sampling never reads out of bounds.
func Sample(buf []float32, d Dims, kind Kind, c int, gx, gy, gz float32) float32 {
	gx = clampF(gx, 0, float32(d.NX-1))
	gy = clampF(gy, 0, float32(d.NY-1))
	gz = clampF(gz, 0, float32(d.NZ-1))

	x0 := int(gx)
	y0 := int(gy)
	z0 := int(gz)
	x1 := min(x0+1, d.NX-1)
	y1 := min(y0+1, d.NY-1)
	z1 := min(z0+1, d.NZ-1)
	fx := gx - float32(x0)
	fy := gy - float32(y0)
	fz := gz - float32(z0)

	k := int(kind)
	at := func(x, y, z int) float32 {
		return buf[d.Idx(x, y, z)*k+c]
	}

	c00 := lerp(at(x0, y0, z0), at(x1, y0, z0), fx)
	c10 := lerp(at(x0, y1, z0), at(x1, y1, z0), fx)
	c01 := lerp(at(x0, y0, z1), at(x1, y0, z1), fx)
	c11 := lerp(at(x0, y1, z1), at(x1, y1, z1), fx)
	return lerp(lerp(c00, c10, fy), lerp(c01, c11, fy), fz)
}

// SampleVec samples all three components of a vector buffer.
func SampleVec(buf []float32, d Dims, gx, gy, gz float32) [3]float32 {
	return [3]float32{
		Sample(buf, d, Vector, 0, gx, gy, gz),
		Sample(buf, d, Vector, 1, gx, gy, gz),
		Sample(buf, d, Vector, 2, gx, gy, gz),
	}
}

// SampleAt samples the current buffer of f at a position in meters.
func (s Space) SampleAt(f *Field, c int, p [3]float32) float32 {
	gx, gy, gz := s.GridCoord(p)
	return Sample(f.Current(), f.Dims, f.Kind, c, gx, gy, gz)
}

func lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func clampF(v, lo, hi float32) float32 {
	if math.IsNaN(float64(v)) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
