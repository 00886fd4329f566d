// Package ops implements the grid passes of the solver. Every operator reads
// the authoritative buffer of its inputs and writes the bound result buffer of
// its target, then commits; no pass reads from the buffer it writes.
//
// Velocities are stored in meters per second. Spatial derivatives inside the
// projection are taken in cell units, which is consistent because the
// projection is invariant to a uniform rescale of its input.
package ops

import "github.com/pthm-cable/fire/grid"

// Coverage selects which cells a pass writes.
type Coverage int

const (
	// Interior writes interior cells and copies boundary cells through.
	Interior Coverage = iota
	// Full writes every cell including the boundary shell.
	Full
)

func (c Coverage) String() string {
	if c == Full {
		return "full"
	}
	return "interior"
}

// kernel computes the result for cell (x, y, z), whose storage index is i,
// writing dst at i*kind. It must only read src and other committed buffers.
type kernel func(dst, src []float32, i, x, y, z int)

// apply runs k over f with the given coverage and commits the result.
func apply(f *grid.Field, cov Coverage, k kernel) {
	d := f.Dims
	n := int(f.Kind)
	src := f.Current()
	dst := f.BindWrite()

	grid.ParallelSlices(d, func(z int) {
		for y := range d.NY {
			for x := range d.NX {
				i := d.Idx(x, y, z)
				if cov == Interior && d.IsBoundary(x, y, z) {
					copy(dst[i*n:i*n+n], src[i*n:i*n+n])
					continue
				}
				k(dst, src, i, x, y, z)
			}
		}
	})
	f.Commit()
}
