package ops

import (
	"github.com/pthm-cable/fire/config"
	"github.com/pthm-cable/fire/grid"
)

// Boundary scales for the fields the solver constrains.
const (
	VelocityScale   float32 = -1 // no-slip walls: the wall cell mirrors the flow
	PressureScale   float32 = 1  // zero normal pressure gradient
	DivergenceScale float32 = 0
	SubstanceScale  float32 = 1 // density and temperature do not flow through walls
)

// SetBoundary overwrites every boundary cell of f with scale times its
// nearest interior cell, copying the interior unchanged. Corners and edges
// take the diagonal interior neighbor. Every component of a vector field is
// scaled alike.
func SetBoundary(f *grid.Field, scale float32) {
	d := f.Dims
	n := int(f.Kind)
	src := f.Current()
	dst := f.BindWrite()

	grid.ParallelSlices(d, func(z int) {
		for y := range d.NY {
			for x := range d.NX {
				i := d.Idx(x, y, z) * n
				if !d.IsBoundary(x, y, z) {
					copy(dst[i:i+n], src[i:i+n])
					continue
				}
				cx, cy, cz := d.Clamp(x, y, z)
				j := d.Idx(cx, cy, cz) * n
				for c := range n {
					dst[i+c] = scale * src[j+c]
				}
			}
		}
	})
	f.Commit()
}

// Enforce applies SetBoundary unless boundaries are disabled.
func Enforce(mode config.BoundaryType, f *grid.Field, scale float32) {
	if mode == config.BoundaryNone {
		return
	}
	SetBoundary(f, scale)
}
