// Package grid provides the double-buffered 3D lattice fields the solver
// operates on.
package grid

import "fmt"

// Dims describes a lattice including its one-cell boundary shell on all six
// faces. Cells are stored x-fastest, then y, then z (depth).
type Dims struct {
	NX, NY, NZ int
}

// NewDims returns the dims of a lattice with the given interior size.
func NewDims(interior [3]int) Dims {
	return Dims{
		NX: max(interior[0], 1) + 2,
		NY: max(interior[1], 1) + 2,
		NZ: max(interior[2], 1) + 2,
	}
}

// Interior returns the interior cell count per axis.
func (d Dims) Interior() [3]int {
	return [3]int{d.NX - 2, d.NY - 2, d.NZ - 2}
}

// Cells returns the total number of cells including the boundary shell.
func (d Dims) Cells() int {
	return d.NX * d.NY * d.NZ
}

// SliceCells returns the number of cells in one depth slice.
func (d Dims) SliceCells() int {
	return d.NX * d.NY
}

// Idx returns the storage index of cell (x, y, z).
func (d Dims) Idx(x, y, z int) int {
	return x + d.NX*(y+d.NY*z)
}

// Coords returns the cell coordinates of a storage index.
func (d Dims) Coords(idx int) (x, y, z int) {
	x = idx % d.NX
	y = (idx / d.NX) % d.NY
	z = idx / (d.NX * d.NY)
	return x, y, z
}

// Contains reports whether (x, y, z) lies inside the lattice.
func (d Dims) Contains(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < d.NX && y < d.NY && z < d.NZ
}

// IsBoundary reports whether (x, y, z) lies on the boundary shell.
func (d Dims) IsBoundary(x, y, z int) bool {
	return x == 0 || y == 0 || z == 0 || x == d.NX-1 || y == d.NY-1 || z == d.NZ-1
}

// Clamp returns the nearest interior cell to (x, y, z).
func (d Dims) Clamp(x, y, z int) (int, int, int) {
	return clampInt(x, 1, d.NX-2), clampInt(y, 1, d.NY-2), clampInt(z, 1, d.NZ-2)
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.NX, d.NY, d.NZ)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
