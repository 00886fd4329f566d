package grid

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas32"
)

// Kind is the number of float components stored per cell.
type Kind int

const (
	Scalar Kind = 1
	Vector Kind = 3
)

// Field is a scalar or vector quantity over a lattice, backed by two equally
// sized buffers. The authoritative ("current") buffer is only ever read by
// passes; the other buffer is the write target of the pass in flight.
// Commit flips which buffer is authoritative without copying.
type Field struct {
	Name string
	Dims Dims
	Kind Kind

	bufs    [2][]float32
	cur     int
	writing bool
}

// NewField allocates a zeroed field.
func NewField(name string, dims Dims, kind Kind) *Field {
	n := dims.Cells() * int(kind)
	return &Field{
		Name: name,
		Dims: dims,
		Kind: kind,
		bufs: [2][]float32{make([]float32, n), make([]float32, n)},
	}
}

// Current returns the authoritative buffer. Callers must not write to it.
func (f *Field) Current() []float32 {
	return f.bufs[f.cur]
}

// BindWrite designates the result buffer as the output of the next pass and
// returns it. Binding twice without a Commit is a programming error.
func (f *Field) BindWrite() []float32 {
	if f.writing {
		panic(fmt.Sprintf("grid: %s already bound for write", f.Name))
	}
	f.writing = true
	return f.bufs[1-f.cur]
}

// BindWriteSlice returns the depth layer z of the bound result buffer.
// BindWrite must have been called first.
func (f *Field) BindWriteSlice(z int) []float32 {
	if !f.writing {
		panic(fmt.Sprintf("grid: %s slice %d requested without BindWrite", f.Name, z))
	}
	n := f.Dims.SliceCells() * int(f.Kind)
	return f.bufs[1-f.cur][z*n : (z+1)*n]
}

// Writing reports whether a pass currently owns the result buffer.
func (f *Field) Writing() bool {
	return f.writing
}

// Commit makes the result buffer authoritative. It is O(1).
func (f *Field) Commit() {
	if !f.writing {
		panic(fmt.Sprintf("grid: commit of %s without BindWrite", f.Name))
	}
	f.writing = false
	f.cur = 1 - f.cur
}

// Abort releases a bound write without committing it. The current buffer
// stays authoritative.
func (f *Field) Abort() {
	f.writing = false
}

// Clear zeroes both buffers.
func (f *Field) Clear() {
	for i := range f.bufs {
		clear(f.bufs[i])
	}
}

// Fill sets every component of every cell of the current buffer to v.
func (f *Field) Fill(v float32) {
	buf := f.bufs[f.cur]
	for i := range buf {
		buf[i] = v
	}
}

// Cells returns the number of lattice cells.
func (f *Field) Cells() int {
	return f.Dims.Cells()
}

// At returns component c of cell (x, y, z) of the current buffer.
func (f *Field) At(x, y, z, c int) float32 {
	return f.bufs[f.cur][f.Dims.Idx(x, y, z)*int(f.Kind)+c]
}

// Set writes component c of cell (x, y, z) of the current buffer. It is meant
// for initialization and tests, outside any pass.
func (f *Field) Set(x, y, z, c int, v float32) {
	f.bufs[f.cur][f.Dims.Idx(x, y, z)*int(f.Kind)+c] = v
}

// Sum returns the sum of absolute values over every component of the
// current buffer.
func (f *Field) Sum() float32 {
	return blas32.Asum(f.vec())
}

// Norm returns the Euclidean norm of the current buffer.
func (f *Field) Norm() float32 {
	return blas32.Nrm2(f.vec())
}

// MaxAbs returns the largest absolute component of the current buffer.
func (f *Field) MaxAbs() float32 {
	buf := f.bufs[f.cur]
	if len(buf) == 0 {
		return 0
	}
	v := buf[blas32.Iamax(f.vec())]
	if v < 0 {
		return -v
	}
	return v
}

// CopyFrom copies the current buffer of src, which must have the same shape,
// into the current buffer of f.
func (f *Field) CopyFrom(src *Field) {
	if src.Dims != f.Dims || src.Kind != f.Kind {
		panic(fmt.Sprintf("grid: copy %s (%v) into %s (%v)", src.Name, src.Dims, f.Name, f.Dims))
	}
	blas32.Copy(src.vec(), f.vec())
}

func (f *Field) vec() blas32.Vector {
	return Vec(f.bufs[f.cur])
}

// Vec wraps a buffer as a unit-stride blas32 vector.
func Vec(buf []float32) blas32.Vector {
	return blas32.Vector{N: len(buf), Inc: 1, Data: buf}
}
