package grid

import (
	"math"
	"sync/atomic"
	"testing"
)

func TestDimsIndex(t *testing.T) {
	d := NewDims([3]int{4, 5, 6})
	if d != (Dims{6, 7, 8}) {
		t.Fatalf("expected 6x7x8 with shell, got %v", d)
	}

	for _, c := range [][3]int{{0, 0, 0}, {5, 6, 7}, {2, 3, 4}, {1, 0, 7}} {
		idx := d.Idx(c[0], c[1], c[2])
		x, y, z := d.Coords(idx)
		if x != c[0] || y != c[1] || z != c[2] {
			t.Errorf("Coords(Idx(%v)) = %d,%d,%d", c, x, y, z)
		}
	}
	if d.Idx(1, 0, 0)-d.Idx(0, 0, 0) != 1 {
		t.Error("x should be the fastest axis")
	}
	if !d.IsBoundary(0, 3, 3) || !d.IsBoundary(3, 3, 7) || d.IsBoundary(1, 1, 1) {
		t.Error("IsBoundary misclassified cells")
	}
	if x, y, z := d.Clamp(0, 9, 3); x != 1 || y != 5 || z != 3 {
		t.Errorf("Clamp(0,9,3) = %d,%d,%d", x, y, z)
	}
}

func TestCommitIdempotence(t *testing.T) {
	g := NewField("temperature", NewDims([3]int{3, 3, 3}), Scalar)
	g.Set(1, 2, 3, 0, 4)
	orig := &g.Current()[0]
	g.BindWrite()
	g.Commit()
	g.BindWrite()
	g.Commit()
	if &g.Current()[0] != orig {
		t.Error("two flips should return to the original buffer")
	}
	if g.At(1, 2, 3, 0) != 4 {
		t.Errorf("expected original content after two empty flips, got %f", g.At(1, 2, 3, 0))
	}
}

func TestBindWriteTwicePanics(t *testing.T) {
	f := NewField("velocity", NewDims([3]int{2, 2, 2}), Vector)
	f.BindWrite()
	defer func() {
		if recover() == nil {
			t.Error("expected panic on second BindWrite")
		}
	}()
	f.BindWrite()
}

func TestCommitWithoutBindPanics(t *testing.T) {
	f := NewField("velocity", NewDims([3]int{2, 2, 2}), Vector)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on Commit without BindWrite")
		}
	}()
	f.Commit()
}

func TestBindWriteSlice(t *testing.T) {
	d := NewDims([3]int{2, 2, 2})
	f := NewField("velocity", d, Vector)
	f.BindWrite()
	s := f.BindWriteSlice(1)
	if len(s) != d.SliceCells()*3 {
		t.Fatalf("expected %d floats per slice, got %d", d.SliceCells()*3, len(s))
	}
	s[0] = 5
	f.Commit()
	if got := f.At(0, 0, 1, 0); got != 5 {
		t.Errorf("slice write not visible after commit, got %f", got)
	}
}

func TestFieldReductions(t *testing.T) {
	f := NewField("density", NewDims([3]int{2, 2, 2}), Scalar)
	f.Set(1, 1, 1, 0, 3)
	f.Set(2, 2, 2, 0, -4)

	if got := f.Sum(); got != 7 {
		t.Errorf("expected Sum 7, got %f", got)
	}
	if got := f.Norm(); math.Abs(float64(got-5)) > 1e-6 {
		t.Errorf("expected Norm 5, got %f", got)
	}
	if got := f.MaxAbs(); got != 4 {
		t.Errorf("expected MaxAbs 4, got %f", got)
	}

	g := NewField("copy", f.Dims, Scalar)
	g.CopyFrom(f)
	if g.At(2, 2, 2, 0) != -4 {
		t.Error("CopyFrom did not copy")
	}
}

func TestSampleTrilinear(t *testing.T) {
	d := NewDims([3]int{2, 2, 2})
	f := NewField("ramp", d, Scalar)
	for z := range d.NZ {
		for y := range d.NY {
			for x := range d.NX {
				f.Set(x, y, z, 0, float32(x+10*y+100*z))
			}
		}
	}
	buf := f.Current()

	// A linear function is reproduced exactly.
	if got := Sample(buf, d, Scalar, 0, 1.5, 1.25, 2); math.Abs(float64(got-(1.5+12.5+200))) > 1e-4 {
		t.Errorf("expected 214, got %f", got)
	}
	// Out-of-range coordinates clamp to the last cell.
	if got := Sample(buf, d, Scalar, 0, -3, 99, 1); got != 0+30+100 {
		t.Errorf("expected clamped 130, got %f", got)
	}
}

func TestSpaceMapping(t *testing.T) {
	s := Space{Dims: NewDims([3]int{4, 4, 4}), MetersToVoxels: 4}

	c := s.CellCenter(1, 1, 1)
	if c != [3]float32{0.125, 0.125, 0.125} {
		t.Errorf("expected first center at 0.125 m, got %v", c)
	}
	gx, gy, gz := s.GridCoord(c)
	if gx != 1 || gy != 1 || gz != 1 {
		t.Errorf("center should map back to cell 1, got %f,%f,%f", gx, gy, gz)
	}
	lo, hi := s.CellBox(4, 1, 2)
	if lo != [3]float32{0.75, 0, 0.25} || hi != [3]float32{1, 0.25, 0.5} {
		t.Errorf("unexpected cell box %v..%v", lo, hi)
	}
	if v := s.CellVolume(); v != 1.0/64 {
		t.Errorf("expected cell volume 1/64, got %f", v)
	}
}

func TestParallelSlicesVisitsEachOnce(t *testing.T) {
	d := NewDims([3]int{40, 40, 40})
	counts := make([]int32, d.NZ)
	ParallelSlices(d, func(z int) {
		atomic.AddInt32(&counts[z], 1)
	})
	for z, n := range counts {
		if n != 1 {
			t.Errorf("slice %d visited %d times", z, n)
		}
	}

	var interior int32
	ParallelInteriorSlices(d, func(z int) {
		if z == 0 || z == d.NZ-1 {
			t.Errorf("interior dispatch visited boundary slice %d", z)
		}
		atomic.AddInt32(&interior, 1)
	})
	if int(interior) != d.NZ-2 {
		t.Errorf("expected %d interior slices, got %d", d.NZ-2, interior)
	}
}

func TestParallelSlicesPanicReachesCaller(t *testing.T) {
	d := NewDims([3]int{40, 40, 40})
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected the kernel panic on the calling goroutine")
		}
		if r != "bad slice" {
			t.Errorf("unexpected panic value %v", r)
		}
	}()
	ParallelSlices(d, func(z int) {
		if z == d.NZ/2 {
			panic("bad slice")
		}
	})
}
