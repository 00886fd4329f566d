package main

import (
	"testing"

	"github.com/pthm-cable/fire/grid"
)

func TestDensitySlice(t *testing.T) {
	f := grid.NewField("density", grid.NewDims([3]int{4, 6, 4}), grid.Scalar)
	z := f.Dims.NZ / 2
	f.Set(1, 1, z, 0, 2)
	f.Set(4, 6, z, 0, 1)

	img := densitySlice(f)
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 6 {
		t.Fatalf("expected 4x6 image, got %v", b)
	}
	// Bottom-left cell is the brightest; y is flipped.
	if got := img.GrayAt(0, 5).Y; got != 255 {
		t.Errorf("bottom-left = %d, want 255", got)
	}
	if got := img.GrayAt(3, 0).Y; got != 128 {
		t.Errorf("top-right = %d, want 128", got)
	}
	if got := img.GrayAt(2, 2).Y; got != 0 {
		t.Errorf("empty cell = %d, want 0", got)
	}
}

func TestDensitySliceEmpty(t *testing.T) {
	f := grid.NewField("density", grid.NewDims([3]int{3, 3, 3}), grid.Scalar)
	img := densitySlice(f)
	for _, v := range img.Pix {
		if v != 0 {
			t.Fatal("expected a black image for an empty field")
		}
	}
}
