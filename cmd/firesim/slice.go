package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pthm-cable/fire/grid"
	"github.com/pthm-cable/fire/sim"
)

// writeSlice writes the middle z slice of density as a grayscale PNG, with
// y pointing up and the brightest cell mapped to white.
func writeSlice(dir string, frame sim.Output) error {
	img := densitySlice(frame.Density)

	path := filepath.Join(dir, fmt.Sprintf("density_%06d.png", frame.Step))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating slice: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding slice: %w", err)
	}
	return f.Close()
}

func densitySlice(f *grid.Field) *image.Gray {
	d := f.Dims
	in := d.Interior()
	z := d.NZ / 2

	var peak float32
	for y := 1; y < d.NY-1; y++ {
		for x := 1; x < d.NX-1; x++ {
			peak = max(peak, f.At(x, y, z, 0))
		}
	}

	img := image.NewGray(image.Rect(0, 0, in[0], in[1]))
	if peak <= 0 {
		return img
	}
	for y := 1; y < d.NY-1; y++ {
		for x := 1; x < d.NX-1; x++ {
			v := max(f.At(x, y, z, 0), 0) / peak
			img.SetGray(x-1, in[1]-y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}
