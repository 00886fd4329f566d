package source

import (
	"github.com/pthm-cable/fire/config"
	"github.com/pthm-cable/fire/grid"
)

// samplesPerAxis is the supersampling density used to estimate the inside
// fraction of curved shapes within one cell.
const samplesPerAxis = 4

// dualSphereOffset is the center offset of each dual sphere along x, in radii.
const dualSphereOffset = 1.5

// SpaceFor returns the lattice and meter mapping of one grid of s.
func SpaceFor(s config.Settings, res config.Resolution) grid.Space {
	return grid.Space{
		Dims:           grid.NewDims(s.Size(res)),
		MetersToVoxels: s.MetersToVoxels(res),
	}
}

// FromSettings returns the emitter shape configured in s, in meters.
func FromSettings(s config.Settings) Shape {
	c := s.Center()
	r := s.SourceRadius
	size := s.SimulationSize()

	switch s.SourceType {
	case config.SourceDualSpheres:
		d := dualSphereOffset * r
		return Union{
			A: Sphere{Center: [3]float32{c[0] - d, c[1], c[2]}, Radius: r},
			B: Sphere{Center: [3]float32{c[0] + d, c[1], c[2]}, Radius: r},
		}
	case config.SourceCube:
		return Cuboid{Box{
			Min: [3]float32{c[0] - r, c[1] - r, c[2] - r},
			Max: [3]float32{c[0] + r, c[1] + r, c[2] + r},
		}}
	case config.SourceCylinder:
		return Cylinder{Center: c, Radius: r, HalfHeight: r}
	case config.SourceCone:
		return Cone{Base: [3]float32{c[0], c[1] - r, c[2]}, Radius: r, Height: 2 * r}
	case config.SourcePyramid:
		return Pyramid{Base: [3]float32{c[0], c[1] - r, c[2]}, Half: r, Height: 2 * r}
	case config.SourceFloor:
		return Cuboid{Box{Max: [3]float32{size[0], r, size[2]}}}
	case config.SourceWall:
		return Cuboid{Box{Max: [3]float32{r, size[1], size[2]}}}
	default:
		return Sphere{Center: c, Radius: r}
	}
}

// Overlap returns, per cell of sp, the fraction of the cell the shape
// covers, in [0, 1]. Boundary cells are included. Cell edges are compared in
// grid units, where they are integers, so a fully covered cell is exactly 1.
func Overlap(shape Shape, sp grid.Space) []float32 {
	d := sp.Dims
	out := make([]float32, d.Cells())
	bounds := shape.Bounds()
	if bounds.Empty() {
		return out
	}

	m := sp.MetersToVoxels
	var lo, hi [3]float32
	for i := range 3 {
		lo[i] = bounds.Min[i] * m
		hi[i] = bounds.Max[i] * m
	}

	grid.ParallelSlices(d, func(z int) {
		fz := span(lo[2], hi[2], z)
		if fz == 0 {
			return
		}
		for y := range d.NY {
			fy := span(lo[1], hi[1], y)
			if fy == 0 {
				continue
			}
			for x := range d.NX {
				fx := span(lo[0], hi[0], x)
				if fx == 0 {
					continue
				}
				frac := fx * fy * fz
				if !shape.Exact() {
					cmin, cmax := sp.CellBox(x, y, z)
					frac *= insideFraction(shape, Box{Min: cmin, Max: cmax}.Intersect(bounds))
				}
				out[d.Idx(x, y, z)] = frac
			}
		}
	})
	return out
}

// span is the share of cell i, which covers [i-1, i) in grid units, lying
// inside [lo, hi).
func span(lo, hi float32, i int) float32 {
	return max(min(hi, float32(i))-max(lo, float32(i-1)), 0)
}

// insideFraction estimates the share of b inside shape from a regular
// samplesPerAxis^3 lattice of sample points.
func insideFraction(shape Shape, b Box) float32 {
	var step [3]float32
	for i := range 3 {
		step[i] = (b.Max[i] - b.Min[i]) / samplesPerAxis
	}
	inside := 0
	for k := range samplesPerAxis {
		for j := range samplesPerAxis {
			for i := range samplesPerAxis {
				p := [3]float32{
					b.Min[0] + (float32(i)+0.5)*step[0],
					b.Min[1] + (float32(j)+0.5)*step[1],
					b.Min[2] + (float32(k)+0.5)*step[2],
				}
				if shape.Contains(p) {
					inside++
				}
			}
		}
	}
	return float32(inside) / (samplesPerAxis * samplesPerAxis * samplesPerAxis)
}

// Rasterize returns a scalar field holding value over shape. With Extensive
// fill a cell receives value per cubic meter of overlap; with Intensive fill
// it receives value scaled by the fraction of the cell covered, so a fully
// covered cell holds value exactly.
func Rasterize(name string, shape Shape, sp grid.Space, mode config.FillMode, value float32) *grid.Field {
	f := grid.NewField(name, sp.Dims, grid.Scalar)
	scale := weight(sp, mode) * value
	buf := f.Current()
	for i, v := range Overlap(shape, sp) {
		buf[i] = v * scale
	}
	return f
}

// RasterizeVector is Rasterize for a vector field pointing along dir.
func RasterizeVector(name string, shape Shape, sp grid.Space, mode config.FillMode, dir [3]float32) *grid.Field {
	f := grid.NewField(name, sp.Dims, grid.Vector)
	w := weight(sp, mode)
	buf := f.Current()
	for i, v := range Overlap(shape, sp) {
		if v == 0 {
			continue
		}
		buf[3*i] = v * w * dir[0]
		buf[3*i+1] = v * w * dir[1]
		buf[3*i+2] = v * w * dir[2]
	}
	return f
}

func weight(sp grid.Space, mode config.FillMode) float32 {
	if mode == config.Extensive {
		return sp.CellVolume()
	}
	return 1
}

// Set holds the three emitter fields of a simulation.
type Set struct {
	Density     *grid.Field // substance grid
	Temperature *grid.Field // substance grid
	Velocity    *grid.Field // velocity grid, m/s
}

// Build rasterizes every emitter field for s.
func Build(s config.Settings) Set {
	shape := FromSettings(s)
	sub := SpaceFor(s, config.Substance)
	vel := SpaceFor(s, config.Velocity)

	return Set{
		Density:     Rasterize("density source", shape, sub, s.DensityFill, s.SourceDensity),
		Temperature: Rasterize("temperature source", shape, sub, config.Intensive, s.SourceTemperature),
		Velocity:    RasterizeVector("velocity source", shape, vel, config.Intensive, [3]float32{0, s.SourceVelocity, 0}),
	}
}
