package source

import (
	"math"
	"testing"

	"github.com/pthm-cable/fire/config"
	"github.com/pthm-cable/fire/grid"
)

func cubeSpace() grid.Space {
	return grid.Space{Dims: grid.NewDims([3]int{8, 8, 8}), MetersToVoxels: 4}
}

func TestAlignedCubeFillsExactly(t *testing.T) {
	sp := cubeSpace()
	cube := Cuboid{Box{Min: [3]float32{0.5, 0.5, 0.5}, Max: [3]float32{1.5, 1.5, 1.5}}}
	f := Rasterize("density", cube, sp, config.Intensive, 2)

	d := sp.Dims
	for z := range d.NZ {
		for y := range d.NY {
			for x := range d.NX {
				want := float32(0)
				if x >= 3 && x <= 6 && y >= 3 && y <= 6 && z >= 3 && z <= 6 {
					want = 2
				}
				if got := f.At(x, y, z, 0); got != want {
					t.Fatalf("cell %d,%d,%d: expected %f, got %f", x, y, z, want, got)
				}
			}
		}
	}
}

func TestAlignedFillAtTwelfths(t *testing.T) {
	sp := grid.Space{Dims: grid.NewDims([3]int{12, 12, 12}), MetersToVoxels: 12}
	cube := Cuboid{Box{Min: [3]float32{0.25, 0.25, 0.25}, Max: [3]float32{0.75, 0.75, 0.75}}}
	f := Rasterize("temperature", cube, sp, config.Intensive, 600)

	d := sp.Dims
	covered := 0
	for z := range d.NZ {
		for y := range d.NY {
			for x := range d.NX {
				want := float32(0)
				if x >= 4 && x <= 9 && y >= 4 && y <= 9 && z >= 4 && z <= 9 {
					want = 600
					covered++
				}
				if got := f.At(x, y, z, 0); got != want {
					t.Fatalf("cell %d,%d,%d: expected %f, got %f", x, y, z, want, got)
				}
			}
		}
	}
	if covered != 216 {
		t.Fatalf("expected 216 covered cells, got %d", covered)
	}

	ball := Sphere{Center: [3]float32{0.5, 0.5, 0.5}, Radius: 0.4}
	g := Rasterize("temperature", ball, sp, config.Intensive, 600)
	if got := g.At(6, 6, 6, 0); got != 600 {
		t.Errorf("cell inside the sphere: expected exactly 600, got %f", got)
	}
	if got := g.MaxAbs(); got > 600 {
		t.Errorf("intensive fill exceeded its value: %f", got)
	}

	e := Rasterize("density", cube, sp, config.Extensive, 8)
	if got := e.Sum(); math.Abs(float64(got-1)) > 1e-4 {
		t.Errorf("expected extensive total 1 over 0.125 m3, got %f", got)
	}
}

func TestHalfCellIntensiveFill(t *testing.T) {
	sp := cubeSpace()
	cube := Cuboid{Box{Min: [3]float32{0.5, 0.5, 0.5}, Max: [3]float32{1.375, 1.5, 1.5}}}
	f := Rasterize("temperature", cube, sp, config.Intensive, 2)

	if got := f.At(6, 4, 4, 0); got != 1 {
		t.Errorf("half covered cell: expected 1, got %f", got)
	}
	if got := f.At(5, 4, 4, 0); got != 2 {
		t.Errorf("fully covered cell: expected 2, got %f", got)
	}
	if got := f.At(7, 4, 4, 0); got != 0 {
		t.Errorf("uncovered cell: expected 0, got %f", got)
	}
}

func TestExtensiveTotalsMatchVolume(t *testing.T) {
	sp := cubeSpace()
	cube := Cuboid{Box{Min: [3]float32{0.5, 0.5, 0.5}, Max: [3]float32{1.5, 1.5, 1.5}}}
	f := Rasterize("density", cube, sp, config.Extensive, 3)
	if got := f.Sum(); math.Abs(float64(got-3)) > 1e-4 {
		t.Errorf("expected total 3 over 1 m3, got %f", got)
	}

	fine := grid.Space{Dims: grid.NewDims([3]int{16, 16, 16}), MetersToVoxels: 8}
	ball := Sphere{Center: [3]float32{1, 1, 1}, Radius: 0.5}
	g := Rasterize("density", ball, fine, config.Extensive, 1)
	want := ball.Volume()
	if got := g.Sum(); math.Abs(float64(got-want)) > 0.03*float64(want) {
		t.Errorf("sphere total %f differs from volume %f by more than 3%%", got, want)
	}
}

func TestTotalIndependentOfResolution(t *testing.T) {
	ball := Sphere{Center: [3]float32{1, 1, 1}, Radius: 0.4}
	coarse := grid.Space{Dims: grid.NewDims([3]int{12, 12, 12}), MetersToVoxels: 6}
	fine := grid.Space{Dims: grid.NewDims([3]int{24, 24, 24}), MetersToVoxels: 12}

	a := Rasterize("a", ball, coarse, config.Extensive, 1).Sum()
	b := Rasterize("b", ball, fine, config.Extensive, 1).Sum()
	if math.Abs(float64(a-b)) > 0.05*float64(b) {
		t.Errorf("extensive totals diverge across resolutions: %f vs %f", a, b)
	}
}

func TestShapesContainCenter(t *testing.T) {
	base := config.Default().WithSourceCenter([3]float32{0.5, 1, 0.5}).WithSourceRadius(0.2)
	for _, typ := range []config.SourceType{
		config.SourceSphere, config.SourceCube, config.SourceCylinder,
		config.SourceCone, config.SourcePyramid,
	} {
		shape := FromSettings(base.WithSourceType(typ))
		if !shape.Contains([3]float32{0.5, 1, 0.5}) {
			t.Errorf("%v does not contain its center", typ)
		}
		if shape.Contains([3]float32{0.5, 1.5, 0.5}) {
			t.Errorf("%v contains a point above its bounds", typ)
		}
	}

	dual := FromSettings(base.WithSourceType(config.SourceDualSpheres))
	if dual.Contains([3]float32{0.5, 1, 0.5}) {
		t.Error("dual spheres should leave the center empty")
	}
	if !dual.Contains([3]float32{0.8, 1, 0.5}) {
		t.Error("dual spheres should contain the right sphere center")
	}
}

func TestFloorAndWall(t *testing.T) {
	s := config.Default().WithSourceRadius(0.1)
	size := s.SimulationSize()

	floor := FromSettings(s.WithSourceType(config.SourceFloor)).Bounds()
	if floor.Min != [3]float32{} || floor.Max != [3]float32{size[0], 0.1, size[2]} {
		t.Errorf("unexpected floor bounds %+v", floor)
	}
	wall := FromSettings(s.WithSourceType(config.SourceWall)).Bounds()
	if wall.Max != [3]float32{0.1, size[1], size[2]} {
		t.Errorf("unexpected wall bounds %+v", wall)
	}
}

func TestBuildUsesBothResolutions(t *testing.T) {
	s := config.Default().WithSourceVelocity(2)
	set := Build(s)

	if set.Density.Dims != grid.NewDims(s.Size(config.Substance)) {
		t.Errorf("density source on wrong grid: %v", set.Density.Dims)
	}
	if set.Velocity.Dims != grid.NewDims(s.Size(config.Velocity)) || set.Velocity.Kind != grid.Vector {
		t.Errorf("velocity source on wrong grid: %v", set.Velocity.Dims)
	}
	if set.Temperature.MaxAbs() <= 0 || set.Density.MaxAbs() <= 0 {
		t.Error("expected non-empty temperature and density sources")
	}
	if set.Temperature.MaxAbs() > s.SourceTemperature {
		t.Errorf("intensive temperature exceeds source value: %f", set.Temperature.MaxAbs())
	}

	c := s.Center()
	vs := SpaceFor(s, config.Velocity)
	gx, gy, gz := vs.GridCoord(c)
	if got := set.Velocity.At(int(gx), int(gy), int(gz), 1); got <= 0 {
		t.Errorf("expected upward velocity source at the center, got %f", got)
	}
}
