package ops

import (
	"math"
	"testing"

	"github.com/pthm-cable/fire/config"
	"github.com/pthm-cable/fire/grid"
)

// sourceBlob fills vel with the gradient of a Gaussian centered in the
// lattice: a smooth, purely divergent flow that vanishes near the walls.
func sourceBlob(d grid.Dims) *grid.Field {
	vel := grid.NewField("velocity", d, grid.Vector)
	cx, cy, cz := float64(d.NX-1)/2, float64(d.NY-1)/2, float64(d.NZ-1)/2
	const sigma2 = 9.0
	for z := range d.NZ {
		for y := range d.NY {
			for x := range d.NX {
				dx, dy, dz := float64(x)-cx, float64(y)-cy, float64(z)-cz
				g := math.Exp(-(dx*dx + dy*dy + dz*dz) / sigma2)
				vel.Set(x, y, z, 0, float32(dx*g))
				vel.Set(x, y, z, 1, float32(dy*g))
				vel.Set(x, y, z, 2, float32(dz*g))
			}
		}
	}
	return vel
}

func TestProjectionReducesDivergence(t *testing.T) {
	d := grid.NewDims([3]int{20, 20, 20})
	proj := NewProjector(d)

	prev := float32(math.Inf(1))
	for _, iters := range []int{0, 2, 8, 32} {
		vel := sourceBlob(d)
		proj.Project(vel, iters, config.BoundarySome)
		norm := DivergenceNorm(vel)
		if !(norm < prev) {
			t.Errorf("%d iterations: divergence norm %f did not drop below %f", iters, norm, prev)
		}
		prev = norm
	}
}

func TestProjectionResetsScratch(t *testing.T) {
	d := grid.NewDims([3]int{12, 12, 12})
	proj := NewProjector(d)

	a := sourceBlob(d)
	proj.Project(a, 10, config.BoundarySome)

	// A second projection of a fresh copy must not inherit pressure from the
	// first call.
	b := sourceBlob(d)
	proj.Project(b, 10, config.BoundarySome)

	for i, v := range a.Current() {
		if b.Current()[i] != v {
			t.Fatalf("projection depends on previous call at %d: %f vs %f", i, v, b.Current()[i])
		}
	}
}

func TestProjectionEnforcesVelocityBoundary(t *testing.T) {
	d := grid.NewDims([3]int{6, 6, 6})
	vel := sourceBlob(d)
	NewProjector(d).Project(vel, 4, config.BoundarySome)

	if got, want := vel.At(0, 3, 3, 0), -vel.At(1, 3, 3, 0); got != want {
		t.Errorf("expected mirrored wall velocity %f, got %f", want, got)
	}
}

func TestMaxDivergence(t *testing.T) {
	d := grid.NewDims([3]int{4, 4, 4})
	vel := grid.NewField("velocity", d, grid.Vector)
	if MaxDivergence(vel) != 0 {
		t.Error("expected zero divergence for still fluid")
	}
	// u = x gives a central divergence of 1 everywhere inside.
	for z := range d.NZ {
		for y := range d.NY {
			for x := range d.NX {
				vel.Set(x, y, z, 0, float32(x))
			}
		}
	}
	if got := MaxDivergence(vel); got != 1 {
		t.Errorf("expected divergence 1, got %f", got)
	}
	if got, want := DivergenceNorm(vel), float32(8); math.Abs(float64(got-want)) > 1e-5 {
		t.Errorf("expected norm sqrt(64) = 8, got %f", got)
	}
}

func BenchmarkProject(b *testing.B) {
	d := grid.NewDims([3]int{24, 96, 24})
	vel := sourceBlob(d)
	proj := NewProjector(d)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		proj.Project(vel, 20, config.BoundarySome)
	}
}

func BenchmarkAdvect(b *testing.B) {
	vs := grid.Space{Dims: grid.NewDims([3]int{12, 48, 12}), MetersToVoxels: 12}
	ss := grid.Space{Dims: grid.NewDims([3]int{24, 96, 24}), MetersToVoxels: 24}
	vel := sourceBlob(vs.Dims)
	f := grid.NewField("density", ss.Dims, grid.Scalar)
	f.Fill(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Advect(vel, vs, f, ss, 1.0/30, Full)
	}
}
