package ops

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/fire/grid"
)

// AddSource adds src*dt to every cell of f.
func AddSource(f, src *grid.Field, dt float32) {
	checkShape(f, src)
	cur := grid.Vec(f.Current())
	dst := grid.Vec(f.BindWrite())
	blas32.Copy(cur, dst)
	blas32.Axpy(dt, grid.Vec(src.Current()), dst)
	f.Commit()
}

// SetSource replaces every cell of f where src is positive with src.
func SetSource(f, src *grid.Field) {
	checkShape(f, src)
	s := src.Current()
	n := int(f.Kind)
	apply(f, Full, func(dst, cur []float32, i, _, _, _ int) {
		for c := i * n; c < i*n+n; c++ {
			if s[c] > 0 {
				dst[c] = s[c]
			} else {
				dst[c] = cur[c]
			}
		}
	})
}

func checkShape(f, src *grid.Field) {
	if f.Dims != src.Dims || f.Kind != src.Kind {
		panic(fmt.Sprintf("ops: source %s (%v) does not match %s (%v)", src.Name, src.Dims, f.Name, f.Dims))
	}
}
