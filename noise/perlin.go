// Package noise provides seeded, deterministic 3D noise for the turbulence
// layer. Every generator is fully determined by its seed and immutable after
// construction, so it may be shared between goroutines.
package noise

import (
	"math"
	"math/rand/v2"
)

// Perlin is classic gradient noise over a seeded permutation lattice.
type Perlin struct {
	perm [512]uint8
}

// NewPerlin builds the permutation table for seed.
func NewPerlin(seed int64) *Perlin {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))

	var perm [256]uint8
	for i := range perm {
		perm[i] = uint8(i)
	}
	rng.Shuffle(len(perm), func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})

	p := &Perlin{}
	copy(p.perm[:256], perm[:])
	copy(p.perm[256:], perm[:])
	return p
}

// Eval3 returns noise in roughly [-1, 1] at (x, y, z).
func (p *Perlin) Eval3(x, y, z float32) float32 {
	return float32(p.noise(float64(x), float64(y), float64(z)))
}

func (p *Perlin) noise(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	X := int(fx) & 255
	Y := int(fy) & 255
	Z := int(fz) & 255
	x -= fx
	y -= fy
	z -= fz

	u := fade(x)
	v := fade(y)
	w := fade(z)

	perm := &p.perm
	a := int(perm[X]) + Y
	aa := int(perm[a]) + Z
	ab := int(perm[a+1]) + Z
	b := int(perm[X+1]) + Y
	ba := int(perm[b]) + Z
	bb := int(perm[b+1]) + Z

	return lerp(w,
		lerp(v,
			lerp(u, grad(perm[aa], x, y, z), grad(perm[ba], x-1, y, z)),
			lerp(u, grad(perm[ab], x, y-1, z), grad(perm[bb], x-1, y-1, z))),
		lerp(v,
			lerp(u, grad(perm[aa+1], x, y, z-1), grad(perm[ba+1], x-1, y, z-1)),
			lerp(u, grad(perm[ab+1], x, y-1, z-1), grad(perm[bb+1], x-1, y-1, z-1))))
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad picks one of 12 edge gradients from the low hash bits.
func grad(hash uint8, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
