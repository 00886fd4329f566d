package noise

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/fire/config"
)

// maxOctaves bounds the octave count of a band.
const maxOctaves = 16

// Basis is a single-octave 3D noise function.
type Basis interface {
	Eval3(x, y, z float32) float32
}

// NewBasis returns the basis selected by kind, seeded with seed.
func NewBasis(kind config.NoiseBasis, seed int64) Basis {
	if kind == config.NoiseSimplex {
		return opensimplex.New32(seed)
	}
	return NewPerlin(seed)
}

// Band is band-limited fractal noise: octaves of a basis at frequencies
// lo, 2lo, 4lo, ... up to hi, each weighted by 1/frequency.
type Band struct {
	basis Basis
	freqs []float32
	norm  float32
}

// NewBand builds a band over [lo, hi] cycles per meter. A degenerate band
// holds the single octave lo.
func NewBand(basis Basis, lo, hi float32) *Band {
	if lo <= 0 {
		lo = 1
	}
	b := &Band{basis: basis}
	var total float32
	for f := lo; f <= hi || len(b.freqs) == 0; f *= 2 {
		b.freqs = append(b.freqs, f)
		total += 1 / f
		if len(b.freqs) == maxOctaves {
			break
		}
	}
	b.norm = 1 / total
	return b
}

// FromSettings builds the turbulence band configured in s.
func FromSettings(s config.Settings) *Band {
	lo, hi := s.Bands()
	return NewBand(NewBasis(s.NoiseBasis, s.Seed), lo, hi)
}

// Octaves returns the number of octaves summed by Eval.
func (b *Band) Octaves() int {
	return len(b.freqs)
}

// Eval returns the normalized band value at p (meters). The result stays in
// roughly [-1, 1] regardless of octave count.
func (b *Band) Eval(x, y, z float32) float32 {
	var sum float32
	for _, f := range b.freqs {
		sum += b.basis.Eval3(x*f, y*f, z*f) / f
	}
	return sum * b.norm
}

// Vector evaluates three decorrelated channels of the band at p, advanced
// along a time axis by t.
func (b *Band) Vector(p [3]float32, t float32) [3]float32 {
	return [3]float32{
		b.Eval(p[0]+t, p[1], p[2]),
		b.Eval(p[0]+31.7, p[1]+t, p[2]-17.3),
		b.Eval(p[0]-53.1, p[1]+11.9, p[2]+t),
	}
}
