// Package source builds the emitter fields injected into the simulation every
// step. Shapes are defined in meters and rasterized onto a grid by fractional
// cell overlap, so the injected amount does not depend on grid resolution.
package source

import "math"

// Box is an axis-aligned box in meters.
type Box struct {
	Min, Max [3]float32
}

// Intersect returns the overlap of two boxes. The result may be empty.
func (b Box) Intersect(o Box) Box {
	var r Box
	for i := range 3 {
		r.Min[i] = max(b.Min[i], o.Min[i])
		r.Max[i] = min(b.Max[i], o.Max[i])
	}
	return r
}

// Empty reports whether the box has no volume.
func (b Box) Empty() bool {
	return b.Max[0] <= b.Min[0] || b.Max[1] <= b.Min[1] || b.Max[2] <= b.Min[2]
}

// Volume returns the box volume in cubic meters, zero when empty.
func (b Box) Volume() float32 {
	if b.Empty() {
		return 0
	}
	return (b.Max[0] - b.Min[0]) * (b.Max[1] - b.Min[1]) * (b.Max[2] - b.Min[2])
}

func (b Box) Contains(p [3]float32) bool {
	return p[0] >= b.Min[0] && p[0] < b.Max[0] &&
		p[1] >= b.Min[1] && p[1] < b.Max[1] &&
		p[2] >= b.Min[2] && p[2] < b.Max[2]
}

// union grows b to cover o.
func (b Box) union(o Box) Box {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], o.Min[i])
		b.Max[i] = max(b.Max[i], o.Max[i])
	}
	return b
}

// Shape is an emitter volume in meters.
type Shape interface {
	// Bounds returns a box enclosing the shape.
	Bounds() Box
	// Contains reports whether p lies inside the shape.
	Contains(p [3]float32) bool
	// Volume returns the analytic volume in cubic meters.
	Volume() float32
	// Exact reports whether the shape fills its bounds completely, in which
	// case overlap can be computed without sampling.
	Exact() bool
}

// Sphere is a ball.
type Sphere struct {
	Center [3]float32
	Radius float32
}

func (s Sphere) Bounds() Box {
	r := s.Radius
	return Box{
		Min: [3]float32{s.Center[0] - r, s.Center[1] - r, s.Center[2] - r},
		Max: [3]float32{s.Center[0] + r, s.Center[1] + r, s.Center[2] + r},
	}
}

func (s Sphere) Contains(p [3]float32) bool {
	dx := p[0] - s.Center[0]
	dy := p[1] - s.Center[1]
	dz := p[2] - s.Center[2]
	return dx*dx+dy*dy+dz*dz <= s.Radius*s.Radius
}

func (s Sphere) Volume() float32 {
	r := float64(s.Radius)
	return float32(4.0 / 3.0 * math.Pi * r * r * r)
}

func (s Sphere) Exact() bool { return false }

// Union covers the points of either shape. Volume assumes no overlap.
type Union struct {
	A, B Shape
}

func (u Union) Bounds() Box {
	return u.A.Bounds().union(u.B.Bounds())
}

func (u Union) Contains(p [3]float32) bool {
	return u.A.Contains(p) || u.B.Contains(p)
}

func (u Union) Volume() float32 { return u.A.Volume() + u.B.Volume() }

func (u Union) Exact() bool { return false }

// Cuboid is a solid axis-aligned box.
type Cuboid struct {
	Box
}

func (c Cuboid) Bounds() Box { return c.Box }

func (c Cuboid) Exact() bool { return true }

// Cylinder is a vertical (y axis) cylinder.
type Cylinder struct {
	Center     [3]float32
	Radius     float32
	HalfHeight float32
}

func (c Cylinder) Bounds() Box {
	r, h := c.Radius, c.HalfHeight
	return Box{
		Min: [3]float32{c.Center[0] - r, c.Center[1] - h, c.Center[2] - r},
		Max: [3]float32{c.Center[0] + r, c.Center[1] + h, c.Center[2] + r},
	}
}

func (c Cylinder) Contains(p [3]float32) bool {
	dy := p[1] - c.Center[1]
	if dy < -c.HalfHeight || dy > c.HalfHeight {
		return false
	}
	dx := p[0] - c.Center[0]
	dz := p[2] - c.Center[2]
	return dx*dx+dz*dz <= c.Radius*c.Radius
}

func (c Cylinder) Volume() float32 {
	r := float64(c.Radius)
	return float32(math.Pi * r * r * 2 * float64(c.HalfHeight))
}

func (c Cylinder) Exact() bool { return false }

// Cone stands on a circular base at Base with its apex Height above it.
type Cone struct {
	Base   [3]float32
	Radius float32
	Height float32
}

func (c Cone) Bounds() Box {
	r := c.Radius
	return Box{
		Min: [3]float32{c.Base[0] - r, c.Base[1], c.Base[2] - r},
		Max: [3]float32{c.Base[0] + r, c.Base[1] + c.Height, c.Base[2] + r},
	}
}

func (c Cone) Contains(p [3]float32) bool {
	if c.Height <= 0 {
		return false
	}
	t := (p[1] - c.Base[1]) / c.Height
	if t < 0 || t > 1 {
		return false
	}
	r := c.Radius * (1 - t)
	dx := p[0] - c.Base[0]
	dz := p[2] - c.Base[2]
	return dx*dx+dz*dz <= r*r
}

func (c Cone) Volume() float32 {
	r := float64(c.Radius)
	return float32(math.Pi * r * r * float64(c.Height) / 3)
}

func (c Cone) Exact() bool { return false }

// Pyramid stands on a square base of half side Half centered at Base.
type Pyramid struct {
	Base   [3]float32
	Half   float32
	Height float32
}

func (p Pyramid) Bounds() Box {
	h := p.Half
	return Box{
		Min: [3]float32{p.Base[0] - h, p.Base[1], p.Base[2] - h},
		Max: [3]float32{p.Base[0] + h, p.Base[1] + p.Height, p.Base[2] + h},
	}
}

func (p Pyramid) Contains(q [3]float32) bool {
	if p.Height <= 0 {
		return false
	}
	t := (q[1] - p.Base[1]) / p.Height
	if t < 0 || t > 1 {
		return false
	}
	h := p.Half * (1 - t)
	return abs(q[0]-p.Base[0]) <= h && abs(q[2]-p.Base[2]) <= h
}

func (p Pyramid) Volume() float32 {
	side := 2 * p.Half
	return side * side * p.Height / 3
}

func (p Pyramid) Exact() bool { return false }

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
