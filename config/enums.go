package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceMode selects how the temperature source is applied each step.
type SourceMode int

const (
	// SourceSet overrides the temperature wherever the source is positive.
	SourceSet SourceMode = iota
	// SourceAdd adds source*dt to the temperature.
	SourceAdd
)

// SourceType selects the emitter geometry.
type SourceType int

const (
	SourceSphere SourceType = iota
	SourceDualSpheres
	SourceCube
	SourceCylinder
	SourceCone
	SourcePyramid
	SourceFloor
	SourceWall
)

// FillMode selects how fractional cell coverage scales a source value.
type FillMode int

const (
	// Intensive scales the value by the covered fraction of the cell.
	Intensive FillMode = iota
	// Extensive scales the value by the covered volume in cubic meters.
	Extensive
)

// BoundaryType selects whether boundary passes run.
type BoundaryType int

const (
	// BoundaryNone skips every boundary pass.
	BoundaryNone BoundaryType = iota
	// BoundarySome runs boundary passes with per-field scales.
	BoundarySome
)

// NoiseBasis selects the lattice noise used for turbulence.
type NoiseBasis int

const (
	NoisePerlin NoiseBasis = iota
	NoiseSimplex
)

var (
	sourceModeNames   = []string{"set", "add"}
	sourceTypeNames   = []string{"sphere", "dual_spheres", "cube", "cylinder", "cone", "pyramid", "floor", "wall"}
	fillModeNames     = []string{"intensive", "extensive"}
	boundaryTypeNames = []string{"none", "some"}
	noiseBasisNames   = []string{"perlin", "simplex"}
)

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("unknown(%d)", v)
	}
	return names[v]
}

func enumParse(kind string, names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (want one of %s)", kind, s, strings.Join(names, ", "))
}

func decodeEnum(value *yaml.Node, kind string, names []string) (int, error) {
	var s string
	if err := value.Decode(&s); err != nil {
		return 0, err
	}
	return enumParse(kind, names, s)
}

func (m SourceMode) String() string   { return enumName(sourceModeNames, int(m)) }
func (t SourceType) String() string   { return enumName(sourceTypeNames, int(t)) }
func (f FillMode) String() string     { return enumName(fillModeNames, int(f)) }
func (b BoundaryType) String() string { return enumName(boundaryTypeNames, int(b)) }
func (n NoiseBasis) String() string   { return enumName(noiseBasisNames, int(n)) }

// ParseSourceType parses a source type by name, case-insensitively.
func ParseSourceType(s string) (SourceType, error) {
	v, err := enumParse("source type", sourceTypeNames, s)
	return SourceType(v), err
}

// ParseBoundaryType parses a boundary mode by name, case-insensitively.
func ParseBoundaryType(s string) (BoundaryType, error) {
	v, err := enumParse("boundary type", boundaryTypeNames, s)
	return BoundaryType(v), err
}

func (m SourceMode) MarshalYAML() (interface{}, error)   { return m.String(), nil }
func (t SourceType) MarshalYAML() (interface{}, error)   { return t.String(), nil }
func (f FillMode) MarshalYAML() (interface{}, error)     { return f.String(), nil }
func (b BoundaryType) MarshalYAML() (interface{}, error) { return b.String(), nil }
func (n NoiseBasis) MarshalYAML() (interface{}, error)   { return n.String(), nil }

func (m *SourceMode) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "source mode", sourceModeNames)
	*m = SourceMode(v)
	return err
}

func (t *SourceType) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "source type", sourceTypeNames)
	*t = SourceType(v)
	return err
}

func (f *FillMode) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "fill mode", fillModeNames)
	*f = FillMode(v)
	return err
}

func (b *BoundaryType) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "boundary type", boundaryTypeNames)
	*b = BoundaryType(v)
	return err
}

func (n *NoiseBasis) UnmarshalYAML(value *yaml.Node) error {
	v, err := decodeEnum(value, "noise basis", noiseBasisNames)
	*n = NoiseBasis(v)
	return err
}
