// Package config provides the immutable solver settings and their loading.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Resolution selects one of the two coupled grids.
type Resolution int

const (
	// Velocity is the coarse grid carrying the velocity field.
	Velocity Resolution = iota
	// Substance is the (generally finer) grid carrying density and temperature.
	Substance
)

func (r Resolution) String() string {
	if r == Substance {
		return "substance"
	}
	return "velocity"
}

// Diffusion holds the implicit diffusion parameters of one field.
type Diffusion struct {
	Viscosity  float32 `yaml:"viscosity"`  // kinematic viscosity, m2/s (0 disables)
	Iterations int     `yaml:"iterations"` // Jacobi iterations per step
}

// Settings is an immutable snapshot of every tunable solver parameter.
// Methods named With* return a modified copy and never touch the receiver.
type Settings struct {
	Name string `yaml:"name"`

	// Grid
	SizeRatio       [3]int  `yaml:"size_ratio"`       // interior cells per scale unit, per axis
	VelocityScale   int     `yaml:"velocity_scale"`   // velocity grid cells per ratio unit
	SubstanceScale  int     `yaml:"substance_scale"`  // substance grid cells per ratio unit
	SimulationScale float32 `yaml:"simulation_scale"` // meters per ratio unit
	DeltaTime       float32 `yaml:"delta_time"`       // seconds per step

	// Source
	SourceMode        SourceMode `yaml:"source_mode"`
	SourceType        SourceType `yaml:"source_type"`
	SourceTemperature float32    `yaml:"source_temperature"`
	SourceDensity     float32    `yaml:"source_density"`
	SourceRadius      float32    `yaml:"source_radius"`   // meters
	SourceVelocity    float32    `yaml:"source_velocity"` // m/s, upward
	SourceCenter      [3]float32 `yaml:"source_center"`   // meters, zero = default placement
	DensityFill       FillMode   `yaml:"density_fill"`

	// Physics
	VelDiffusion         Diffusion `yaml:"vel_diffusion"`
	TempDiffusion        Diffusion `yaml:"temp_diffusion"`
	SmokeDiffusion       Diffusion `yaml:"smoke_diffusion"`
	VorticityScale       float32   `yaml:"vorticity_scale"`
	BuoyancyScale        float32   `yaml:"buoyancy_scale"`
	AmbientTemperature   float32   `yaml:"ambient_temperature"`
	ProjectionIterations int       `yaml:"projection_iterations"`
	SmokeDissipation     float32   `yaml:"smoke_dissipation"`
	TempDissipation      float32   `yaml:"temp_dissipation"`

	// Wind
	WindStrength     float32 `yaml:"wind_strength"`
	WindAngle        float32 `yaml:"wind_angle"` // radians
	RotatingWind     bool    `yaml:"rotating_wind"`
	WindRotationRate float32 `yaml:"wind_rotation_rate"` // radians per second at full jitter

	Boundary BoundaryType `yaml:"boundary"`

	// Turbulence noise
	NoiseBasis      NoiseBasis `yaml:"noise_basis"`
	MinBand         float32    `yaml:"min_band"`
	MaxBand         float32    `yaml:"max_band"`
	CustomMinBand   bool       `yaml:"custom_min_band"`
	CustomMaxBand   bool       `yaml:"custom_max_band"`
	TurbulenceScale float32    `yaml:"turbulence_scale"` // 0 disables
	Seed            int64      `yaml:"seed"`

	// Display parameters, carried for the renderer and never read by the solver.
	BackgroundColor [3]float32 `yaml:"background_color"`
	FilterColor     [3]float32 `yaml:"filter_color"`
	ColorSpace      [3]float32 `yaml:"color_space"`
	TouchMode       bool       `yaml:"touch_mode"`
	OrientationMode bool       `yaml:"orientation_mode"`
}

// global holds the loaded configuration.
var global *Settings

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	s, err := Load(path)
	if err != nil {
		return err
	}
	global = &s
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns a copy of the global settings. Panics if Init was not called.
func Cfg() Settings {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return *global
}

// Load loads settings from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (Settings, error) {
	s, err := Parse(nil)
	if err != nil {
		return Settings{}, err
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the embedded defaults. Only fields present in data
// are overwritten. The result is sanitized.
func Parse(data []byte) (Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(defaultsYAML, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parsing config file: %w", err)
		}
	}
	return s.Sanitize(), nil
}

// Default returns the embedded default settings.
func Default() Settings {
	s, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return s
}

// FewIterations is the default preset with a cheap projection.
func FewIterations() Settings {
	return Default().WithProjectIterations(10).WithName("Few Iterations")
}

// Example is the default preset with a stiffer projection and softer vorticity.
func Example() Settings {
	return Default().WithProjectIterations(34).WithVorticityScale(6).WithName("Example")
}

// WriteYAML writes the settings to a YAML file.
func (s Settings) WriteYAML(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
