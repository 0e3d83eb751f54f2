package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Vec3Spec is written either as a mapping {x, y, z} or a three element sequence.
type Vec3Spec struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

func (v *Vec3Spec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var xs []float32
		if err := value.Decode(&xs); err != nil {
			return err
		}
		if len(xs) != 3 {
			return fmt.Errorf("vector needs 3 components, got %d", len(xs))
		}
		v.X, v.Y, v.Z = xs[0], xs[1], xs[2]
		return nil
	}
	type plain Vec3Spec
	return value.Decode((*plain)(v))
}

func (v Vec3Spec) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func (v Vec3Spec) IsZero() bool {
	return v == Vec3Spec{}
}

// HealthBarSpec styles the HUD panel drawn over damaged entities.
type HealthBarSpec struct {
	Name       string    `yaml:"name"`
	Width      int       `yaml:"width"`
	Height     int       `yaml:"height"`
	Padding    int       `yaml:"padding"`
	Lift       Vec3Spec  `yaml:"lift"`
	Background YAMLColor `yaml:"background"`
	Fill       YAMLColor `yaml:"fill"`
	Text       YAMLColor `yaml:"text"`
}

func LoadHealthBarSpec() (*HealthBarSpec, error) {
	spec, err := LoadSpec[HealthBarSpec]("health_bar.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Width <= 0 {
		spec.Width = 120
	}
	if spec.Height <= 0 {
		spec.Height = 24
	}
	return &spec, nil
}

// ArenaSpec lays out the walls and spawn points of the play field.
type ArenaSpec struct {
	Name       string          `yaml:"name"`
	Size       float32         `yaml:"size"`
	WallHeight float32         `yaml:"wall_height"`
	Player     Vec3Spec        `yaml:"player"`
	Bots       []Vec3Spec      `yaml:"bots"`
	Walls      []ArenaWallSpec `yaml:"walls"`
	GridColor  YAMLColor       `yaml:"grid_color"`
	WallColor  YAMLColor       `yaml:"wall_color"`
}

type ArenaWallSpec struct {
	Center Vec3Spec `yaml:"center"`
	Width  float32  `yaml:"width"`
	Depth  float32  `yaml:"depth"`
}

func LoadArenaSpec() (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec]("arena.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseHexColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// Or returns the color, or fallback when none was set.
func (c YAMLColor) Or(fallback color.Color) color.Color {
	if c.Color == nil {
		return fallback
	}
	return c.Color
}

// ParseHexColor parses #RRGGBB or #RRGGBBAA.
func ParseHexColor(v string) (color.Color, error) {
	s := strings.TrimPrefix(v, "#")

	if len(s) != 6 && len(s) != 8 {
		return nil, fmt.Errorf("invalid color format: %s", v)
	}

	parse := func(start int) (uint8, error) {
		n, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(n), err
	}

	r, err := parse(0)
	if err != nil {
		return nil, err
	}
	g, err := parse(2)
	if err != nil {
		return nil, err
	}
	b, err := parse(4)
	if err != nil {
		return nil, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return nil, err
		}
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
