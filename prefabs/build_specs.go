package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab file: a name plus raw component specs keyed by
// registry name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	Position Vec3Spec `yaml:"position"`
	// Yaw is in degrees around +Y; zero faces +Z.
	Yaw   float32  `yaml:"yaw"`
	Scale Vec3Spec `yaml:"scale"`
}

type CameraRigComponentSpec struct {
	Offset     Vec3Spec `yaml:"offset"`
	Sharpness  float32  `yaml:"sharpness"`
	FixedBlend float32  `yaml:"fixed_blend"`
	// FovY is in degrees.
	FovY float32 `yaml:"fov_y"`
	Near float32 `yaml:"near"`
	// Far doubles as the fog visibility distance.
	Far float32 `yaml:"far"`
}

type ControlStateComponentSpec struct {
	Speed        float32 `yaml:"speed"`
	Acceleration float32 `yaml:"acceleration"`
	// TurnSpeed is in degrees per second.
	TurnSpeed           float32 `yaml:"turn_speed"`
	RateOfFirePerMinute float32 `yaml:"rate_of_fire_per_minute"`
	// StartAtRest drops the initial speed to zero, for kinematic movers.
	StartAtRest bool `yaml:"start_at_rest"`
}

type PhysicsBodyComponentSpec struct {
	Kind     string  `yaml:"kind"`
	Radius   float64 `yaml:"radius"`
	Width    float64 `yaml:"width"`
	Depth    float64 `yaml:"depth"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
}

type CollisionLayerComponentSpec struct {
	Category []string `yaml:"category"`
	Mask     []string `yaml:"mask"`
}

type HealthComponentSpec struct {
	Initial int `yaml:"initial"`
	Current int `yaml:"current"`
}

type WireframeComponentSpec struct {
	Shape     string    `yaml:"shape"`
	Size      Vec3Spec  `yaml:"size"`
	Width     float32   `yaml:"width"`
	Color     YAMLColor `yaml:"color"`
	AntiAlias bool      `yaml:"anti_alias"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type AIControllerComponentSpec struct {
	Script string  `yaml:"script"`
	Range  float32 `yaml:"range"`
}

type ProjectileComponentSpec struct {
	Damage int     `yaml:"damage"`
	Speed  float32 `yaml:"speed"`
}

type TTLComponentSpec struct {
	Seconds float32 `yaml:"seconds"`
}

type PersistentComponentSpec struct {
	ID string `yaml:"id"`
}

type HealthBarComponentSpec struct {
	Name string `yaml:"name"`
}
