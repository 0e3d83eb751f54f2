package entity

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/prefabs"
)

var errNilWorld = errors.New("world is nil")

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":          addPlayerTag,
	"camera_tag":          addCameraTag,
	"bot_tag":             addBotTag,
	"follow_target":       addFollowTarget,
	"keyboard_controller": addKeyboardController,
	"dynamic_movement":    addDynamicMovement,
	"kinematic_movement":  addKinematicMovement,
	"transform":           addTransform,
	"velocity":            addVelocity,
	"camera_rig":          addCameraRig,
	"control_state":       addControlState,
	"ai_controller":       addAIController,
	"collision_layer":     addCollisionLayer,
	"physics_body":        addPhysicsBody,
	"health":              addHealth,
	"health_bar":          addHealthBar,
	"projectile":          addProjectile,
	"ttl":                 addTTL,
	"persistent":          addPersistent,
	"wireframe":           addWireframe,
	"render_layer":        addRenderLayer,
}

var componentBuildOrder = []string{
	"player_tag",
	"camera_tag",
	"bot_tag",
	"follow_target",
	"keyboard_controller",
	"dynamic_movement",
	"kinematic_movement",
	"transform",
	"velocity",
	"camera_rig",
	"control_state",
	"ai_controller",
	"collision_layer",
	"physics_body",
	"health",
	"projectile",
	"ttl",
	"persistent",
	"wireframe",
	"render_layer",
	// needs health on the same entity
	"health_bar",
}

// tuningComponents are re-applied to live entities when their prefab changes.
var tuningComponents = []string{"camera_rig", "control_state", "ai_controller", "wireframe", "render_layer"}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: %w", errNilWorld)
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for components %s", prefabPath, strings.Join(names, ", "))
	}

	if err := ecs.Add(w, e, component.PrefabSourceComponent.Kind(), &component.PrefabSource{Path: prefabPath}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: add prefab source: %w", prefabPath, err)
	}
	return e, nil
}

// ApplyTuning re-reads prefabPath and overwrites the tuning components of e,
// leaving runtime state such as cooldowns and current speed alone.
func ApplyTuning(w *ecs.World, e ecs.Entity, prefabPath string) error {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return fmt.Errorf("apply tuning: load %q: %w", prefabPath, err)
	}
	ctx := &buildContext{PrefabPath: prefabPath}
	for _, name := range tuningComponents {
		raw, ok := spec.Components[name]
		if !ok {
			continue
		}
		if name == "control_state" {
			if err := retuneControlState(w, e, raw); err != nil {
				return fmt.Errorf("apply tuning: %q: %w", prefabPath, err)
			}
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			return fmt.Errorf("apply tuning: %q: %s: %w", prefabPath, name, err)
		}
	}
	return nil
}

// SetEntityPose moves e and turns it to yaw radians.
func SetEntityPose(w *ecs.World, e ecs.Entity, pos mgl32.Vec3, yaw float32) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = component.NewTransform(pos)
	}
	t.Translation = pos
	t.Rotation = component.YawRotation(yaw)
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

func addBotTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.BotTagComponent.Kind(), &component.BotTag{})
}

func addFollowTarget(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.FollowTargetComponent.Kind(), &component.FollowTarget{})
}

func addKeyboardController(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.KeyboardControllerComponent.Kind(), &component.KeyboardController{})
}

func addDynamicMovement(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.DynamicMovementComponent.Kind(), &component.DynamicMovement{})
}

func addKinematicMovement(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.KinematicMovementComponent.Kind(), &component.KinematicMovement{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	t := component.NewTransform(spec.Position.Vec3())
	t.Rotation = component.YawRotation(mgl32.DegToRad(spec.Yaw))
	if !spec.Scale.IsZero() {
		t.Scale = spec.Scale.Vec3()
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addVelocity(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{})
}

type cameraRigSpec = prefabs.CameraRigComponentSpec

func addCameraRig(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraRigSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera rig spec: %w", err)
	}
	lens := component.DefaultLens()
	if spec.FovY > 0 {
		lens.FovY = mgl32.DegToRad(spec.FovY)
	}
	if spec.Near > 0 {
		lens.Near = spec.Near
	}
	if spec.Far > 0 {
		lens.Far = spec.Far
	}
	sharpness := spec.Sharpness
	if sharpness <= 0 {
		sharpness = component.DefaultCameraSharpness
	}
	return ecs.Add(w, e, component.CameraRigComponent.Kind(), &component.CameraRig{
		Offset:     spec.Offset.Vec3(),
		Sharpness:  sharpness,
		FixedBlend: spec.FixedBlend,
		Lens:       lens,
	})
}

type controlStateSpec = prefabs.ControlStateComponentSpec

func addControlState(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[controlStateSpec](raw)
	if err != nil {
		return fmt.Errorf("decode control state spec: %w", err)
	}
	cs := component.NewControlState(spec.Speed, spec.Acceleration, mgl32.DegToRad(spec.TurnSpeed), spec.RateOfFirePerMinute)
	if spec.StartAtRest {
		cs.Speed = 0
	}
	return ecs.Add(w, e, component.ControlStateComponent.Kind(), cs)
}

func retuneControlState(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[controlStateSpec](raw)
	if err != nil {
		return fmt.Errorf("decode control state spec: %w", err)
	}
	cs, ok := ecs.Get(w, e, component.ControlStateComponent.Kind())
	if !ok {
		return nil
	}
	cs.MaxSpeed = spec.Speed
	cs.Acceleration = spec.Acceleration
	cs.TurnSpeed = mgl32.DegToRad(spec.TurnSpeed)
	cs.MaxTurnSpeed = cs.TurnSpeed
	cs.RateOfFirePerMinute = spec.RateOfFirePerMinute
	if cs.Speed > cs.MaxSpeed {
		cs.Speed = cs.MaxSpeed
	}
	return nil
}

type aiControllerSpec = prefabs.AIControllerComponentSpec

func addAIController(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[aiControllerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ai controller spec: %w", err)
	}
	if strings.TrimSpace(spec.Script) == "" {
		return fmt.Errorf("ai controller requires a script")
	}
	if spec.Range <= 0 {
		spec.Range = 50
	}
	return ecs.Add(w, e, component.AIControllerComponent.Kind(), &component.AIController{Script: spec.Script, Range: spec.Range})
}

type collisionLayerSpec = prefabs.CollisionLayerComponentSpec

var layerNames = map[string]uint32{
	"actors":      component.LayerActors,
	"projectiles": component.LayerProjectiles,
	"walls":       component.LayerWalls,
}

func parseLayers(names []string) (uint32, error) {
	var bits uint32
	for _, name := range names {
		bit, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown collision layer %q", name)
		}
		bits |= bit
	}
	return bits, nil
}

func addCollisionLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[collisionLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collision layer spec: %w", err)
	}
	cat, err := parseLayers(spec.Category)
	if err != nil {
		return err
	}
	mask, err := parseLayers(spec.Mask)
	if err != nil {
		return err
	}
	if cat == 0 {
		cat = 1
	}
	if mask == 0 {
		mask = ^uint32(0)
	}
	return ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: cat, Mask: mask})
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

var bodyKinds = map[string]component.BodyKind{
	"":          component.BodyDynamic,
	"dynamic":   component.BodyDynamic,
	"kinematic": component.BodyKinematic,
	"static":    component.BodyStatic,
	"sensor":    component.BodySensor,
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}
	kind, ok := bodyKinds[strings.ToLower(spec.Kind)]
	if !ok {
		return fmt.Errorf("unknown physics body kind %q", spec.Kind)
	}
	if kind != component.BodyStatic && spec.Mass == 0 {
		spec.Mass = 1
	}
	body := &component.PhysicsBody{
		Kind:     kind,
		Radius:   spec.Radius,
		Width:    spec.Width,
		Depth:    spec.Depth,
		Mass:     spec.Mass,
		Friction: spec.Friction,
	}
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		body.RestY = tr.Translation.Y()
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body)
}

type healthSpec = prefabs.HealthComponentSpec

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[healthSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	if spec.Initial == 0 {
		spec.Initial = 1
	}
	if spec.Current == 0 {
		spec.Current = spec.Initial
	}
	return ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Initial: spec.Initial, Current: spec.Current})
}

type healthBarSpec = prefabs.HealthBarComponentSpec

// addHealthBar queues a request; the health bar system spawns the UI element.
func addHealthBar(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[healthBarSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health bar spec: %w", err)
	}
	if !ecs.Has(w, e, component.HealthComponent.Kind()) {
		return fmt.Errorf("health_bar requires health on the same entity")
	}
	return RequestHealthBar(w, e, spec.Name)
}

type projectileSpec = prefabs.ProjectileComponentSpec

func addProjectile(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[projectileSpec](raw)
	if err != nil {
		return fmt.Errorf("decode projectile spec: %w", err)
	}
	if spec.Damage == 0 {
		spec.Damage = 1
	}
	return ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{Damage: spec.Damage, Speed: spec.Speed})
}

type ttlSpec = prefabs.TTLComponentSpec

func addTTL(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[ttlSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ttl spec: %w", err)
	}
	if spec.Seconds <= 0 {
		return fmt.Errorf("ttl must be positive, got %v", spec.Seconds)
	}
	return ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Seconds: spec.Seconds})
}

type persistentSpec = prefabs.PersistentComponentSpec

func addPersistent(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[persistentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode persistent spec: %w", err)
	}
	if spec.ID == "" {
		spec.ID = ctx.PrefabPath
	}
	return ecs.Add(w, e, component.PersistentComponent.Kind(), &component.Persistent{ID: spec.ID})
}

type wireframeSpec = prefabs.WireframeComponentSpec

var meshShapes = map[string]component.MeshShape{
	"":      component.MeshBox,
	"box":   component.MeshBox,
	"arrow": component.MeshArrow,
	"grid":  component.MeshGrid,
}

func addWireframe(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[wireframeSpec](raw)
	if err != nil {
		return fmt.Errorf("decode wireframe spec: %w", err)
	}
	shape, ok := meshShapes[strings.ToLower(spec.Shape)]
	if !ok {
		return fmt.Errorf("unknown wireframe shape %q", spec.Shape)
	}
	if spec.Width <= 0 {
		spec.Width = 1
	}
	size := spec.Size.Vec3()
	if spec.Size.IsZero() {
		size = mgl32.Vec3{1, 1, 1}
	}
	return ecs.Add(w, e, component.WireframeComponent.Kind(), &component.Wireframe{
		Shape:     shape,
		Size:      [3]float32(size),
		Width:     spec.Width,
		Color:     spec.Color.Or(color.White),
		AntiAlias: spec.AntiAlias,
	})
}

type renderLayerSpec = prefabs.RenderLayerComponentSpec

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[renderLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}
