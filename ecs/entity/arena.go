package entity

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/prefabs"
)

// Arena holds what LoadArena spawned.
type Arena struct {
	Player ecs.Entity
	Camera ecs.Entity
	Bots   []ecs.Entity
	Walls  []ecs.Entity
}

// LoadArena spawns the floor grid, walls, player, bots and camera described
// by arena.yaml.
func LoadArena(w *ecs.World) (*Arena, error) {
	spec, err := prefabs.LoadArenaSpec()
	if err != nil {
		return nil, fmt.Errorf("arena: load spec: %w", err)
	}

	arena := &Arena{}
	if _, err := newFloor(w, spec); err != nil {
		return nil, err
	}
	for i, wall := range spec.Walls {
		e, err := newWall(w, spec, wall)
		if err != nil {
			return nil, fmt.Errorf("arena: wall %d: %w", i, err)
		}
		arena.Walls = append(arena.Walls, e)
	}

	arena.Player, err = NewPlayerAt(w, spec.Player.Vec3(), 0)
	if err != nil {
		return nil, fmt.Errorf("arena: player: %w", err)
	}
	for i, pos := range spec.Bots {
		p := pos.Vec3()
		bot, err := NewBotAt(w, p, yawOf(spec.Player.Vec3().Sub(p)))
		if err != nil {
			return nil, fmt.Errorf("arena: bot %d: %w", i, err)
		}
		arena.Bots = append(arena.Bots, bot)
	}

	arena.Camera, err = NewCameraBehind(w, arena.Player)
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	return arena, nil
}

func newFloor(w *ecs.World, spec *prefabs.ArenaSpec) (ecs.Entity, error) {
	floor := ecs.CreateEntity(w)
	if err := ecs.Add(w, floor, component.TransformComponent.Kind(), component.NewTransform(mgl32.Vec3{})); err != nil {
		return 0, fmt.Errorf("arena: floor transform: %w", err)
	}
	size := spec.Size
	if size <= 0 {
		size = 200
	}
	if err := ecs.Add(w, floor, component.WireframeComponent.Kind(), &component.Wireframe{
		Shape: component.MeshGrid,
		Size:  [3]float32{size, 0, size},
		Width: 1,
		Color: spec.GridColor.Or(color.Gray{Y: 60}),
	}); err != nil {
		return 0, fmt.Errorf("arena: floor wireframe: %w", err)
	}
	if err := ecs.Add(w, floor, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: 0}); err != nil {
		return 0, fmt.Errorf("arena: floor layer: %w", err)
	}
	return floor, nil
}

func newWall(w *ecs.World, spec *prefabs.ArenaSpec, wall prefabs.ArenaWallSpec) (ecs.Entity, error) {
	height := spec.WallHeight
	if height <= 0 {
		height = 4
	}
	center := wall.Center.Vec3()
	center[1] = height / 2

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), component.NewTransform(center)); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Kind:     component.BodyStatic,
		Width:    float64(wall.Width),
		Depth:    float64(wall.Depth),
		Friction: 0.5,
	}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
		Category: component.LayerWalls,
		Mask:     component.LayerActors | component.LayerProjectiles,
	}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.WireframeComponent.Kind(), &component.Wireframe{
		Shape: component.MeshBox,
		Size:  [3]float32{wall.Width, height, wall.Depth},
		Width: 1.5,
		Color: spec.WallColor.Or(color.White),
	}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: 1}); err != nil {
		return 0, err
	}
	return e, nil
}

// yawOf returns the yaw that turns +Z onto dir's ground projection.
func yawOf(dir mgl32.Vec3) float32 {
	if dir.X() == 0 && dir.Z() == 0 {
		return 0
	}
	return float32(math.Atan2(float64(dir.X()), float64(dir.Z())))
}
