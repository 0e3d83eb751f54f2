package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// NewProjectile fires a projectile from origin along heading. The shooter is
// recorded so its own shots never damage it.
func NewProjectile(w *ecs.World, owner ecs.Entity, origin, heading mgl32.Vec3) (ecs.Entity, error) {
	shot, err := BuildEntity(w, "projectile.yaml")
	if err != nil {
		return 0, fmt.Errorf("projectile: %w", err)
	}
	projectile, ok := ecs.Get(w, shot, component.ProjectileComponent.Kind())
	if !ok {
		ecs.DestroyEntity(w, shot)
		return 0, fmt.Errorf("projectile: prefab has no projectile component")
	}
	projectile.Owner = owner.Ref()

	dir := heading
	dir[1] = 0
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, 0, 1}
	}
	dir = dir.Normalize()

	if t, ok := ecs.Get(w, shot, component.TransformComponent.Kind()); ok {
		t.Translation = origin
		t.Rotation = component.YawRotation(yawOf(dir))
	}
	if vel, ok := ecs.Get(w, shot, component.VelocityComponent.Kind()); ok {
		vel.Linear = dir.Mul(projectile.Speed)
	}
	if body, ok := ecs.Get(w, shot, component.PhysicsBodyComponent.Kind()); ok {
		body.RestY = origin.Y()
	}
	return shot, nil
}
