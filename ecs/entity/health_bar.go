package entity

import (
	"fmt"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/prefabs"
)

// RequestHealthBar queues a health bar for target. The bar is spawned by the
// health bar system on its next update.
func RequestHealthBar(w *ecs.World, target ecs.Entity, name string) error {
	req := ecs.CreateEntity(w)
	if err := ecs.Add(w, req, component.AddHealthBarRequestComponent.Kind(), &component.AddHealthBarRequest{Entity: target.Ref(), Name: name}); err != nil {
		return fmt.Errorf("health bar: add request: %w", err)
	}
	return nil
}

// NewHealthBar spawns a FollowAnchor panel over target with a label child.
// Width and Height start at the prefab size until the HUD measures them.
func NewHealthBar(w *ecs.World, target ecs.Entity, name string, style *prefabs.HealthBarSpec) (ecs.Entity, error) {
	if !ecs.IsAlive(w, target) {
		return 0, fmt.Errorf("health bar: target %v is not alive", target)
	}
	if style == nil {
		loaded, err := prefabs.LoadHealthBarSpec()
		if err != nil {
			return 0, fmt.Errorf("health bar: load spec: %w", err)
		}
		style = loaded
	}

	bar := ecs.CreateEntity(w)
	if err := ecs.Add(w, bar, component.FollowAnchorComponent.Kind(), &component.FollowAnchor{
		Target: target.Ref(),
		Lift:   style.Lift.Vec3(),
		Width:  float32(style.Width),
		Height: float32(style.Height),
	}); err != nil {
		return 0, fmt.Errorf("health bar: add anchor: %w", err)
	}
	if err := ecs.Add(w, bar, component.HealthBarComponent.Kind(), &component.HealthBar{Name: name}); err != nil {
		return 0, fmt.Errorf("health bar: add bar: %w", err)
	}

	label := ecs.CreateEntity(w)
	if err := ecs.Add(w, label, component.HealthBarLabelComponent.Kind(), &component.HealthBarLabel{Text: name}); err != nil {
		return 0, fmt.Errorf("health bar: add label: %w", err)
	}
	if err := ecs.SetParent(w, label, bar); err != nil {
		return 0, fmt.Errorf("health bar: parent label: %w", err)
	}
	return bar, nil
}
