package entity

import (
	"fmt"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

func NewCamera(w *ecs.World) (ecs.Entity, error) {
	camera, err := BuildEntity(w, "camera.yaml")
	if err != nil {
		return 0, fmt.Errorf("camera: %w", err)
	}
	return camera, nil
}

// NewCameraBehind spawns the camera already at its rig offset from target so
// the first frames do not sweep in from the prefab position.
func NewCameraBehind(w *ecs.World, target ecs.Entity) (ecs.Entity, error) {
	camera, err := NewCamera(w)
	if err != nil {
		return 0, err
	}
	targetTransform, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return camera, nil
	}
	rig, ok := ecs.Get(w, camera, component.CameraRigComponent.Kind())
	if !ok {
		return camera, nil
	}
	camTransform, ok := ecs.Get(w, camera, component.TransformComponent.Kind())
	if !ok {
		return 0, fmt.Errorf("camera: prefab has no transform")
	}
	camTransform.Translation = targetTransform.Translation.Add(targetTransform.Orientation().Rotate(rig.Offset))
	return camera, nil
}
