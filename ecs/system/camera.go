package system

import (
	"errors"
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/thirdperson/common"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// CameraSystem moves the active camera toward its rig offset behind the
// followed entity and keeps it looking at that entity.
type CameraSystem struct {
	// FixedBlend overrides every rig with a per-tick blend factor when > 0.
	FixedBlend float32
	// Sharpness overrides the rig sharpness when > 0.
	Sharpness float32

	errs errorLatch
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Writes() []string {
	return []string{component.ResourceCameraPose}
}

// Err returns the configuration error that made the last update skip, if any.
func (cs *CameraSystem) Err() error {
	return cs.errs.err
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}

	camEntity, err := w.Single(component.CameraTagComponent.Kind())
	if err != nil {
		cs.errs.report("camera: lookup camera", err)
		return
	}
	targetEntity, err := w.Single(component.FollowTargetComponent.Kind())
	if err != nil {
		cs.errs.report("camera: lookup target", err)
		return
	}
	cs.errs.report("", nil)

	rig, ok := ecs.Get(w, camEntity, component.CameraRigComponent.Kind())
	if !ok {
		return
	}
	camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}
	targetTransform, ok := ecs.Get(w, targetEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	settings := *rig
	if cs.FixedBlend > 0 {
		settings.FixedBlend = cs.FixedBlend
	}
	if cs.Sharpness > 0 {
		settings.Sharpness = cs.Sharpness
	}
	Track(settings, camTransform, *targetTransform, w.Time().Delta)
}

// Track advances camera one step toward the rig's desired pose around target.
func Track(rig component.CameraRig, camera *component.Transform, target component.Transform, dt float32) {
	rotated := target.Orientation().Rotate(rig.Offset)
	desired := target.Translation.Add(rotated)

	camera.Translation = common.LerpVec3(camera.Translation, desired, BlendFactor(rig, dt))
	camera.Rotation = LookAt(camera.Translation, target.Translation, camera.Orientation())
}

// BlendFactor is the share of the remaining distance covered this tick.
func BlendFactor(rig component.CameraRig, dt float32) float32 {
	if rig.FixedBlend > 0 {
		return common.Clamp(rig.FixedBlend, 0, 1)
	}
	sharpness := rig.Sharpness
	if sharpness <= 0 {
		sharpness = component.DefaultCameraSharpness
	}
	return common.SmoothingFactor(sharpness, dt)
}

const lookAtEpsilon = 1e-6

// LookAt returns the rotation whose forward (-Z) points from eye to target with
// +Y up. When eye and target coincide prev is returned unchanged. Straight up or
// down views use -Z as the up hint.
func LookAt(eye, target mgl32.Vec3, prev mgl32.Quat) mgl32.Quat {
	dir := target.Sub(eye)
	if dir.Len() < lookAtEpsilon {
		return prev
	}
	dir = dir.Normalize()

	up := component.WorldUp
	if math.Abs(float64(dir.Dot(up))) > 1-lookAtEpsilon {
		up = mgl32.Vec3{0, 0, -1}
	}
	view := mgl32.LookAtV(eye, target, up)
	return mgl32.Mat4ToQuat(view).Conjugate().Normalize()
}

// errorLatch logs a configuration error once per change.
type errorLatch struct {
	err error
}

func (l *errorLatch) report(msg string, err error) {
	if errors.Is(err, ecs.ErrNoEntity) {
		err = nil
	}
	if err == nil {
		if l.err != nil {
			log.Info("configuration recovered", "was", l.err)
		}
		l.err = nil
		return
	}
	if l.err == nil || l.err.Error() != err.Error() {
		log.Error(msg, "err", err)
	}
	l.err = err
}
