package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/thirdperson/common"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// JumpSpeed is the vertical launch speed applied on a Jump trigger.
const JumpSpeed = 12

// MovementSystem turns ControlState intent into Velocity. Dynamic movers move
// at Speed immediately; kinematic movers ramp Speed by Acceleration per second.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Writes() []string {
	return []string{component.ResourceVelocity, component.ResourceControlSpeed}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Time().Delta

	ecs.ForEach3(w, component.ControlStateComponent.Kind(), component.VelocityComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cs *component.ControlState, vel *component.Velocity, transform *component.Transform) {
		kinematic := ecs.Has(w, e, component.KinematicMovementComponent.Kind())
		Integrate(cs, vel, *transform, dt, kinematic)
	})
}

// Intent returns the local movement direction (+Z forward, +X strafe left) and
// the net turn (+1 left) for the held inputs. Opposite inputs cancel.
func Intent(cs *component.ControlState) (mgl32.Vec3, float32) {
	var local mgl32.Vec3
	if cs.HasDirection(component.Forward) {
		local[2]++
	}
	if cs.HasDirection(component.Backward) {
		local[2]--
	}
	if cs.HasDirection(component.StrafeLeft) {
		local[0]++
	}
	if cs.HasDirection(component.StrafeRight) {
		local[0]--
	}
	if l := local.Len(); l > 1 {
		local = local.Mul(1 / l)
	}

	var turn float32
	if cs.HasRotation(component.Left) {
		turn++
	}
	if cs.HasRotation(component.Right) {
		turn--
	}
	return local, turn
}

// Integrate writes vel from cs and updates cs.Speed, which always ends in
// [0, MaxSpeed].
func Integrate(cs *component.ControlState, vel *component.Velocity, transform component.Transform, dt float32, kinematic bool) {
	local, turn := Intent(cs)
	moving := local.Len() > 0

	if kinematic && dt > 0 {
		if moving {
			cs.Speed += cs.Acceleration * dt
		} else {
			cs.Speed -= cs.Acceleration * dt
		}
	}
	cs.Speed = common.Clamp(cs.Speed, 0, cs.MaxSpeed)

	linear := transform.Orientation().Rotate(local).Mul(cs.Speed)
	// movers stay on the ground plane
	linear[1] = 0
	if cs.HasTrigger(component.Jump) {
		linear[1] = JumpSpeed
	}

	turnSpeed := cs.TurnSpeed
	if cs.MaxTurnSpeed > 0 {
		turnSpeed = common.Clamp(turnSpeed, 0, cs.MaxTurnSpeed)
	}
	vel.Linear = linear
	vel.Angular = turn * turnSpeed
}
