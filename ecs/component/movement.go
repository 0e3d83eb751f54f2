package component

import "github.com/go-gl/mathgl/mgl32"

// Velocity is the integrator output consumed by the physics step.
// Angular is the yaw rate in radians per second, positive turns left.
type Velocity struct {
	Linear  mgl32.Vec3
	Angular float32
}

var VelocityComponent = NewComponent[Velocity]()

// DynamicMovement sets velocity directly from intent, ignoring acceleration.
type DynamicMovement struct{}

var DynamicMovementComponent = NewComponent[DynamicMovement]()

// KinematicMovement ramps speed toward MaxSpeed at Acceleration units per second.
type KinematicMovement struct{}

var KinematicMovementComponent = NewComponent[KinematicMovement]()
