package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultCameraSharpness gives a blend factor of exactly 0.9 per tick at 60 TPS.
var DefaultCameraSharpness = float32(math.Ln10 * 60)

// Lens holds the perspective parameters used to project through a camera.
type Lens struct {
	FovY float32 // radians
	Near float32
	Far  float32
}

// DefaultLens matches a 45 degree perspective camera with a 1500 unit fog wall.
func DefaultLens() Lens {
	return Lens{FovY: mgl32.DegToRad(45), Near: 0.1, Far: 1500}
}

// CameraRig drives the chase camera. The camera pose itself is the Transform of
// the same entity and is written only by the camera system.
type CameraRig struct {
	// Offset is the desired displacement from the target, in the target's frame.
	Offset mgl32.Vec3
	// Sharpness is k in alpha = 1 - exp(-k*dt).
	Sharpness float32
	// FixedBlend, when > 0, replaces the time-scaled blend with a per-tick factor.
	FixedBlend float32
	Lens       Lens
}

var CameraRigComponent = NewComponent[CameraRig]()
