package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	WorldUp      = mgl32.Vec3{0, 1, 0}
	localForward = mgl32.Vec3{0, 0, 1}
	lensForward  = mgl32.Vec3{0, 0, -1}
)

// Transform is a world-space pose plus scale.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// NewTransform returns an unrotated, unscaled transform at pos.
func NewTransform(pos mgl32.Vec3) *Transform {
	return &Transform{Translation: pos, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Orientation returns the rotation, treating the zero quaternion as identity.
func (t Transform) Orientation() mgl32.Quat {
	if t.Rotation.Len() == 0 {
		return mgl32.QuatIdent()
	}
	return t.Rotation
}

// Forward is the viewing direction of a camera (-Z in local space).
func (t Transform) Forward() mgl32.Vec3 {
	return t.Orientation().Rotate(lensForward)
}

// Heading is the travel direction of a mover (+Z in local space).
func (t Transform) Heading() mgl32.Vec3 {
	return t.Orientation().Rotate(localForward)
}

// Yaw is the heading angle around +Y, zero when facing +Z.
func (t Transform) Yaw() float32 {
	h := t.Heading()
	return float32(math.Atan2(float64(h.X()), float64(h.Z())))
}

// Matrix is the local-to-world matrix.
func (t Transform) Matrix() mgl32.Mat4 {
	scale := t.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	tr := t.Translation
	return mgl32.Translate3D(tr.X(), tr.Y(), tr.Z()).
		Mul4(t.Orientation().Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// View is the world-to-camera matrix of an unscaled pose.
func (t Transform) View() mgl32.Mat4 {
	tr := t.Translation
	return t.Orientation().Conjugate().Mat4().Mul4(mgl32.Translate3D(-tr.X(), -tr.Y(), -tr.Z()))
}

// YawRotation returns the rotation of angle radians around +Y.
func YawRotation(angle float32) mgl32.Quat {
	return mgl32.QuatRotate(angle, WorldUp)
}

var TransformComponent = NewComponent[Transform]()
