package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/thirdperson/ecs/component"
)

// wallQuery matches shapes on the wall layer, probing as a projectile would.
var wallQuery = cp.NewShapeFilter(cp.NO_GROUP, uint(component.LayerProjectiles), uint(component.LayerWalls))

// FirstWallHit returns the first wall point on the ground-plane segment from a
// to b.
func FirstWallHit(space *cp.Space, a, b mgl32.Vec3) (mgl32.Vec3, bool) {
	if space == nil {
		return mgl32.Vec3{}, false
	}
	start, end := planeFromWorld(a), planeFromWorld(b)
	if start == end {
		return mgl32.Vec3{}, false
	}
	info := space.SegmentQueryFirst(start, end, 0, wallQuery)
	if info.Shape == nil {
		return mgl32.Vec3{}, false
	}
	y := a.Y() + (b.Y()-a.Y())*float32(info.Alpha)
	return mgl32.Vec3{float32(info.Point.X), y, float32(info.Point.Y)}, true
}

// LineOfSight reports whether no wall stands between a and b.
func LineOfSight(space *cp.Space, a, b mgl32.Vec3) bool {
	_, hit := FirstWallHit(space, a, b)
	return !hit
}
