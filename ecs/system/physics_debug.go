package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/projection"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 0.4
	// debugLift keeps outlines just above the floor grid.
	debugLift = 0.05
)

// DrawPhysicsDebug outlines every shape in space on the ground plane, seen
// through the active camera.
func DrawPhysicsDebug(space *cp.Space, w *ecs.World, projector *projection.Perspective, screen *ebiten.Image) {
	if space == nil || w == nil || screen == nil || projector == nil {
		return
	}
	pose, lens, ok := debugCamera(w)
	if !ok {
		return
	}
	drawer := &physicsDebugDrawer{
		screen:    screen,
		projector: projector,
		pose:      pose,
		lens:      lens,
	}
	cp.DrawSpace(space, drawer)
}

// DrawControlDebug prints the player's control state in the top left corner.
func DrawControlDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	player, err := w.Single(component.PlayerTagComponent.Kind())
	if err != nil {
		return
	}
	cs, ok := ecs.Get(w, player, component.ControlStateComponent.Kind())
	if !ok {
		return
	}
	pos := mgl32.Vec3{}
	if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
		pos = t.Translation
	}
	grounded := true
	if body, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok {
		grounded = body.Grounded
	}
	text := fmt.Sprintf("Pos: %.1f %.1f %.1f\nSpeed: %.1f/%.1f\nCooldown: %.2f\nFire: %v Build: %v\nGrounded: %v",
		pos.X(), pos.Y(), pos.Z(),
		cs.Speed, cs.MaxSpeed,
		cs.FireCoolDown,
		cs.HasTrigger(component.FirePrimary), cs.HasTrigger(component.Build),
		grounded)
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

type physicsDebugDrawer struct {
	screen    *ebiten.Image
	projector *projection.Perspective
	pose      component.Transform
	lens      component.Lens
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	half := debugDotSize / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape != nil && shape.Sensor() {
		return cp.FColor{R: 1, G: 0.8, B: 0.1, A: 0.8}
	}
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	p0, p1, ok := d.projector.ProjectSegment(d.pose, d.lens, worldFromPlane(a), worldFromPlane(b))
	if !ok {
		return
	}
	vector.StrokeLine(d.screen, p0.X(), p0.Y(), p1.X(), p1.Y(), 1, toNRGBA(c), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func worldFromPlane(v cp.Vector) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), debugLift, float32(v.Y)}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func debugCamera(w *ecs.World) (component.Transform, component.Lens, bool) {
	camEntity, err := w.Single(component.CameraTagComponent.Kind())
	if err != nil {
		return component.Transform{}, component.Lens{}, false
	}
	t, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind())
	if !ok {
		return component.Transform{}, component.Lens{}, false
	}
	lens := component.DefaultLens()
	if rig, ok := ecs.Get(w, camEntity, component.CameraRigComponent.Kind()); ok {
		lens = rig.Lens
	}
	return *t, lens, true
}
