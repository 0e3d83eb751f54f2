package system

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

const (
	collisionTypeActor cp.CollisionType = iota + 1
	collisionTypeProjectile
	collisionTypeSolid
)

// Gravity pulls airborne bodies back down to their rest height, in units/s^2.
const Gravity = 30

type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity
	hits     []ecs.HitEvent
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:    newSpace(),
		entities: make(map[ecs.Entity]*bodyInfo),
		shapes:   make(map[*cp.Shape]ecs.Entity),
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	// the ground plane has no gravity; height is integrated separately
	space.SetGravity(cp.Vector{})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Writes() []string {
	return []string{component.ResourceBodyPose}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = newSpace()
		ps.handlersReady = false
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.applyVelocities(w)

	dt := w.Time().Delta
	if dt > 0 {
		ps.space.Step(float64(dt))
	}

	ps.syncTransforms(w, dt)
	for _, hit := range ps.hits {
		w.Events().Push(ecs.Event{Type: ecs.EventHit, Data: hit})
	}
	ps.hits = ps.hits[:0]
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	for _, other := range []cp.CollisionType{collisionTypeActor, collisionTypeSolid} {
		handler := ps.space.NewCollisionHandler(collisionTypeProjectile, other)
		handler.UserData = ps
		handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
			sys, ok := userData.(*PhysicsSystem)
			if !ok || sys == nil {
				return false
			}
			shapeA, shapeB := arb.Shapes()
			projectile, okA := sys.shapes[shapeA]
			target, okB := sys.shapes[shapeB]
			if !okA || !okB {
				return false
			}
			sys.hits = append(sys.hits, ecs.HitEvent{Projectile: projectile, Target: target})
			// sensors never resolve contacts
			return false
		}
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		if info := ps.entities[e]; info != nil {
			bodyComp.Body = info.body
			bodyComp.Shape = info.shape
			continue
		}

		layer, _ := ecs.Get(w, e, component.CollisionLayerComponent.Kind())
		info := ps.createBodyInfo(*transform, *bodyComp, layer)
		if info == nil {
			continue
		}
		ps.entities[e] = info
		ps.shapes[info.shape] = e
		bodyComp.Body = info.body
		bodyComp.Shape = info.shape
		if bodyComp.RestY == 0 {
			bodyComp.RestY = transform.Translation.Y()
		}
		bodyComp.Grounded = true
	}
}

func (ps *PhysicsSystem) createBodyInfo(transform component.Transform, bodyComp component.PhysicsBody, layer *component.CollisionLayer) *bodyInfo {
	width := bodyComp.Width
	depth := bodyComp.Depth
	radius := bodyComp.Radius
	if radius <= 0 && (width <= 0 || depth <= 0) {
		radius = 1
	}

	center := planeFromWorld(transform.Translation)
	info := &bodyInfo{static: bodyComp.Kind == component.BodyStatic}

	var shape *cp.Shape
	if info.static {
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, center)
		} else {
			bb := cp.BB{L: center.X - width/2, B: center.Y - depth/2, R: center.X + width/2, T: center.Y + depth/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		shape.SetCollisionType(collisionTypeSolid)
		info.body = ps.space.StaticBody
	} else {
		mass := bodyComp.Mass
		if mass <= 0 {
			mass = 1
		}
		var body *cp.Body
		if bodyComp.Kind == component.BodyKinematic {
			body = cp.NewKinematicBody()
		} else {
			// infinite moment: yaw is driven by the controller, never by contacts
			body = cp.NewBody(mass, math.Inf(1))
		}
		body.SetPosition(center)
		body.SetAngle(planeAngle(transform.Yaw()))
		ps.space.AddBody(body)

		if radius > 0 {
			shape = cp.NewCircle(body, radius, cp.Vector{})
		} else {
			shape = cp.NewBox(body, width, depth, 0)
		}
		shape.SetCollisionType(collisionTypeActor)
		if bodyComp.Kind == component.BodySensor {
			shape.SetSensor(true)
			shape.SetCollisionType(collisionTypeProjectile)
		}
		info.body = body
	}

	shape.SetFriction(bodyComp.Friction)
	shape.SetFilter(shapeFilter(layer))
	ps.space.AddShape(shape)
	info.shape = shape
	return info
}

func shapeFilter(layer *component.CollisionLayer) cp.ShapeFilter {
	category := uint(1)
	mask := uint(cp.ALL_CATEGORIES)
	if layer != nil {
		if layer.Category != 0 {
			category = uint(layer.Category)
		}
		if layer.Mask != 0 {
			mask = uint(layer.Mask)
		}
	}
	return cp.NewShapeFilter(cp.NO_GROUP, category, mask)
}

// applyVelocities pushes integrator output into the space and starts jumps.
func (ps *PhysicsSystem) applyVelocities(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.VelocityComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, vel *component.Velocity) {
		if bodyComp.Body == nil || bodyComp.Kind == component.BodyStatic {
			return
		}
		bodyComp.Body.SetVelocityVector(planeFromWorld(vel.Linear))
		bodyComp.Body.SetAngularVelocity(float64(-vel.Angular))
		if vel.Linear.Y() > 0 && bodyComp.Grounded {
			bodyComp.VerticalVel = vel.Linear.Y()
			bodyComp.Grounded = false
		}
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World, dt float32) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Kind == component.BodyStatic {
			return
		}
		pos := bodyComp.Body.Position()
		y := transform.Translation.Y()
		if !bodyComp.Grounded {
			y += bodyComp.VerticalVel * dt
			bodyComp.VerticalVel -= Gravity * dt
			if y <= bodyComp.RestY {
				y = bodyComp.RestY
				bodyComp.VerticalVel = 0
				bodyComp.Grounded = true
			}
		}
		transform.Translation = mgl32.Vec3{float32(pos.X), y, float32(pos.Y)}
		transform.Rotation = component.YawRotation(-float32(bodyComp.Body.Angle()))
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		if info.shape != nil {
			ps.space.RemoveShape(info.shape)
			delete(ps.shapes, info.shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}

// Reset drops every body, e.g. after the world was cleared.
func (ps *PhysicsSystem) Reset() {
	if ps == nil {
		return
	}
	ps.space = newSpace()
	ps.handlersReady = false
	ps.entities = make(map[ecs.Entity]*bodyInfo)
	ps.shapes = make(map[*cp.Shape]ecs.Entity)
	ps.hits = nil
	log.Debug("physics: space reset")
}

func planeFromWorld(v mgl32.Vec3) cp.Vector {
	return cp.Vector{X: float64(v.X()), Y: float64(v.Z())}
}

// planeAngle converts a yaw around +Y into a space angle. X/Z maps to X/Y, which
// mirrors the rotation sense.
func planeAngle(yaw float32) float64 {
	return -float64(yaw)
}
