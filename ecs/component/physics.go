package component

import "github.com/jakecoffman/cp"

type BodyKind uint8

const (
	BodyDynamic BodyKind = iota
	BodyKinematic
	BodyStatic
	// BodySensor reports overlaps but never collides.
	BodySensor
)

// PhysicsBody stores Chipmunk2D runtime data for a body on the ground plane.
// World X/Z maps to space X/Y.
type PhysicsBody struct {
	Body     *cp.Body
	Shape    *cp.Shape
	Kind     BodyKind
	Radius   float64
	Width    float64
	Depth    float64
	Mass     float64
	Friction float64
	// RestY is the ground height of the body origin. Height above it is
	// integrated off the plane by the physics system.
	RestY       float32
	VerticalVel float32
	Grounded    bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
