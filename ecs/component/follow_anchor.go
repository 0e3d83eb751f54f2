package component

import "github.com/go-gl/mathgl/mgl32"

// FollowAnchor pins a UI element over a world entity. Target is a non-owning
// reference. Left and Top are screen pixels written by the screen anchor system;
// Width and Height are the measured size written by the HUD layout.
type FollowAnchor struct {
	Target uint64
	// Lift raises the projected point above the target origin.
	Lift   mgl32.Vec3
	Left   float32
	Top    float32
	Width  float32
	Height float32
	// Placed is false until the target has been projected once.
	Placed bool
}

var FollowAnchorComponent = NewComponent[FollowAnchor]()

// HealthBar is the UI element drawn at a FollowAnchor.
type HealthBar struct {
	Name string
}

var HealthBarComponent = NewComponent[HealthBar]()

// HealthBarLabel is the text child of a health bar.
type HealthBarLabel struct {
	Text string
}

var HealthBarLabelComponent = NewComponent[HealthBarLabel]()

// AddHealthBarRequest asks for a health bar over Entity.
type AddHealthBarRequest struct {
	Entity uint64
	Name   string
}

var AddHealthBarRequestComponent = NewComponent[AddHealthBarRequest]()
