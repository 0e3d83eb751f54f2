package component

// WhiteFlash draws the wireframe white while Seconds remain, toggling every
// Interval seconds.
type WhiteFlash struct {
	Seconds  float32
	Interval float32
	Timer    float32
	On       bool
}

var WhiteFlashComponent = NewComponent[WhiteFlash]()
