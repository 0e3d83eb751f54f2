package component

// RenderLayer sorts draw order. Lower indexes draw first.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()
