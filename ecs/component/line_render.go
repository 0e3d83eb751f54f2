package component

import "image/color"

type MeshShape uint8

const (
	MeshBox MeshShape = iota
	MeshArrow
	MeshGrid
)

// Wireframe is drawn as projected line segments in the entity's local frame.
// Size is the full extent along X, Y and Z.
type Wireframe struct {
	Shape     MeshShape
	Size      [3]float32
	Width     float32
	Color     color.Color
	AntiAlias bool
}

var WireframeComponent = NewComponent[Wireframe]()
