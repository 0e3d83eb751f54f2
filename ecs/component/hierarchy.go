package component

// ChildOf links an entity to its parent (ecs.Entity is uint64).
type ChildOf struct {
	Parent uint64
}

var ChildOfComponent = NewComponent[ChildOf]()
