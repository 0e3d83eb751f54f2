package ecs

import "github.com/milk9111/thirdperson/ecs/component"

// SetParent links child under parent so DespawnRecursive removes both.
func SetParent(w *World, child, parent Entity) error {
	return Add(w, child, component.ChildOfComponent.Kind(), &component.ChildOf{Parent: parent.Ref()})
}

// Children returns the live direct children of parent.
func Children(w *World, parent Entity) []Entity {
	var out []Entity
	ForEach(w, component.ChildOfComponent.Kind(), func(e Entity, c *component.ChildOf) {
		if FromRef(c.Parent) == parent {
			out = append(out, e)
		}
	})
	return out
}

// DespawnRecursive destroys e and all of its descendants and returns how many
// entities were destroyed. Dead handles destroy nothing.
func DespawnRecursive(w *World, e Entity) int {
	if !w.IsAlive(e) {
		return 0
	}
	n := 0
	for _, child := range Children(w, e) {
		n += DespawnRecursive(w, child)
	}
	if w.DestroyEntity(e) {
		n++
	}
	return n
}
