package ecs

import (
	"errors"
	"fmt"

	"github.com/milk9111/thirdperson/ecs/component"
)

var (
	ErrNoEntity         = errors.New("ecs: no entity with component")
	ErrMultipleEntities = errors.New("ecs: more than one entity with component")
	ErrDuplicateWriter  = errors.New("ecs: resource has more than one writer")
	ErrUnknownPhase     = errors.New("ecs: unknown phase")
	errNilWorld         = errors.New("ecs: nil world")
)

// KindID is the untyped view of a component kind.
type KindID interface {
	ID() component.ComponentID
}

// Time is the per-tick clock published by the scheduler.
type Time struct {
	Delta   float32
	Elapsed float64
	Frame   uint64
}

// World owns entities, components, the event queue and the tick clock.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
	time     Time
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its id.
// It reports false for dead or stale handles.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// RemoveComponent drops one component from e.
func (w *World) RemoveComponent(e Entity, kind KindID) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	store, ok := w.stores[kind.ID()]
	if !ok {
		return false
	}
	return store.Remove(e.id())
}

// HasComponent reports whether e carries kind.
func (w *World) HasComponent(e Entity, kind KindID) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.stores[kind.ID()].Has(e.id())
}

// Query returns the live entities carrying every kind.
func (w *World) Query(kinds ...KindID) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		store, ok := w.stores[k.ID()]
		if !ok || store.Len() == 0 {
			return nil
		}
		sets = append(sets, store)
	}
	// iterate smallest set
	smallest := 0
	for i, s := range sets {
		if s.Len() < sets[smallest].Len() {
			smallest = i
		}
	}
	out := make([]Entity, 0, sets[smallest].Len())
	for _, id := range sets[smallest].ids() {
		matched := true
		for i, s := range sets {
			if i != smallest && !s.Has(id) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if e, ok := w.entities.handle(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns any live entity carrying kind.
func (w *World) First(kind KindID) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	store := w.stores[kind.ID()]
	for _, id := range store.ids() {
		if e, ok := w.entities.handle(id); ok {
			return e, true
		}
	}
	return 0, false
}

// Single returns the only entity carrying kind. Zero matches yield ErrNoEntity,
// more than one ErrMultipleEntities.
func (w *World) Single(kind KindID) (Entity, error) {
	if w == nil {
		return 0, errNilWorld
	}
	var found Entity
	n := 0
	for _, id := range w.stores[kind.ID()].ids() {
		e, ok := w.entities.handle(id)
		if !ok {
			continue
		}
		n++
		if n > 1 {
			return 0, fmt.Errorf("%w (kind %d)", ErrMultipleEntities, kind.ID())
		}
		found = e
	}
	if n == 0 {
		return 0, ErrNoEntity
	}
	return found, nil
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Time returns the clock of the current tick.
func (w *World) Time() Time {
	if w == nil {
		return Time{}
	}
	return w.time
}

// Advance moves the clock forward by delta seconds and starts a new frame.
func (w *World) Advance(delta float32) {
	if w == nil {
		return
	}
	if delta < 0 {
		delta = 0
	}
	w.time.Delta = delta
	w.time.Elapsed += float64(delta)
	w.time.Frame++
}

// Clear removes every entity and component. The clock keeps running.
func (w *World) Clear() {
	if w == nil {
		return
	}
	w.entities.reset()
	w.stores = make(map[component.ComponentID]*SparseSet)
	w.events.flush()
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		if !create {
			return nil
		}
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
