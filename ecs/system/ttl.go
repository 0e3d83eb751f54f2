package system

import (
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// TTLSystem counts TTL components down in game seconds and despawns entities
// when they expire.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Time().Delta

	var expired []ecs.Entity
	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Seconds -= dt
		if ttl.Seconds <= 0 {
			expired = append(expired, e)
		}
	})
	for _, e := range expired {
		ecs.DespawnRecursive(w, e)
	}
}
