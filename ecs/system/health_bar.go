package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/ecs/entity"
	"github.com/milk9111/thirdperson/prefabs"
)

// HealthBarSystem turns AddHealthBarRequest entities into health bars.
type HealthBarSystem struct {
	style *prefabs.HealthBarSpec
}

func NewHealthBarSystem() *HealthBarSystem { return &HealthBarSystem{} }

// SetStyle replaces the bar style used for bars created from now on.
func (s *HealthBarSystem) SetStyle(style *prefabs.HealthBarSpec) { s.style = style }

func (s *HealthBarSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	requests := w.Query(component.AddHealthBarRequestComponent.Kind())
	if len(requests) == 0 {
		return
	}
	if s.style == nil {
		style, err := prefabs.LoadHealthBarSpec()
		if err != nil {
			log.Error("health bar: load style", "err", err)
			return
		}
		s.style = style
	}

	for _, req := range requests {
		r, ok := ecs.Get(w, req, component.AddHealthBarRequestComponent.Kind())
		if ok {
			target := ecs.FromRef(r.Entity)
			if _, err := entity.NewHealthBar(w, target, r.Name, s.style); err != nil {
				log.Warn("health bar: dropped request", "target", target, "err", err)
			}
		}
		ecs.DestroyEntity(w, req)
	}
}
