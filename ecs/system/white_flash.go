package system

import (
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

type WhiteFlashSystem struct{}

func NewWhiteFlashSystem() *WhiteFlashSystem { return &WhiteFlashSystem{} }

func (s *WhiteFlashSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Time().Delta

	var done []ecs.Entity
	ecs.ForEach(w, component.WhiteFlashComponent.Kind(), func(e ecs.Entity, wf *component.WhiteFlash) {
		if wf.Interval <= 0 {
			wf.Interval = 0.1
		}
		wf.Timer += dt
		for wf.Timer >= wf.Interval {
			wf.Timer -= wf.Interval
			wf.On = !wf.On
		}
		wf.Seconds -= dt
		if wf.Seconds <= 0 {
			done = append(done, e)
		}
	})
	for _, e := range done {
		ecs.Remove(w, e, component.WhiteFlashComponent.Kind())
	}
}

// InvulnerableSystem expires timed Invulnerable components.
type InvulnerableSystem struct{}

func NewInvulnerableSystem() *InvulnerableSystem { return &InvulnerableSystem{} }

func (s *InvulnerableSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Time().Delta

	var done []ecs.Entity
	ecs.ForEach(w, component.InvulnerableComponent.Kind(), func(e ecs.Entity, inv *component.Invulnerable) {
		if inv.Seconds <= 0 {
			return
		}
		inv.Seconds -= dt
		if inv.Seconds <= 0 {
			done = append(done, e)
		}
	})
	for _, e := range done {
		ecs.Remove(w, e, component.InvulnerableComponent.Kind())
	}
}
