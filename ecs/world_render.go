package ecs

import "github.com/hajimehoshi/ebiten/v2"

// RenderSystem draws ECS entities each frame.
type RenderSystem interface {
	Draw(w *World, screen *ebiten.Image)
}

// Draw calls all render-capable systems in phase order.
func (s *Scheduler) Draw(w *World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	for _, sys := range s.Systems() {
		rs, ok := sys.(RenderSystem)
		if !ok || rs == nil {
			continue
		}
		rs.Draw(w, screen)
	}
}
