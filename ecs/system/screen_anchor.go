package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/thirdperson/common"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/projection"
)

// ScreenAnchorSystem pins FollowAnchor UI elements over their targets using the
// camera pose written earlier in the same tick.
type ScreenAnchorSystem struct {
	projector projection.Projector
	errs      errorLatch
	despawned int
}

func NewScreenAnchorSystem(projector projection.Projector) *ScreenAnchorSystem {
	return &ScreenAnchorSystem{projector: projector}
}

func (s *ScreenAnchorSystem) Writes() []string {
	return []string{component.ResourceAnchorPosition}
}

func (s *ScreenAnchorSystem) Err() error {
	return s.errs.err
}

// Despawned counts anchors torn down because their target went away.
func (s *ScreenAnchorSystem) Despawned() int {
	return s.despawned
}

func (s *ScreenAnchorSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.projector == nil {
		return
	}

	camEntity, err := w.Single(component.CameraTagComponent.Kind())
	if err != nil {
		s.errs.report("screen anchor: lookup camera", err)
		return
	}
	s.errs.report("", nil)

	camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}
	lens := component.DefaultLens()
	if rig, ok := ecs.Get(w, camEntity, component.CameraRigComponent.Kind()); ok {
		lens = rig.Lens
	}

	for _, e := range w.Query(component.FollowAnchorComponent.Kind()) {
		anchor, ok := ecs.Get(w, e, component.FollowAnchorComponent.Kind())
		if !ok {
			continue
		}
		target := ecs.FromRef(anchor.Target)
		targetTransform, ok := ecs.Get(w, target, component.TransformComponent.Kind())
		if !ok {
			n := ecs.DespawnRecursive(w, e)
			s.despawned++
			log.Debug("screen anchor: target gone", "anchor", e, "target", target, "despawned", n)
			continue
		}

		point, visible := s.projector.Project(*camTransform, lens, targetTransform.Translation.Add(anchor.Lift))
		if !visible {
			continue
		}
		anchor.Left = common.Round(point.X() - anchor.Width/2)
		anchor.Top = common.Round(point.Y() - anchor.Height/2)
		anchor.Placed = true
	}
}
