package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/ecs/entity"
	"github.com/milk9111/thirdperson/prefabs"
)

// PrefabReloadSystem applies ReloadRequest entities produced by the file
// watcher. YAML changes re-tune live entities built from that prefab; script
// changes make the AI recompile.
type PrefabReloadSystem struct {
	ai        *AIControllerSystem
	healthBar *HealthBarSystem
}

func NewPrefabReloadSystem(ai *AIControllerSystem, healthBar *HealthBarSystem) *PrefabReloadSystem {
	return &PrefabReloadSystem{ai: ai, healthBar: healthBar}
}

// RequestReload queues a reload of file for the next update.
func RequestReload(w *ecs.World, file string) {
	req := ecs.CreateEntity(w)
	_ = ecs.Add(w, req, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{File: file})
}

func (s *PrefabReloadSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	seen := make(map[string]bool)
	for _, req := range w.Query(component.ReloadRequestComponent.Kind()) {
		if r, ok := ecs.Get(w, req, component.ReloadRequestComponent.Kind()); ok {
			name := prefabs.BaseName(r.File)
			if !seen[name] {
				seen[name] = true
				s.reload(w, r.File, name)
			}
		}
		ecs.DestroyEntity(w, req)
	}
}

func (s *PrefabReloadSystem) reload(w *ecs.World, file, name string) {
	if prefabs.IsScript(file) {
		n := 0
		if s.ai != nil {
			n = s.ai.Reload(name)
		}
		log.Info("reload: script", "file", name, "bots", n)
		return
	}

	switch name {
	case "health_bar.yaml":
		if s.healthBar != nil {
			style, err := prefabs.LoadHealthBarSpec()
			if err != nil {
				log.Error("reload: health bar style", "err", err)
				return
			}
			s.healthBar.SetStyle(style)
		}
		log.Info("reload: health bar style applies to new bars")
		return
	case "arena.yaml":
		log.Info("reload: arena applies on the next round")
		return
	}

	n := 0
	ecs.ForEach(w, component.PrefabSourceComponent.Kind(), func(e ecs.Entity, src *component.PrefabSource) {
		if src.Path != name {
			return
		}
		if err := entity.ApplyTuning(w, e, name); err != nil {
			log.Error("reload: apply tuning", "entity", e, "err", err)
			return
		}
		n++
	})
	log.Info("reload: prefab", "file", name, "entities", n)
}
