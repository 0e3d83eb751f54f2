package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/ecs/entity"
)

// MuzzleDistance is how far ahead of the shooter's origin projectiles spawn.
const MuzzleDistance = 1.6

// FireSystem spawns projectiles for entities holding FirePrimary, limited by
// their rate of fire.
type FireSystem struct {
	spawn func(w *ecs.World, owner ecs.Entity, t component.Transform) error
}

func NewFireSystem() *FireSystem {
	return &FireSystem{spawn: spawnProjectile}
}

func (s *FireSystem) Writes() []string {
	return []string{component.ResourceFireCooldown}
}

func (s *FireSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Time().Delta

	type shot struct {
		owner ecs.Entity
		pose  component.Transform
	}
	var shots []shot

	ecs.ForEach2(w, component.ControlStateComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cs *component.ControlState, t *component.Transform) {
		if Fires(cs, dt) {
			shots = append(shots, shot{owner: e, pose: *t})
		}
	})

	// spawn after iterating so new entities never join this tick's query
	for _, sh := range shots {
		if err := s.spawn(w, sh.owner, sh.pose); err != nil {
			log.Error("fire: spawn projectile", "owner", sh.owner, "err", err)
		}
	}
}

// Fires advances the cooldown for one tick and reports whether cs shoots.
// Released triggers only drain the cooldown down to zero, so a long pause
// buys one immediate shot and never a burst.
func Fires(cs *component.ControlState, dt float32) bool {
	if !cs.HasTrigger(component.FirePrimary) || cs.HasTrigger(component.Build) {
		if cs.FireCoolDown > 0 {
			cs.FireCoolDown -= dt
			if cs.FireCoolDown < 0 {
				cs.FireCoolDown = 0
			}
		}
		return false
	}
	return cs.TickCooldown(dt)
}

func spawnProjectile(w *ecs.World, owner ecs.Entity, t component.Transform) error {
	heading := t.Heading()
	heading[1] = 0
	if heading.Len() > 0 {
		heading = heading.Normalize()
	}
	origin := t.Translation.Add(heading.Mul(MuzzleDistance))
	_, err := entity.NewProjectile(w, owner, origin, heading)
	return err
}
