package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

const (
	hitFlashSeconds  = 0.3
	hitFlashInterval = 0.05
	// HitInvulnerableSeconds is the grace period after the player takes a hit.
	HitInvulnerableSeconds = 0.5
)

// CombatSystem resolves the hit events physics emitted this tick. It must run
// after the physics system in the same phase.
type CombatSystem struct{}

func NewCombatSystem() *CombatSystem { return &CombatSystem{} }

func (s *CombatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var keep []ecs.Event
	spent := make(map[ecs.Entity]bool)
	for _, evt := range w.Events().Drain() {
		hit, ok := evt.Data.(ecs.HitEvent)
		if evt.Type != ecs.EventHit || !ok {
			keep = append(keep, evt)
			continue
		}
		if spent[hit.Projectile] {
			continue
		}
		if s.resolve(w, hit) {
			spent[hit.Projectile] = true
		}
	}
	for _, evt := range keep {
		w.Events().Push(evt)
	}
	for p := range spent {
		ecs.DespawnRecursive(w, p)
	}
}

// resolve applies one hit and reports whether the projectile was used up.
func (s *CombatSystem) resolve(w *ecs.World, hit ecs.HitEvent) bool {
	projectile, ok := ecs.Get(w, hit.Projectile, component.ProjectileComponent.Kind())
	if !ok || !ecs.IsAlive(w, hit.Target) {
		return false
	}
	if ecs.FromRef(projectile.Owner) == hit.Target {
		return false
	}

	health, ok := ecs.Get(w, hit.Target, component.HealthComponent.Kind())
	if !ok {
		// walls and other solids just absorb the shot
		return true
	}
	if ecs.Has(w, hit.Target, component.InvulnerableComponent.Kind()) {
		return true
	}

	health.Current -= projectile.Damage
	_ = ecs.Add(w, hit.Target, component.WhiteFlashComponent.Kind(), &component.WhiteFlash{
		Seconds:  hitFlashSeconds,
		Interval: hitFlashInterval,
		On:       true,
	})

	isPlayer := ecs.Has(w, hit.Target, component.PlayerTagComponent.Kind())
	if isPlayer && health.Current > 0 {
		_ = ecs.Add(w, hit.Target, component.InvulnerableComponent.Kind(), &component.Invulnerable{Seconds: HitInvulnerableSeconds})
	}
	if health.Current > 0 {
		return true
	}
	health.Current = 0

	if isPlayer {
		log.Info("combat: player defeated")
		RequestState(w, component.StatusGameOver)
		return true
	}

	if ecs.Has(w, hit.Target, component.BotTagComponent.Kind()) {
		addKill(w)
	}
	n := ecs.DespawnRecursive(w, hit.Target)
	log.Debug("combat: defeated", "entity", hit.Target, "despawned", n)
	return true
}

func addKill(w *ecs.World) {
	_, score, err := ecs.Single(w, component.ScoreComponent.Kind())
	if err != nil {
		return
	}
	score.Kills++
	if score.Kills > score.Best {
		score.Best = score.Kills
	}
}
