package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/ecs/entity"
)

func newTarget(t *testing.T, w *ecs.World, hp int, tags ...func(e ecs.Entity)) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, e, component.TransformComponent.Kind(), component.NewTransform(mgl32.Vec3{})))
	mustAdd(t, ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Initial: hp, Current: hp}))
	for _, tag := range tags {
		tag(e)
	}
	return e
}

func newShot(t *testing.T, w *ecs.World, owner ecs.Entity, damage int) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{Damage: damage, Owner: owner.Ref()}))
	return e
}

func hit(w *ecs.World, projectile, target ecs.Entity) {
	w.Events().Push(ecs.Event{Type: ecs.EventHit, Data: ecs.HitEvent{Projectile: projectile, Target: target}})
}

func TestCombatDamage(t *testing.T) {
	w := ecs.NewWorld()
	shooter := ecs.CreateEntity(w)
	target := newTarget(t, w, 3)
	shot := newShot(t, w, shooter, 1)

	hit(w, shot, target)
	NewCombatSystem().Update(w)

	h, _ := ecs.Get(w, target, component.HealthComponent.Kind())
	if h.Current != 2 {
		t.Fatalf("health = %d, want 2", h.Current)
	}
	if ecs.IsAlive(w, shot) {
		t.Fatalf("projectile survived its hit")
	}
	if !ecs.Has(w, target, component.WhiteFlashComponent.Kind()) {
		t.Fatalf("hit target should flash")
	}
}

func TestCombatIgnoresOwner(t *testing.T) {
	w := ecs.NewWorld()
	shooter := newTarget(t, w, 3)
	shot := newShot(t, w, shooter, 1)

	hit(w, shot, shooter)
	NewCombatSystem().Update(w)

	h, _ := ecs.Get(w, shooter, component.HealthComponent.Kind())
	if h.Current != 3 || !ecs.IsAlive(w, shot) {
		t.Fatalf("owner hit itself: health %d, projectile alive %v", h.Current, ecs.IsAlive(w, shot))
	}
}

func TestCombatOneHitPerProjectile(t *testing.T) {
	w := ecs.NewWorld()
	shooter := ecs.CreateEntity(w)
	a := newTarget(t, w, 3)
	b := newTarget(t, w, 3)
	shot := newShot(t, w, shooter, 1)

	hit(w, shot, a)
	hit(w, shot, b)
	hit(w, shot, a)
	NewCombatSystem().Update(w)

	ha, _ := ecs.Get(w, a, component.HealthComponent.Kind())
	hb, _ := ecs.Get(w, b, component.HealthComponent.Kind())
	if ha.Current+hb.Current != 5 {
		t.Fatalf("one projectile dealt %d damage", 6-ha.Current-hb.Current)
	}
}

func TestCombatKillScoresBot(t *testing.T) {
	w := ecs.NewWorld()
	EnsureGameState(w)
	shooter := ecs.CreateEntity(w)
	bot := newTarget(t, w, 1, func(e ecs.Entity) {
		mustAdd(t, ecs.Add(w, e, component.BotTagComponent.Kind(), &component.BotTag{}))
	})
	bar, err := entity.NewHealthBar(w, bot, "Bot", nil)
	if err != nil {
		t.Fatalf("health bar: %v", err)
	}

	hit(w, newShot(t, w, shooter, 1), bot)
	NewCombatSystem().Update(w)

	if ecs.IsAlive(w, bot) {
		t.Fatalf("bot survived a lethal hit")
	}
	_, score, err := ecs.Single(w, component.ScoreComponent.Kind())
	if err != nil || score.Kills != 1 || score.Best != 1 {
		t.Fatalf("score = %+v (%v)", score, err)
	}

	// the orphaned bar goes away on the next anchor pass
	cam := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, cam, component.CameraTagComponent.Kind(), &component.CameraTag{}))
	mustAdd(t, ecs.Add(w, cam, component.TransformComponent.Kind(), component.NewTransform(mgl32.Vec3{})))
	NewScreenAnchorSystem(&fakeProjector{visible: true}).Update(w)
	if ecs.IsAlive(w, bar) {
		t.Fatalf("health bar outlived its bot")
	}
}

func TestCombatPlayerDeathRequestsGameOver(t *testing.T) {
	w := ecs.NewWorld()
	shooter := ecs.CreateEntity(w)
	player := newTarget(t, w, 1, func(e ecs.Entity) {
		mustAdd(t, ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	})

	hit(w, newShot(t, w, shooter, 2), player)
	NewCombatSystem().Update(w)

	reqs := w.Query(component.GotoStateRequestComponent.Kind())
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	r, _ := ecs.Get(w, reqs[0], component.GotoStateRequestComponent.Kind())
	if r.Status != component.StatusGameOver {
		t.Fatalf("requested %v", r.Status)
	}
}

func TestCombatPlayerGraceAfterHit(t *testing.T) {
	w := ecs.NewWorld()
	shooter := ecs.CreateEntity(w)
	player := newTarget(t, w, 5, func(e ecs.Entity) {
		mustAdd(t, ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	})

	combat := NewCombatSystem()
	hit(w, newShot(t, w, shooter, 1), player)
	combat.Update(w)
	hit(w, newShot(t, w, shooter, 1), player)
	combat.Update(w)

	h, _ := ecs.Get(w, player, component.HealthComponent.Kind())
	if h.Current != 4 {
		t.Fatalf("health = %d, want 4 (second hit inside grace period)", h.Current)
	}
}

func TestPhysicsReportsProjectileHit(t *testing.T) {
	w := ecs.NewWorld()
	shooter := ecs.CreateEntity(w)

	bot := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, bot, component.TransformComponent.Kind(), component.NewTransform(mgl32.Vec3{0, 1, 6})))
	mustAdd(t, ecs.Add(w, bot, component.VelocityComponent.Kind(), &component.Velocity{}))
	mustAdd(t, ecs.Add(w, bot, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Kind: component.BodyDynamic, Radius: 1, Mass: 2}))
	mustAdd(t, ecs.Add(w, bot, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
		Category: component.LayerActors,
		Mask:     component.LayerActors | component.LayerProjectiles | component.LayerWalls,
	}))

	shot, err := entity.NewProjectile(w, shooter, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1})
	if err != nil {
		t.Fatalf("projectile: %v", err)
	}

	var hits []ecs.HitEvent
	probe := systemFunc(func(w *ecs.World) {
		for _, evt := range w.Events().Drain() {
			if h, ok := evt.Data.(ecs.HitEvent); ok {
				hits = append(hits, h)
			}
		}
	})

	s := ecs.NewScheduler()
	_ = s.Add(ecs.PhasePhysics, NewPhysicsSystem())
	_ = s.Add(ecs.PhasePhysics, probe)
	for i := 0; i < 20 && len(hits) == 0; i++ {
		s.Tick(w, tick)
	}

	if len(hits) == 0 {
		t.Fatalf("no hit reported")
	}
	if hits[0].Projectile != shot || hits[0].Target != bot {
		t.Fatalf("hit = %+v, want projectile %v target %v", hits[0], shot, bot)
	}
}

type systemFunc func(w *ecs.World)

func (f systemFunc) Update(w *ecs.World) { f(w) }
