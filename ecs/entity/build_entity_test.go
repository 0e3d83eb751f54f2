package entity

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func vecNear(a, b mgl32.Vec3, tol float32) bool {
	return a.Sub(b).Len() < tol
}

func writePrefab(t *testing.T, name, body string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.MkdirAll(filepath.Join(dir, "prefabs"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefabs", name), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestBuildPlayer(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewPlayer(w)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	for name, has := range map[string]bool{
		"player_tag":          ecs.Has(w, e, component.PlayerTagComponent.Kind()),
		"follow_target":       ecs.Has(w, e, component.FollowTargetComponent.Kind()),
		"keyboard_controller": ecs.Has(w, e, component.KeyboardControllerComponent.Kind()),
		"kinematic_movement":  ecs.Has(w, e, component.KinematicMovementComponent.Kind()),
		"velocity":            ecs.Has(w, e, component.VelocityComponent.Kind()),
		"wireframe":           ecs.Has(w, e, component.WireframeComponent.Kind()),
	} {
		if !has {
			t.Errorf("player is missing %s", name)
		}
	}

	cs, _ := ecs.Get(w, e, component.ControlStateComponent.Kind())
	if cs.Speed != 0 || cs.MaxSpeed != 18 || !near(cs.TurnSpeed, mgl32.DegToRad(120)) || cs.RateOfFirePerMinute != 240 {
		t.Fatalf("control state = %+v", cs)
	}
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if body.Kind != component.BodyDynamic || body.RestY != 1 || body.Radius != 1 {
		t.Fatalf("physics body = %+v", body)
	}
	layer, _ := ecs.Get(w, e, component.CollisionLayerComponent.Kind())
	if layer.Category != component.LayerActors || layer.Mask != component.LayerActors|component.LayerProjectiles|component.LayerWalls {
		t.Fatalf("collision layer = %+v", layer)
	}
	health, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	if health.Initial != 10 || health.Current != 10 {
		t.Fatalf("health = %+v", health)
	}
	src, _ := ecs.Get(w, e, component.PrefabSourceComponent.Kind())
	if src.Path != "player.yaml" {
		t.Fatalf("prefab source = %q", src.Path)
	}

	reqs := w.Query(component.AddHealthBarRequestComponent.Kind())
	if len(reqs) != 1 {
		t.Fatalf("health bar requests = %d, want 1", len(reqs))
	}
	req, _ := ecs.Get(w, reqs[0], component.AddHealthBarRequestComponent.Kind())
	if ecs.FromRef(req.Entity) != e || req.Name != "You" {
		t.Fatalf("health bar request = %+v", req)
	}
}

func TestBuildCamera(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewCamera(w)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}
	rig, ok := ecs.Get(w, e, component.CameraRigComponent.Kind())
	if !ok {
		t.Fatalf("camera has no rig")
	}
	if rig.Offset != (mgl32.Vec3{0, 10, -25}) || rig.Lens.Far != 1500 || !near(rig.Lens.FovY, mgl32.DegToRad(45)) {
		t.Fatalf("rig = %+v", rig)
	}
}

func TestBuildEntityErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"unknown component", "name: bad\ncomponents:\n  laser: {}\n  transform: {}\n", "laser"},
		{"no components", "name: bad\n", "does not define components"},
		{"bad layer", "name: bad\ncomponents:\n  collision_layer:\n    category: [ghosts]\n", "ghosts"},
		{"bad body kind", "name: bad\ncomponents:\n  physics_body:\n    kind: jelly\n", "jelly"},
		{"health bar without health", "name: bad\ncomponents:\n  health_bar:\n    name: x\n", "requires health"},
		{"non positive ttl", "name: bad\ncomponents:\n  ttl:\n    seconds: 0\n", "ttl"},
		{"malformed yaml", "name: [bad\n", "unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writePrefab(t, "bad.yaml", tt.body)
			w := ecs.NewWorld()
			_, err := BuildEntity(w, "bad.yaml")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tt.wantErr)
			}
			if n := len(ecs.Entities(w)); n != 0 {
				t.Fatalf("failed build left %d entities", n)
			}
		})
	}
}

func TestBuildEntityMissingPrefab(t *testing.T) {
	if _, err := BuildEntity(ecs.NewWorld(), "nope.yaml"); err == nil {
		t.Fatalf("expected an error for a missing prefab")
	}
	if _, err := BuildEntity(nil, "player.yaml"); err == nil {
		t.Fatalf("expected an error for a nil world")
	}
}

func TestLoadArena(t *testing.T) {
	w := ecs.NewWorld()
	arena, err := LoadArena(w)
	if err != nil {
		t.Fatalf("LoadArena: %v", err)
	}
	if len(arena.Bots) != 3 || len(arena.Walls) != 5 {
		t.Fatalf("bots %d walls %d, want 3 and 5", len(arena.Bots), len(arena.Walls))
	}
	if ecs.Count(w, component.PlayerTagComponent.Kind()) != 1 || ecs.Count(w, component.CameraTagComponent.Kind()) != 1 {
		t.Fatalf("arena needs exactly one player and one camera")
	}

	cam, _ := ecs.Get(w, arena.Camera, component.TransformComponent.Kind())
	if !vecNear(cam.Translation, mgl32.Vec3{0, 11, -25}, 1e-4) {
		t.Fatalf("camera starts at %v, want behind the player", cam.Translation)
	}

	player, _ := ecs.Get(w, arena.Player, component.TransformComponent.Kind())
	for _, bot := range arena.Bots {
		tr, _ := ecs.Get(w, bot, component.TransformComponent.Kind())
		toPlayer := player.Translation.Sub(tr.Translation)
		toPlayer[1] = 0
		if d := tr.Heading().Dot(toPlayer.Normalize()); d < 0.999 {
			t.Fatalf("bot at %v does not face the player (dot %v)", tr.Translation, d)
		}
	}

	for _, wall := range arena.Walls {
		body, _ := ecs.Get(w, wall, component.PhysicsBodyComponent.Kind())
		if body.Kind != component.BodyStatic {
			t.Fatalf("wall body kind = %v", body.Kind)
		}
	}
}

func TestNewProjectile(t *testing.T) {
	w := ecs.NewWorld()
	owner := ecs.CreateEntity(w)

	shot, err := NewProjectile(w, owner, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{3, 5, 4})
	if err != nil {
		t.Fatalf("NewProjectile: %v", err)
	}
	p, _ := ecs.Get(w, shot, component.ProjectileComponent.Kind())
	if ecs.FromRef(p.Owner) != owner {
		t.Fatalf("owner = %v, want %v", ecs.FromRef(p.Owner), owner)
	}
	vel, _ := ecs.Get(w, shot, component.VelocityComponent.Kind())
	want := mgl32.Vec3{0.6, 0, 0.8}.Mul(p.Speed)
	if !vecNear(vel.Linear, want, 1e-3) {
		t.Fatalf("velocity = %v, want %v", vel.Linear, want)
	}
	body, _ := ecs.Get(w, shot, component.PhysicsBodyComponent.Kind())
	if body.RestY != 2 || body.Kind != component.BodySensor {
		t.Fatalf("body = %+v", body)
	}
}

func TestNewHealthBar(t *testing.T) {
	w := ecs.NewWorld()
	target := ecs.CreateEntity(w)

	bar, err := NewHealthBar(w, target, "Bot", nil)
	if err != nil {
		t.Fatalf("NewHealthBar: %v", err)
	}
	anchor, _ := ecs.Get(w, bar, component.FollowAnchorComponent.Kind())
	if ecs.FromRef(anchor.Target) != target || anchor.Width != 120 || anchor.Height != 24 || anchor.Placed {
		t.Fatalf("anchor = %+v", anchor)
	}
	children := ecs.Children(w, bar)
	if len(children) != 1 {
		t.Fatalf("children = %d, want 1 label", len(children))
	}
	label, _ := ecs.Get(w, children[0], component.HealthBarLabelComponent.Kind())
	if label.Text != "Bot" {
		t.Fatalf("label = %q", label.Text)
	}

	ecs.DestroyEntity(w, target)
	if _, err := NewHealthBar(w, target, "Bot", nil); err == nil {
		t.Fatalf("expected an error for a dead target")
	}
}

func TestApplyTuningKeepsRuntimeState(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewPlayerAt(w, mgl32.Vec3{4, 1, 4}, 1)
	if err != nil {
		t.Fatalf("NewPlayerAt: %v", err)
	}
	cs, _ := ecs.Get(w, e, component.ControlStateComponent.Kind())
	cs.Speed = 18
	cs.FireCoolDown = 0.2

	writePrefab(t, "player.yaml", "name: player\ncomponents:\n  control_state:\n    speed: 10\n    turn_speed: 90\n")
	if err := ApplyTuning(w, e, "player.yaml"); err != nil {
		t.Fatalf("ApplyTuning: %v", err)
	}
	if cs.MaxSpeed != 10 || cs.Speed != 10 || cs.FireCoolDown != 0.2 {
		t.Fatalf("control state = %+v", cs)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.Translation != (mgl32.Vec3{4, 1, 4}) || !near(tr.Yaw(), 1) {
		t.Fatalf("transform changed: %+v", tr)
	}
}
