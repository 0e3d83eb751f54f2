package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/ecs/entity"
)

// overridePrefab makes the working directory a scratch dir whose prefabs/
// folder shadows the embedded file name.
func overridePrefab(t *testing.T, name, body string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "prefabs", filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

const retunedBot = `name: bot
components:
  bot_tag: {}
  transform: {}
  control_state:
    speed: 12
    acceleration: 5
    turn_speed: 45
    rate_of_fire_per_minute: 120
  ai_controller:
    script: bot.tengo
    range: 25
  wireframe:
    shape: box
    size: [3, 3, 3]
    color: "#00FF00"
`

func TestPrefabReloadRetunesLiveEntities(t *testing.T) {
	w := ecs.NewWorld()
	bot, err := entity.NewBotAt(w, mgl32.Vec3{3, 1, 3}, 0)
	if err != nil {
		t.Fatalf("bot: %v", err)
	}
	player, err := entity.NewPlayer(w)
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	cs, _ := ecs.Get(w, bot, component.ControlStateComponent.Kind())
	cs.FireCoolDown = 0.7
	playerCS, _ := ecs.Get(w, player, component.ControlStateComponent.Kind())
	playerMax := playerCS.MaxSpeed

	overridePrefab(t, "bot.yaml", retunedBot)
	RequestReload(w, "prefabs/bot.yaml")
	RequestReload(w, "prefabs/bot.yaml")
	NewPrefabReloadSystem(nil, nil).Update(w)

	if cs.MaxSpeed != 12 || cs.RateOfFirePerMinute != 120 {
		t.Fatalf("control state not retuned: %+v", cs)
	}
	if cs.FireCoolDown != 0.7 {
		t.Fatalf("runtime cooldown overwritten: %v", cs.FireCoolDown)
	}
	ai, _ := ecs.Get(w, bot, component.AIControllerComponent.Kind())
	if ai.Range != 25 {
		t.Fatalf("ai range = %v, want 25", ai.Range)
	}
	wf, _ := ecs.Get(w, bot, component.WireframeComponent.Kind())
	if wf.Size != [3]float32{3, 3, 3} {
		t.Fatalf("wireframe size = %v", wf.Size)
	}
	tr, _ := ecs.Get(w, bot, component.TransformComponent.Kind())
	if tr.Translation != (mgl32.Vec3{3, 1, 3}) {
		t.Fatalf("reload moved the bot to %v", tr.Translation)
	}
	if playerCS.MaxSpeed != playerMax {
		t.Fatalf("player retuned by a bot prefab edit")
	}
	if n := len(w.Query(component.ReloadRequestComponent.Kind())); n != 0 {
		t.Fatalf("%d reload requests left", n)
	}
}

func TestPrefabReloadScriptsRecompile(t *testing.T) {
	scripts := &memScripts{files: map[string]string{
		"bot.tengo": `update := func(engine, state) { engine.clear(); engine.move("forward") }`,
	}}
	w := ecs.NewWorld()
	_, cs := newBot(t, w, "bot.tengo", mgl32.Vec3{})
	ai := NewAIControllerSystem(scripts.load)
	ai.Update(w)

	scripts.files["bot.tengo"] = `update := func(engine, state) { engine.clear(); engine.move("backward") }`
	RequestReload(w, "prefabs/scripts/bot.tengo")
	NewPrefabReloadSystem(ai, nil).Update(w)
	ai.Update(w)

	if !cs.HasDirection(component.Backward) {
		t.Fatalf("script edit not picked up, directions = %b", cs.Directions)
	}
	if scripts.loads != 2 {
		t.Fatalf("loads = %d, want 2", scripts.loads)
	}
}

func TestPrefabReloadHealthBarStyle(t *testing.T) {
	w := ecs.NewWorld()
	target := newTarget(t, w, 3)
	bars := NewHealthBarSystem()

	overridePrefab(t, "health_bar.yaml", "name: health_bar\nwidth: 200\nheight: 30\nlift: [0, 5, 0]\n")
	RequestReload(w, "prefabs/health_bar.yaml")
	NewPrefabReloadSystem(nil, bars).Update(w)

	mustAdd(t, entity.RequestHealthBar(w, target, "Target"))
	bars.Update(w)

	anchors := w.Query(component.FollowAnchorComponent.Kind())
	if len(anchors) != 1 {
		t.Fatalf("anchors = %d, want 1", len(anchors))
	}
	a, _ := ecs.Get(w, anchors[0], component.FollowAnchorComponent.Kind())
	if a.Width != 200 || a.Height != 30 || a.Lift != (mgl32.Vec3{0, 5, 0}) {
		t.Fatalf("anchor = %+v, want reloaded style", a)
	}
}
