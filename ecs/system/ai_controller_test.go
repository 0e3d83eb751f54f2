package system

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

func TestBearingDegrees(t *testing.T) {
	tests := []struct {
		name string
		yaw  float32
		dir  mgl32.Vec3
		want float32
	}{
		{"ahead", 0, mgl32.Vec3{0, 0, 5}, 0},
		{"left", 0, mgl32.Vec3{1, 0, 0}, 90},
		{"right", 0, mgl32.Vec3{-1, 0, 0}, -90},
		{"behind", 0, mgl32.Vec3{0, 0, -1}, 180},
		{"turned left", math.Pi / 2, mgl32.Vec3{0, 0, 1}, -90},
		{"wraps", 3 * math.Pi / 2, mgl32.Vec3{0, 0, 1}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bearingDegrees(tt.yaw, tt.dir)
			if math.Abs(float64(got-tt.want)) > 1e-3 {
				t.Fatalf("bearing = %v, want %v", got, tt.want)
			}
		})
	}
}

type memScripts struct {
	files map[string]string
	loads int
}

func (m *memScripts) load(name string) ([]byte, error) {
	m.loads++
	src, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("no script %q", name)
	}
	return []byte(src), nil
}

func newBot(t *testing.T, w *ecs.World, script string, at mgl32.Vec3) (ecs.Entity, *component.ControlState) {
	t.Helper()
	e := ecs.CreateEntity(w)
	cs := component.NewControlState(8, 20, 90, 30)
	mustAdd(t, ecs.Add(w, e, component.AIControllerComponent.Kind(), &component.AIController{Script: script, Range: 60}))
	mustAdd(t, ecs.Add(w, e, component.ControlStateComponent.Kind(), cs))
	mustAdd(t, ecs.Add(w, e, component.TransformComponent.Kind(), component.NewTransform(at)))
	return e, cs
}

func addPlayerAt(t *testing.T, w *ecs.World, at mgl32.Vec3) {
	t.Helper()
	p := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, p, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	mustAdd(t, ecs.Add(w, p, component.TransformComponent.Kind(), component.NewTransform(at)))
}

func TestBotScriptDecisions(t *testing.T) {
	tests := []struct {
		name     string
		player   *mgl32.Vec3
		wantTurn component.Rotation
		wantMove component.Direction
		wantFire bool
	}{
		{name: "no player idles"},
		{name: "ahead in range fires", player: &mgl32.Vec3{0, 1, 20}, wantFire: true},
		{name: "far ahead closes in", player: &mgl32.Vec3{0, 1, 50}, wantMove: component.Forward, wantFire: true},
		{name: "too close backs off", player: &mgl32.Vec3{0, 1, 5}, wantMove: component.Backward, wantFire: true},
		{name: "to the left turns", player: &mgl32.Vec3{10, 1, 10}, wantTurn: component.Left},
		{name: "to the right turns", player: &mgl32.Vec3{-10, 1, 10}, wantTurn: component.Right},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			w.Advance(tick)
			_, cs := newBot(t, w, "bot.tengo", mgl32.Vec3{0, 1, 0})
			if tt.player != nil {
				addPlayerAt(t, w, *tt.player)
			}

			NewAIControllerSystem(nil).Update(w)

			for _, rot := range component.AllRotations {
				if cs.HasRotation(rot) != (rot == tt.wantTurn) {
					t.Fatalf("rotation %v = %v", rot, cs.HasRotation(rot))
				}
			}
			for _, dir := range component.AllDirections {
				if cs.HasDirection(dir) != (dir == tt.wantMove) {
					t.Fatalf("direction %v = %v", dir, cs.HasDirection(dir))
				}
			}
			if cs.HasTrigger(component.FirePrimary) != tt.wantFire {
				t.Fatalf("fire = %v, want %v", cs.HasTrigger(component.FirePrimary), tt.wantFire)
			}
		})
	}
}

func TestScriptStatePersistsBetweenTicks(t *testing.T) {
	scripts := &memScripts{files: map[string]string{
		"count.tengo": `
update := func(engine, state) {
	engine.clear()
	if is_undefined(state.n) { state.n = 0 }
	state.n += 1
	if state.n >= 3 { engine.jump() }
}`,
	}}
	w := ecs.NewWorld()
	_, cs := newBot(t, w, "count.tengo", mgl32.Vec3{})
	ai := NewAIControllerSystem(scripts.load)

	for i := 1; i <= 3; i++ {
		ai.Update(w)
		if got := cs.HasTrigger(component.Jump); got != (i == 3) {
			t.Fatalf("tick %d: jump = %v", i, got)
		}
	}
	if scripts.loads != 1 {
		t.Fatalf("script loaded %d times, want 1", scripts.loads)
	}
}

func TestScriptReload(t *testing.T) {
	scripts := &memScripts{files: map[string]string{
		"walk.tengo": `update := func(engine, state) { engine.clear(); engine.move("forward") }`,
	}}
	w := ecs.NewWorld()
	_, cs := newBot(t, w, "walk.tengo", mgl32.Vec3{})
	ai := NewAIControllerSystem(scripts.load)
	ai.Update(w)

	scripts.files["walk.tengo"] = `update := func(engine, state) { engine.clear(); engine.move("strafe_left") }`
	ai.Update(w)
	if !cs.HasDirection(component.Forward) {
		t.Fatalf("script changed before reload")
	}

	if n := ai.Reload("other.tengo"); n != 0 {
		t.Fatalf("reload of unrelated script dropped %d runtimes", n)
	}
	if n := ai.Reload("walk.tengo"); n != 1 {
		t.Fatalf("reload dropped %d runtimes, want 1", n)
	}
	ai.Update(w)
	if cs.HasDirection(component.Forward) || !cs.HasDirection(component.StrafeLeft) {
		t.Fatalf("directions after reload = %b", cs.Directions)
	}
}

func TestScriptFailuresClearInputs(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `update := func(engine, state) {`},
		{"bad argument", `update := func(engine, state) { engine.move("sideways") }`},
		{"missing update", `x := 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scripts := &memScripts{files: map[string]string{"bad.tengo": tt.src}}
			w := ecs.NewWorld()
			_, cs := newBot(t, w, "bad.tengo", mgl32.Vec3{})
			cs.SetDirection(component.Forward, true)
			cs.SetTrigger(component.FirePrimary, true)
			cs.SetTrigger(component.Build, true)

			ai := NewAIControllerSystem(scripts.load)
			ai.Update(w)
			ai.Update(w)

			if cs.HasDirection(component.Forward) || cs.HasTrigger(component.FirePrimary) {
				t.Fatalf("inputs survived a failing script")
			}
			if !cs.HasTrigger(component.Build) {
				t.Fatalf("build mode was cleared")
			}
			if scripts.loads != 1 {
				t.Fatalf("failing script loaded %d times, want 1", scripts.loads)
			}
		})
	}
}
