package system

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// AIControllerSystem runs each bot's script and writes the result into the
// bot's ControlState, the same way InputSystem does for the player.
type AIControllerSystem struct {
	// Space, when set, backs the line_of_sight engine call.
	Space func() *cp.Space

	load     ScriptLoader
	runtimes map[ecs.Entity]*aiScriptRuntime
	failed   map[ecs.Entity]string
}

func NewAIControllerSystem(load ScriptLoader) *AIControllerSystem {
	return &AIControllerSystem{
		load:     load,
		runtimes: make(map[ecs.Entity]*aiScriptRuntime),
		failed:   make(map[ecs.Entity]string),
	}
}

// Reload drops every compiled copy of script so the next tick recompiles it.
// An empty name drops all of them.
func (s *AIControllerSystem) Reload(script string) int {
	if s == nil {
		return 0
	}
	n := 0
	for e, rt := range s.runtimes {
		if script == "" || rt.scriptPath == script {
			delete(s.runtimes, e)
			n++
		}
	}
	for e, path := range s.failed {
		if script == "" || path == script {
			delete(s.failed, e)
		}
	}
	return n
}

func (s *AIControllerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for e := range s.runtimes {
		if !ecs.Has(w, e, component.AIControllerComponent.Kind()) {
			delete(s.runtimes, e)
		}
	}

	var player *component.Transform
	if pe, err := w.Single(component.PlayerTagComponent.Kind()); err == nil {
		player, _ = ecs.Get(w, pe, component.TransformComponent.Kind())
	}
	dt := w.Time().Delta
	var space *cp.Space
	if s.Space != nil {
		space = s.Space()
	}

	ecs.ForEach3(w, component.AIControllerComponent.Kind(), component.ControlStateComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, ai *component.AIController, cs *component.ControlState, t *component.Transform) {
		rt, ok := s.runtime(e, ai.Script)
		if !ok {
			cs.ClearInputs()
			return
		}
		engine := newAIEngine(ai, cs, *t, player, space, dt)
		if err := rt.run(engine); err != nil {
			log.Error("ai: script failed", "entity", e, "script", ai.Script, "err", err)
			delete(s.runtimes, e)
			s.failed[e] = ai.Script
			cs.ClearInputs()
		}
	})
}

func (s *AIControllerSystem) runtime(e ecs.Entity, script string) (*aiScriptRuntime, bool) {
	if rt := s.runtimes[e]; rt != nil && rt.scriptPath == script {
		return rt, true
	}
	if path, ok := s.failed[e]; ok && path == script {
		return nil, false
	}
	rt, err := compileAIScript(script, s.load)
	if err != nil {
		log.Error("ai: compile", "entity", e, "err", err)
		s.failed[e] = script
		return nil, false
	}
	delete(s.failed, e)
	s.runtimes[e] = rt
	return rt, true
}

var aiDirections = map[string]component.Direction{
	"forward":      component.Forward,
	"backward":     component.Backward,
	"strafe_left":  component.StrafeLeft,
	"strafe_right": component.StrafeRight,
}

var aiRotations = map[string]component.Rotation{
	"left":  component.Left,
	"right": component.Right,
}

func newAIEngine(ai *component.AIController, cs *component.ControlState, self component.Transform, player *component.Transform, space *cp.Space, dt float32) *tengo.ImmutableMap {
	toPlayer := func() (mgl32.Vec3, bool) {
		if player == nil {
			return mgl32.Vec3{}, false
		}
		d := player.Translation.Sub(self.Translation)
		d[1] = 0
		return d, true
	}

	fn := func(name string, f tengo.CallableFunc) tengo.Object {
		return &tengo.UserFunction{Name: name, Value: f}
	}

	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"clear": fn("clear", func(args ...tengo.Object) (tengo.Object, error) {
			cs.ClearInputs()
			return tengo.UndefinedValue, nil
		}),
		"distance_to_player": fn("distance_to_player", func(args ...tengo.Object) (tengo.Object, error) {
			d, ok := toPlayer()
			if !ok {
				return tengoFloat(-1), nil
			}
			return tengoFloat(d.Len()), nil
		}),
		"bearing_to_player": fn("bearing_to_player", func(args ...tengo.Object) (tengo.Object, error) {
			d, ok := toPlayer()
			if !ok || d.Len() == 0 {
				return tengoFloat(0), nil
			}
			return tengoFloat(bearingDegrees(self.Yaw(), d)), nil
		}),
		"line_of_sight": fn("line_of_sight", func(args ...tengo.Object) (tengo.Object, error) {
			if player == nil {
				return tengo.FalseValue, nil
			}
			return tengoBool(LineOfSight(space, self.Translation, player.Translation)), nil
		}),
		"turn": fn("turn", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			rot, ok := aiRotations[objectAsString(args[0])]
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "rotation", Expected: "left|right", Found: args[0].TypeName()}
			}
			on := true
			if len(args) > 1 {
				on = objectAsBool(args[1], true)
			}
			cs.SetRotation(rot, on)
			return tengo.UndefinedValue, nil
		}),
		"move": fn("move", func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			dir, ok := aiDirections[objectAsString(args[0])]
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "direction", Expected: "forward|backward|strafe_left|strafe_right", Found: args[0].TypeName()}
			}
			on := true
			if len(args) > 1 {
				on = objectAsBool(args[1], true)
			}
			cs.SetDirection(dir, on)
			return tengo.UndefinedValue, nil
		}),
		"fire": fn("fire", func(args ...tengo.Object) (tengo.Object, error) {
			on := true
			if len(args) > 0 {
				on = objectAsBool(args[0], true)
			}
			cs.SetTrigger(component.FirePrimary, on)
			return tengo.UndefinedValue, nil
		}),
		"jump": fn("jump", func(args ...tengo.Object) (tengo.Object, error) {
			cs.SetTrigger(component.Jump, true)
			return tengo.UndefinedValue, nil
		}),
		"range": fn("range", func(args ...tengo.Object) (tengo.Object, error) {
			return tengoFloat(ai.Range), nil
		}),
		"position": fn("position", func(args ...tengo.Object) (tengo.Object, error) {
			p := self.Translation
			return tengoVec3(p.X(), p.Y(), p.Z()), nil
		}),
		"dt": fn("dt", func(args ...tengo.Object) (tengo.Object, error) {
			return tengoFloat(dt), nil
		}),
	}}
}

// bearingDegrees is the signed angle from a heading of yaw to dir, positive
// when dir lies to the left.
func bearingDegrees(yaw float32, dir mgl32.Vec3) float32 {
	target := math.Atan2(float64(dir.X()), float64(dir.Z()))
	delta := target - float64(yaw)
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta < -math.Pi {
		delta += 2 * math.Pi
	}
	return float32(delta * 180 / math.Pi)
}
