package system

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// KeySource reports keyboard state for the current tick.
type KeySource interface {
	Pressed(key ebiten.Key) bool
	JustPressed(key ebiten.Key) bool
}

// EbitenKeys reads the live ebiten keyboard.
type EbitenKeys struct{}

func (EbitenKeys) Pressed(key ebiten.Key) bool     { return ebiten.IsKeyPressed(key) }
func (EbitenKeys) JustPressed(key ebiten.Key) bool { return inpututil.IsKeyJustPressed(key) }

type Action string

const (
	ActionForward     Action = "forward"
	ActionBackward    Action = "backward"
	ActionTurnLeft    Action = "turn_left"
	ActionTurnRight   Action = "turn_right"
	ActionStrafeLeft  Action = "strafe_left"
	ActionStrafeRight Action = "strafe_right"
	ActionFire        Action = "fire"
	ActionJump        Action = "jump"
	ActionBuild       Action = "build"
)

// Bindings maps each action to the keys that trigger it.
type Bindings map[Action][]ebiten.Key

func DefaultBindings() Bindings {
	return Bindings{
		ActionForward:     {ebiten.KeyW, ebiten.KeyArrowUp},
		ActionBackward:    {ebiten.KeyS, ebiten.KeyArrowDown},
		ActionTurnLeft:    {ebiten.KeyA, ebiten.KeyArrowLeft},
		ActionTurnRight:   {ebiten.KeyD, ebiten.KeyArrowRight},
		ActionStrafeLeft:  {ebiten.KeyQ},
		ActionStrafeRight: {ebiten.KeyE},
		ActionFire:        {ebiten.KeySpace},
		ActionJump:        {ebiten.KeyJ},
		ActionBuild:       {ebiten.KeyB},
	}
}

// ParseBindings converts key names such as "W" or "ArrowUp" into Bindings.
// Actions missing from names keep their default keys.
func ParseBindings(names map[string][]string) (Bindings, error) {
	out := DefaultBindings()
	for action, keys := range names {
		a := Action(action)
		if _, ok := out[a]; !ok {
			return nil, fmt.Errorf("input: unknown action %q", action)
		}
		parsed := make([]ebiten.Key, 0, len(keys))
		for _, name := range keys {
			var k ebiten.Key
			if err := k.UnmarshalText([]byte(name)); err != nil {
				return nil, fmt.Errorf("input: action %q: %w", action, err)
			}
			parsed = append(parsed, k)
		}
		out[a] = parsed
	}
	return out, nil
}

// Names is the inverse of ParseBindings.
func (b Bindings) Names() map[string][]string {
	out := make(map[string][]string, len(b))
	for action, keys := range b {
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, k.String())
		}
		out[string(action)] = names
	}
	return out
}

var directionActions = map[component.Direction]Action{
	component.Forward:     ActionForward,
	component.Backward:    ActionBackward,
	component.StrafeLeft:  ActionStrafeLeft,
	component.StrafeRight: ActionStrafeRight,
}

var rotationActions = map[component.Rotation]Action{
	component.Left:  ActionTurnLeft,
	component.Right: ActionTurnRight,
}

// InputSystem maps the keyboard onto the ControlState of every entity with a
// KeyboardController.
type InputSystem struct {
	keys     KeySource
	bindings Bindings

	// RotationPolicy decides what holding both turn keys does.
	RotationPolicy component.RotationPolicy
	// CancelOppositeOnPress drops a held direction when its opposite is pressed,
	// until the dropped key is pressed again.
	CancelOppositeOnPress bool

	suppressedDirs map[component.Direction]bool
	suppressedRots map[component.Rotation]bool
}

func NewInputSystem(keys KeySource, bindings Bindings) *InputSystem {
	if keys == nil {
		keys = EbitenKeys{}
	}
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &InputSystem{
		keys:           keys,
		bindings:       bindings,
		suppressedDirs: make(map[component.Direction]bool),
		suppressedRots: make(map[component.Rotation]bool),
	}
}

// SetBindings swaps the key map, e.g. after settings were edited.
func (i *InputSystem) SetBindings(b Bindings) {
	if b != nil {
		i.bindings = b
	}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dirs := make(map[component.Direction]bool, len(directionActions))
	for _, dir := range component.AllDirections {
		dirs[dir] = resolvePair(i, directionActions, dir, dir.Opposite(), i.CancelOppositeOnPress, i.suppressedDirs)
	}
	rots := make(map[component.Rotation]bool, len(rotationActions))
	lastWins := i.RotationPolicy == component.RotationLastWins
	for _, rot := range component.AllRotations {
		rots[rot] = resolvePair(i, rotationActions, rot, rot.Opposite(), lastWins, i.suppressedRots)
	}

	fire := i.held(ActionFire)
	jump := i.justPressed(ActionJump)
	build := i.justPressed(ActionBuild)

	ecs.ForEach2(w, component.KeyboardControllerComponent.Kind(), component.ControlStateComponent.Kind(), func(_ ecs.Entity, _ *component.KeyboardController, cs *component.ControlState) {
		for dir, on := range dirs {
			cs.SetDirection(dir, on)
		}
		for rot, on := range rots {
			cs.SetRotation(rot, on)
		}
		cs.SetTrigger(component.FirePrimary, fire)
		cs.SetTrigger(component.Jump, jump)
		if build {
			cs.ToggleTrigger(component.Build)
		}
	})
}

// resolvePair reports whether k is active. With cancel set, a fresh press of
// the opposite key suppresses a held k until k is released or pressed again.
func resolvePair[K comparable](i *InputSystem, actions map[K]Action, k, opposite K, cancel bool, suppressed map[K]bool) bool {
	held := i.held(actions[k])
	if !held {
		delete(suppressed, k)
		return false
	}
	if cancel {
		if i.justPressed(actions[k]) {
			delete(suppressed, k)
		}
		// the most recent press wins; a simultaneous press of both cancels out
		if i.justPressed(actions[opposite]) && !i.justPressed(actions[k]) {
			suppressed[k] = true
		}
	}
	return !suppressed[k]
}

func (i *InputSystem) held(action Action) bool {
	for _, k := range i.bindings[action] {
		if i.keys.Pressed(k) {
			return true
		}
	}
	return false
}

func (i *InputSystem) justPressed(action Action) bool {
	for _, k := range i.bindings[action] {
		if i.keys.JustPressed(k) {
			return true
		}
	}
	return false
}
