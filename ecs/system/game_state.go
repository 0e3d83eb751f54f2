package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/ecs/entity"
)

// GameStateID names the persistent entity carrying GameState and Score.
const GameStateID = "game_state"

// RequestState queues a transition for the game state system.
func RequestState(w *ecs.World, status component.GameStatus) {
	req := ecs.CreateEntity(w)
	_ = ecs.Add(w, req, component.GotoStateRequestComponent.Kind(), &component.GotoStateRequest{Status: status})
}

// EnsureGameState returns the game state entity, creating it in the Menu state
// when missing.
func EnsureGameState(w *ecs.World) (ecs.Entity, *component.GameState) {
	if e, gs, err := ecs.Single(w, component.GameStateComponent.Kind()); err == nil {
		return e, gs
	}
	e := ecs.CreateEntity(w)
	gs := &component.GameState{Status: component.StatusMenu, Entered: w.Time().Frame}
	_ = ecs.Add(w, e, component.GameStateComponent.Kind(), gs)
	_ = ecs.Add(w, e, component.ScoreComponent.Kind(), &component.Score{})
	_ = ecs.Add(w, e, component.PersistentComponent.Kind(), &component.Persistent{ID: GameStateID})
	return e, gs
}

// GameStateSystem applies GotoStateRequest entities. Leaving Playing despawns
// everything not marked Persistent; entering Playing builds a fresh arena.
type GameStateSystem struct {
	// OnCleanup runs after the world was cleaned, e.g. to reset physics.
	OnCleanup func()
	// LoadArena builds the play field. Defaults to entity.LoadArena.
	LoadArena func(w *ecs.World) error
}

func NewGameStateSystem() *GameStateSystem {
	return &GameStateSystem{
		LoadArena: func(w *ecs.World) error {
			_, err := entity.LoadArena(w)
			return err
		},
	}
}

func (s *GameStateSystem) Writes() []string {
	return []string{component.ResourceGameState}
}

func (s *GameStateSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	_, gs := EnsureGameState(w)

	requests := w.Query(component.GotoStateRequestComponent.Kind())
	if len(requests) == 0 {
		return
	}
	next := gs.Status
	for _, req := range requests {
		if r, ok := ecs.Get(w, req, component.GotoStateRequestComponent.Kind()); ok {
			next = r.Status
		}
		ecs.DestroyEntity(w, req)
	}
	if next == gs.Status && next != component.StatusPlaying {
		return
	}
	s.transition(w, gs.Status, next)
}

func (s *GameStateSystem) transition(w *ecs.World, from, to component.GameStatus) {
	if from == component.StatusPlaying || to == component.StatusPlaying {
		n := Cleanup(w)
		if s.OnCleanup != nil {
			s.OnCleanup()
		}
		log.Debug("game state: cleanup", "despawned", n)
	}

	_, gs := EnsureGameState(w)
	if to == component.StatusPlaying {
		if _, score, err := ecs.Single(w, component.ScoreComponent.Kind()); err == nil {
			score.Kills = 0
		}
		if s.LoadArena != nil {
			if err := s.LoadArena(w); err != nil {
				log.Error("game state: load arena", "err", err)
				Cleanup(w)
				to = component.StatusMenu
			}
		}
	}

	gs.Status = to
	gs.Entered = w.Time().Frame
	log.Info("game state", "from", from, "to", to)
}

// Cleanup despawns every entity that is not Persistent and returns the count.
func Cleanup(w *ecs.World) int {
	n := 0
	for _, e := range ecs.Entities(w) {
		if !ecs.IsAlive(w, e) || ecs.Has(w, e, component.PersistentComponent.Kind()) {
			continue
		}
		if w.DestroyEntity(e) {
			n++
		}
	}
	return n
}
