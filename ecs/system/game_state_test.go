package system

import (
	"errors"
	"testing"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

func status(t *testing.T, w *ecs.World) component.GameStatus {
	t.Helper()
	_, gs, err := ecs.Single(w, component.GameStateComponent.Kind())
	if err != nil {
		t.Fatalf("game state: %v", err)
	}
	return gs.Status
}

func TestGameStateTransitions(t *testing.T) {
	w := ecs.NewWorld()
	loads := 0
	cleanups := 0
	s := NewGameStateSystem()
	s.LoadArena = func(w *ecs.World) error {
		loads++
		ecs.CreateEntity(w)
		return nil
	}
	s.OnCleanup = func() { cleanups++ }

	s.Update(w)
	if got := status(t, w); got != component.StatusMenu {
		t.Fatalf("initial status = %v", got)
	}

	steps := []struct {
		req          component.GameStatus
		want         component.GameStatus
		wantLoads    int
		wantCleanups int
	}{
		{component.StatusPlaying, component.StatusPlaying, 1, 1},
		{component.StatusPlaying, component.StatusPlaying, 2, 2},
		{component.StatusGameOver, component.StatusGameOver, 2, 3},
		{component.StatusGameOver, component.StatusGameOver, 2, 3},
		{component.StatusMenu, component.StatusMenu, 2, 3},
	}
	for i, step := range steps {
		RequestState(w, step.req)
		s.Update(w)
		if got := status(t, w); got != step.want {
			t.Fatalf("step %d: status = %v, want %v", i, got, step.want)
		}
		if loads != step.wantLoads || cleanups != step.wantCleanups {
			t.Fatalf("step %d: loads %d cleanups %d, want %d %d", i, loads, cleanups, step.wantLoads, step.wantCleanups)
		}
		if n := len(w.Query(component.GotoStateRequestComponent.Kind())); n != 0 {
			t.Fatalf("step %d: %d requests left", i, n)
		}
	}
}

func TestGameStateLastRequestWins(t *testing.T) {
	w := ecs.NewWorld()
	s := NewGameStateSystem()
	s.LoadArena = func(*ecs.World) error { return nil }

	RequestState(w, component.StatusGameOver)
	RequestState(w, component.StatusPlaying)
	s.Update(w)

	if got := status(t, w); got != component.StatusPlaying {
		t.Fatalf("status = %v, want playing", got)
	}
}

func TestGameStateCleanupKeepsPersistent(t *testing.T) {
	w := ecs.NewWorld()
	gameState, _ := EnsureGameState(w)

	keep := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, keep, component.PersistentComponent.Kind(), &component.Persistent{ID: "hud"}))
	drop := ecs.CreateEntity(w)
	dropChild := ecs.CreateEntity(w)
	mustAdd(t, ecs.SetParent(w, dropChild, drop))

	if n := Cleanup(w); n != 2 {
		t.Fatalf("cleanup despawned %d, want 2", n)
	}
	for _, e := range []ecs.Entity{gameState, keep} {
		if !ecs.IsAlive(w, e) {
			t.Fatalf("persistent entity %v was despawned", e)
		}
	}
	if ecs.IsAlive(w, drop) || ecs.IsAlive(w, dropChild) {
		t.Fatalf("non-persistent entities survived")
	}
}

func TestGameStateResetsKillsOnPlay(t *testing.T) {
	w := ecs.NewWorld()
	_, _ = EnsureGameState(w)
	_, score, _ := ecs.Single(w, component.ScoreComponent.Kind())
	score.Kills = 4
	score.Best = 4

	s := NewGameStateSystem()
	s.LoadArena = func(*ecs.World) error { return nil }
	RequestState(w, component.StatusPlaying)
	s.Update(w)

	_, score, _ = ecs.Single(w, component.ScoreComponent.Kind())
	if score.Kills != 0 || score.Best != 4 {
		t.Fatalf("score = %+v, want kills reset and best kept", score)
	}
}

func TestGameStateLoadFailureFallsBackToMenu(t *testing.T) {
	w := ecs.NewWorld()
	s := NewGameStateSystem()
	var partial ecs.Entity
	s.LoadArena = func(w *ecs.World) error {
		partial = ecs.CreateEntity(w)
		return errors.New("broken arena")
	}

	RequestState(w, component.StatusPlaying)
	s.Update(w)

	if got := status(t, w); got != component.StatusMenu {
		t.Fatalf("status = %v, want menu", got)
	}
	if ecs.IsAlive(w, partial) {
		t.Fatalf("partially loaded arena survived")
	}
}

func TestGameStateLoadsEmbeddedArena(t *testing.T) {
	w := ecs.NewWorld()
	s := NewGameStateSystem()
	RequestState(w, component.StatusPlaying)
	s.Update(w)

	if got := status(t, w); got != component.StatusPlaying {
		t.Fatalf("status = %v, want playing", got)
	}
	if _, _, err := ecs.Single(w, component.PlayerTagComponent.Kind()); err != nil {
		t.Fatalf("player: %v", err)
	}
	if _, _, err := ecs.Single(w, component.CameraTagComponent.Kind()); err != nil {
		t.Fatalf("camera: %v", err)
	}
	if ecs.Count(w, component.BotTagComponent.Kind()) == 0 {
		t.Fatalf("arena spawned no bots")
	}
}
