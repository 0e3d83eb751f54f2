package main

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/thirdperson/common"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
	"github.com/milk9111/thirdperson/ecs/system"
	"github.com/milk9111/thirdperson/hud"
	"github.com/milk9111/thirdperson/prefabs"
	"github.com/milk9111/thirdperson/projection"
	"github.com/milk9111/thirdperson/settings"
)

var clearColor = color.NRGBA{R: 0x10, G: 0x12, B: 0x18, A: 0xff}

type Options struct {
	Debug      bool
	FixedBlend float32
	Watch      bool
}

type Game struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	projector *projection.Perspective

	physics *system.PhysicsSystem
	input   *system.InputSystem
	camera  *system.CameraSystem
	render  *system.RenderSystem
	hud     *hud.Layer

	menu      *ebitenui.UI
	gameOver  *ebitenui.UI
	scoreLine *widget.Text

	watcher *prefabs.Watcher
	store   *settings.Store
	overlay *debugOverlay

	debug bool
	quit  bool
}

func NewGame(opts Options) (*Game, error) {
	store, err := settings.Open(settings.AppName)
	if err != nil {
		log.Warn("settings unavailable, using defaults", "err", err)
	}
	if err := store.Load(); err != nil {
		log.Warn("settings: using defaults", "err", err)
	}

	style, err := prefabs.LoadHealthBarSpec()
	if err != nil {
		return nil, fmt.Errorf("game: health bar style: %w", err)
	}

	g := &Game{
		world:     ecs.NewWorld(),
		scheduler: ecs.NewScheduler(),
		projector: projection.NewPerspective(common.BaseWidth, common.BaseHeight),
		store:     store,
		debug:     opts.Debug,
	}

	g.physics = system.NewPhysicsSystem()
	g.input = system.NewInputSystem(system.EbitenKeys{}, nil)
	g.camera = system.NewCameraSystem()
	g.camera.FixedBlend = opts.FixedBlend
	g.render = system.NewRenderSystem(g.projector)
	g.hud = hud.NewLayer(style)
	g.applySettings(store.Settings())

	ai := system.NewAIControllerSystem(nil)
	ai.Space = g.physics.Space
	healthBars := system.NewHealthBarSystem()
	healthBars.SetStyle(style)
	gameState := system.NewGameStateSystem()
	gameState.OnCleanup = func() {
		g.physics.Reset()
		ai.Reload("")
	}

	phases := []struct {
		phase   ecs.Phase
		systems []ecs.System
	}{
		{ecs.PhaseInput, []ecs.System{
			system.NewPrefabReloadSystem(ai, healthBars),
			gameState,
			g.input,
			ai,
			healthBars,
		}},
		{ecs.PhaseMovement, []ecs.System{
			system.NewMovementSystem(),
			system.NewFireSystem(),
			system.NewTTLSystem(),
			system.NewWhiteFlashSystem(),
			system.NewInvulnerableSystem(),
		}},
		{ecs.PhasePhysics, []ecs.System{
			g.physics,
			system.NewCombatSystem(),
		}},
		{ecs.PhaseCamera, []ecs.System{g.camera}},
		{ecs.PhaseUIProjection, []ecs.System{
			system.NewScreenAnchorSystem(g.projector),
			g.render,
		}},
		{ecs.PhaseUILayout, []ecs.System{g.hud}},
	}
	for _, p := range phases {
		for _, s := range p.systems {
			if err := g.scheduler.Add(p.phase, s); err != nil {
				return nil, fmt.Errorf("game: schedule %T: %w", s, err)
			}
		}
	}
	if err := g.scheduler.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	_, _ = system.EnsureGameState(g.world)
	if _, score, err := ecs.Single(g.world, component.ScoreComponent.Kind()); err == nil {
		score.Best = store.Settings().BestScore
	}

	g.menu = NewMenuUI(g)
	g.gameOver, g.scoreLine = NewGameOverUI(g)
	g.overlay = newDebugOverlay()

	if opts.Watch {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			log.Warn("hot reload disabled", "err", err)
		} else {
			g.watcher = w
			log.Info("watching prefabs for changes")
		}
	}
	return g, nil
}

func (g *Game) applySettings(s *settings.Settings) {
	if s == nil {
		return
	}
	if len(s.Bindings) > 0 {
		bindings, err := system.ParseBindings(s.Bindings)
		if err != nil {
			log.Warn("settings: bad key bindings, using defaults", "err", err)
		} else {
			g.input.SetBindings(bindings)
		}
	}
	g.input.RotationPolicy = component.ParseRotationPolicy(s.RotationPolicy)
	g.input.CancelOppositeOnPress = s.CancelOppositeOnPress
	g.camera.Sharpness = s.CameraSharpness
}

func (g *Game) status() component.GameStatus {
	if _, gs, err := ecs.Single(g.world, component.GameStateComponent.Kind()); err == nil {
		return gs.Status
	}
	return component.StatusMenu
}

func (g *Game) Update() error {
	if g.quit {
		g.close()
		return ebiten.Termination
	}

	g.drainWatcher()

	switch g.status() {
	case component.StatusMenu:
		g.menu.Update()
	case component.StatusGameOver:
		if _, score, err := ecs.Single(g.world, component.ScoreComponent.Kind()); err == nil {
			g.scoreLine.Label = fmt.Sprintf("Kills: %d   Best: %d", score.Kills, score.Best)
		}
		g.gameOver.Update()
	case component.StatusPlaying:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			system.RequestState(g.world, component.StatusMenu)
		}
	}

	if g.debug && inpututil.IsKeyJustPressed(ebiten.KeyF6) {
		g.overlay.copyCameraPose(g.world)
	}

	g.scheduler.Tick(g.world, 1/float32(ebiten.TPS()))
	g.recordScore()
	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for _, name := range g.watcher.Pending() {
		system.RequestReload(g.world, name)
	}
	select {
	case err := <-g.watcher.Errors:
		log.Warn("prefab watcher", "err", err)
	default:
	}
}

func (g *Game) recordScore() {
	_, score, err := ecs.Single(g.world, component.ScoreComponent.Kind())
	if err != nil || score.Kills <= g.store.Settings().BestScore {
		return
	}
	if err := g.store.RecordScore(score.Kills); err != nil {
		log.Warn("settings: save best score", "err", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(clearColor)
	g.scheduler.Draw(g.world, screen)

	switch g.status() {
	case component.StatusPlaying:
		g.hud.Draw(screen)
		if g.debug {
			system.DrawPhysicsDebug(g.physics.Space(), g.world, g.projector, screen)
			system.DrawControlDebug(g.world, screen)
			g.overlay.Draw(screen)
		}
	case component.StatusMenu:
		g.menu.Draw(screen)
	case component.StatusGameOver:
		g.gameOver.Draw(screen)
	}
}

func (g *Game) close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if err := g.store.Save(); err != nil {
		log.Warn("settings: save", "err", err)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
