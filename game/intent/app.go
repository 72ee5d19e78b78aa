package intent

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/sim"
)

// RunSummary is what the Summary screen shows about the last finished run
type RunSummary struct {
	Mode           engine.GameMode `json:"mode"`
	Score          uint64          `json:"score"`
	SurvivalTicks  uint64          `json:"survival_ticks"`
	FoodEaten      uint64          `json:"food_eaten"`
	GrowthUnits    uint64          `json:"growth_units"`
	LoadoutSummary string          `json:"loadout_summary"`
}

type loadoutState struct {
	slotCursor int
	selected   [engine.LoadoutSlots]int
}

type runningScreen struct {
	sim   *sim.Running
	phase Phase
}

// App is the screen state machine of one player. It is not safe for concurrent use.
type App struct {
	engine *engine.GameEngine
	config *engine.GameConfig
	layout Layout
	seeds  func() sim.Seed

	screen            Screen
	mainMenuCursor    int
	modeCursor        int
	leaderboardCursor int
	loadout           loadoutState
	running           *runningScreen
	summary           *RunSummary
	message           string
	pointer           pointerState

	// OnRunFinished receives the leaderboard entry of every finished run
	OnRunFinished func(entry engine.LeaderboardEntry)
}

// NewApp creates an App on the main menu
func NewApp(eng *engine.GameEngine, config *engine.GameConfig, layout Layout) *App {
	a := &App{
		engine: eng,
		config: config,
		layout: layout,
		seeds:  sim.WallClockSeed,
		screen: MainMenu,
	}
	a.loadout = a.defaultLoadout()
	return a
}

// SetSeedSource replaces the wall-clock seed used when a run starts
func (a *App) SetSeedSource(seeds func() sim.Seed) {
	a.seeds = seeds
}

// Engine returns the engine the App drives
func (a *App) Engine() *engine.GameEngine {
	return a.engine
}

// Config returns the game configuration
func (a *App) Config() *engine.GameConfig {
	return a.config
}

// Layout returns the hit-test layout
func (a *App) Layout() Layout {
	return a.layout
}

// Screen returns the current screen
func (a *App) Screen() Screen {
	return a.screen
}

// Phase returns the running phase, or nil outside the Running screen
func (a *App) Phase() Phase {
	if a.running == nil {
		return nil
	}
	return a.running.phase
}

// Running returns the simulation of the current run, or nil
func (a *App) Running() *sim.Running {
	if a.running == nil {
		return nil
	}
	return a.running.sim
}

// Frame applies keyboard commands, then the pointer sample, then advances time
func (a *App) Frame(dt time.Duration, commands []Command, pointer *Vec2, wheel float64) {
	for _, cmd := range commands {
		a.Apply(cmd)
	}
	if pointer != nil {
		a.Pointer(dt, *pointer, wheel)
	}
	a.Update(dt)
}

// Apply routes a command to the current screen
func (a *App) Apply(cmd Command) {
	switch a.screen {
	case MainMenu:
		a.applyMainMenu(cmd)
	case ModeSelect:
		a.applyModeSelect(cmd)
	case Loadout:
		a.applyLoadout(cmd)
	case Running:
		a.applyRunning(cmd)
	case Summary:
		a.applySummary(cmd)
	case Leaderboard:
		a.applyLeaderboard(cmd)
	case Settings:
		a.applySettings(cmd)
	}
}

func (a *App) applyMainMenu(cmd Command) {
	switch cmd {
	case Up:
		a.mainMenuCursor = cycle(a.mainMenuCursor, -1, len(MainMenuItems))
	case Down:
		a.mainMenuCursor = cycle(a.mainMenuCursor, 1, len(MainMenuItems))
	case Confirm:
		switch a.mainMenuCursor {
		case 0:
			a.modeCursor = 0
			a.screen = ModeSelect
		case 1:
			a.leaderboardCursor = 0
			a.screen = Leaderboard
		case 2:
			a.screen = Settings
		}
	}
}

func (a *App) applyModeSelect(cmd Command) {
	switch cmd {
	case Up, Left:
		a.modeCursor = cycle(a.modeCursor, -1, len(engine.Modes))
	case Down, Right:
		a.modeCursor = cycle(a.modeCursor, 1, len(engine.Modes))
	case Confirm:
		mode := engine.Modes[a.modeCursor]
		if mode == engine.Experimental {
			a.loadout = a.defaultLoadout()
			a.screen = Loadout
			return
		}
		a.StartMode(mode, nil)
	case Back:
		a.screen = MainMenu
	}
}

func (a *App) applyLoadout(cmd Command) {
	tools := a.engine.Registry().Len()
	if tools == 0 {
		a.message = "no tools available in registry"
		return
	}

	slot := a.loadout.slotCursor
	switch cmd {
	case Up:
		a.loadout.slotCursor = cycle(slot, -1, engine.LoadoutSlots)
	case Down:
		a.loadout.slotCursor = cycle(slot, 1, engine.LoadoutSlots)
	case Left:
		a.loadout.selected[slot] = cycle(a.loadout.selected[slot], -1, tools)
	case Right:
		a.loadout.selected[slot] = cycle(a.loadout.selected[slot], 1, tools)
	case Confirm:
		a.StartMode(engine.Experimental, a.selectedTools())
	case Back:
		a.screen = ModeSelect
	}
}

func (a *App) applyRunning(cmd Command) {
	switch cmd {
	case Up:
		a.steer(sim.Up)
	case Down:
		a.steer(sim.Down)
	case Left:
		a.steer(sim.Left)
	case Right:
		a.steer(sim.Right)
	case Back:
		a.completeRun()
	}
}

func (a *App) applySummary(cmd Command) {
	switch cmd {
	case Confirm, Back:
		a.screen = MainMenu
	case Right:
		a.screen = Leaderboard
	}
}

func (a *App) applyLeaderboard(cmd Command) {
	switch cmd {
	case Up, Left:
		a.leaderboardCursor = cycle(a.leaderboardCursor, -1, len(engine.Modes))
	case Down, Right:
		a.leaderboardCursor = cycle(a.leaderboardCursor, 1, len(engine.Modes))
	case Confirm, Back:
		a.screen = MainMenu
	}
}

func (a *App) applySettings(cmd Command) {
	switch cmd {
	case Left, Right, Confirm:
		a.ToggleReplay()
	case Back:
		a.screen = MainMenu
	}
}

// ToggleReplay flips the replay-on-death setting
func (a *App) ToggleReplay() {
	a.engine.EnableReplay(!a.engine.Profile().ReplayOnDeath)
}

func (a *App) defaultLoadout() loadoutState {
	var state loadoutState
	tools := a.engine.Registry().Len()
	if tools == 0 {
		return state
	}
	for i := range state.selected {
		state.selected[i] = i % tools
	}
	return state
}

func (a *App) selectedTools() []string {
	ids := a.engine.Registry().IDs()
	selected := make([]string, 0, engine.LoadoutSlots)
	for _, idx := range a.loadout.selected {
		selected = append(selected, ids[idx%len(ids)])
	}
	return selected
}

// StartMode starts a run; on failure the message is set and the selection screen shown again
func (a *App) StartMode(mode engine.GameMode, requested []string) {
	a.message = ""
	run, err := a.engine.StartRun(mode, requested)
	if err != nil {
		a.message = err.Error()
		if mode == engine.Experimental {
			a.screen = Loadout
		} else {
			a.screen = ModeSelect
		}
		return
	}

	a.running = &runningScreen{
		sim:   sim.NewRunning(run, a.config, a.seeds()),
		phase: &Active{},
	}
	a.screen = Running
	log.Debug().Str("mode", mode.String()).Str("loadout", run.LoadoutSummary()).Msg("run started")
}

// steer resumes a paused run, then queues the turn
func (a *App) steer(d sim.Direction) {
	a.resume(nil)
	a.enqueue(d)
}

func (a *App) enqueue(d sim.Direction) {
	if a.running == nil {
		return
	}
	if _, ok := a.running.phase.(*Active); !ok {
		return
	}
	a.running.sim.Enqueue(d)
}

func (a *App) resume(pos *Vec2) {
	if a.running == nil {
		return
	}
	paused, ok := a.running.phase.(*PointerIdlePause)
	if !ok {
		return
	}
	anchor := paused.Anchor
	if pos != nil {
		anchor = *pos
	}
	a.running.phase = &Active{anchor: &anchor, grace: a.config.Pointer.IdleGrace()}
}

// Update advances the running phase by dt
func (a *App) Update(dt time.Duration) {
	if a.screen != Running || a.running == nil {
		return
	}

	switch phase := a.running.phase.(type) {
	case *Active:
		if !a.running.sim.Advance(a.engine, dt) {
			return
		}
		if a.running.sim.Run.ShowReplay {
			a.running.phase = &Replay{Remaining: a.config.ReplayDuration()}
			return
		}
		a.completeRun()
	case *Replay:
		phase.Remaining -= dt
		if phase.Remaining <= 0 {
			a.completeRun()
		}
	case *PointerIdlePause:
	}
}

// completeRun takes the run, scores it and moves to the Summary screen
func (a *App) completeRun() {
	if a.running == nil {
		return
	}
	run := a.running.sim.Run
	a.running = nil

	entry := a.engine.FinishRun(run)
	a.summary = &RunSummary{
		Mode:           run.Mode,
		Score:          entry.Score,
		SurvivalTicks:  run.Metrics.SurvivalTicks,
		FoodEaten:      run.Metrics.FoodEaten,
		GrowthUnits:    run.Metrics.GrowthUnits,
		LoadoutSummary: entry.LoadoutSummary,
	}
	a.leaderboardCursor = run.Mode.Index()
	a.screen = Summary

	log.Debug().Str("mode", run.Mode.String()).Uint64("score", entry.Score).Msg("run finished")
	if a.OnRunFinished != nil {
		a.OnRunFinished(entry)
	}
}
