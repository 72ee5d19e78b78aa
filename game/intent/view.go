package intent

import (
	"github.com/wricardo/snakegrid/game/engine"
	"github.com/wricardo/snakegrid/game/sim"
)

// View is a read-only snapshot of everything a renderer needs
type View struct {
	Screen             Screen                    `json:"screen"`
	Message            string                    `json:"message,omitempty"`
	MainMenu           []string                  `json:"main_menu"`
	MainMenuCursor     int                       `json:"main_menu_cursor"`
	Modes              []engine.GameMode         `json:"modes"`
	ModeCursor         int                       `json:"mode_cursor"`
	Loadout            LoadoutView               `json:"loadout"`
	Run                *RunView                  `json:"run,omitempty"`
	Summary            *RunSummary               `json:"summary,omitempty"`
	LeaderboardMode    engine.GameMode           `json:"leaderboard_mode"`
	LeaderboardRows    []engine.LeaderboardEntry `json:"leaderboard_rows"`
	ReplayOnDeath      bool                      `json:"replay_on_death"`
	CumulativeLength   uint64                    `json:"invincible_cumulative_length"`
	UnlockedTools      []string                  `json:"unlocked_tools"`
	BackHotzoneEnabled bool                      `json:"back_hotzone_enabled"`
}

// LoadoutView is the loadout picker state
type LoadoutView struct {
	SlotCursor int        `json:"slot_cursor"`
	Slots      []SlotView `json:"slots"`
}

// SlotView is one loadout slot with its currently chosen tool
type SlotView struct {
	ToolID   string              `json:"tool_id"`
	Category engine.ToolCategory `json:"category"`
	Unlocked bool                `json:"unlocked"`
}

// RunView is the run on screen
type RunView struct {
	Mode           engine.GameMode      `json:"mode"`
	Phase          string               `json:"phase"`
	Board          engine.Board         `json:"board"`
	Snake          []engine.Point       `json:"snake"`
	Foods          []engine.Point       `json:"foods"`
	Direction      sim.Direction        `json:"direction"`
	Queued         []sim.Direction      `json:"queued"`
	Metrics        engine.RunMetrics    `json:"metrics"`
	Score          uint64               `json:"score"`
	Effects        engine.ActiveEffects `json:"effects"`
	LoadoutSummary string               `json:"loadout_summary"`
	GraceTicks     uint8                `json:"grace_ticks"`
	ReplayTrail    []engine.Point       `json:"replay_trail,omitempty"`
	ReplayLeftMs   int64                `json:"replay_left_ms,omitempty"`
}

// View builds a snapshot of the current state
func (a *App) View() View {
	profile := a.engine.Profile()
	leaderboardMode := engine.Modes[a.leaderboardCursor]

	v := View{
		Screen:             a.screen,
		Message:            a.message,
		MainMenu:           append([]string(nil), MainMenuItems...),
		MainMenuCursor:     a.mainMenuCursor,
		Modes:              append([]engine.GameMode(nil), engine.Modes...),
		ModeCursor:         a.modeCursor,
		Loadout:            a.loadoutView(profile.UnlockedToolIDs),
		LeaderboardMode:    leaderboardMode,
		LeaderboardRows:    a.engine.Leaderboards().Rows(leaderboardMode),
		ReplayOnDeath:      profile.ReplayOnDeath,
		CumulativeLength:   profile.InvincibleCumulativeLength,
		UnlockedTools:      profile.UnlockedToolIDs.Sorted(),
		BackHotzoneEnabled: a.screen != Running,
	}
	if a.summary != nil {
		summary := *a.summary
		v.Summary = &summary
	}
	if a.running != nil {
		v.Run = a.runView()
	}
	return v
}

func (a *App) loadoutView(unlocked engine.IDSet) LoadoutView {
	view := LoadoutView{SlotCursor: a.loadout.slotCursor}
	registry := a.engine.Registry()
	ids := registry.IDs()
	if len(ids) == 0 {
		return view
	}
	for _, idx := range a.loadout.selected {
		id := ids[idx%len(ids)]
		def, _ := registry.Tool(id)
		view.Slots = append(view.Slots, SlotView{
			ToolID:   id,
			Category: def.Category,
			Unlocked: unlocked.Has(id),
		})
	}
	return view
}

func (a *App) runView() *RunView {
	s := a.running.sim
	run := s.Run.Snapshot()
	view := &RunView{
		Mode:           run.Mode,
		Phase:          a.running.phase.Name(),
		Board:          run.Board,
		Snake:          run.Snake,
		Foods:          append([]engine.Point(nil), s.Foods...),
		Direction:      s.Direction,
		Queued:         s.Queue.Pending(),
		Metrics:        run.Metrics,
		Score:          a.engine.Score(&run),
		Effects:        run.Effects,
		LoadoutSummary: s.Run.LoadoutSummary(),
		GraceTicks:     run.GraceTicksRemaining,
	}
	if replay, ok := a.running.phase.(*Replay); ok {
		view.ReplayTrail = append([]engine.Point(nil), s.ReplayTrail...)
		view.ReplayLeftMs = replay.Remaining.Milliseconds()
	}
	return view
}
