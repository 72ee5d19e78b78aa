package engine

import (
	"fmt"
	"slices"
)

// GameEngine owns the profile, the leaderboards and the tool registry of one player
type GameEngine struct {
	profile      Profile
	leaderboards *Leaderboards
	registry     *ToolRegistry
	thresholds   []uint64
	board        Board
}

// NewEngine creates an engine for a profile, migrating it to the current schema
func NewEngine(profile Profile, config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	migrated, err := MigrateProfile(profile)
	if err != nil {
		return nil, err
	}

	engine := &GameEngine{
		profile:      migrated,
		leaderboards: NewLeaderboards(),
		registry:     DemoRegistry(),
		thresholds:   slices.Clone(config.Thresholds),
		board:        config.Board(),
	}
	engine.profile.ApplyThresholdUnlocks(engine.registry, engine.thresholds)

	return engine, nil
}

// Profile returns a copy of the current profile
func (e *GameEngine) Profile() Profile {
	return e.profile.Clone()
}

// Leaderboards returns the engine's leaderboards
func (e *GameEngine) Leaderboards() *Leaderboards {
	return e.leaderboards
}

// Registry returns the tool catalog
func (e *GameEngine) Registry() *ToolRegistry {
	return e.registry
}

// Board returns the board new runs are played on
func (e *GameEngine) Board() Board {
	return e.board
}

// EnableReplay sets whether deaths show a replay
func (e *GameEngine) EnableReplay(enabled bool) {
	e.profile.ReplayOnDeath = enabled
}

// StartRun creates a run; requested is only read for Experimental
func (e *GameEngine) StartRun(mode GameMode, requested []string) (*GameRun, error) {
	var loadout *ToolLoadout
	if mode == Experimental {
		if requested == nil {
			return nil, ErrLoadoutRequired
		}
		validated, err := e.registry.ValidateLoadout(e.profile.UnlockedToolIDs, requested)
		if err != nil {
			return nil, err
		}
		loadout = &validated
	}

	return &GameRun{
		Mode:    mode,
		Board:   e.board,
		Snake:   StartingSnake(e.board),
		Effects: EffectsFromLoadout(loadout),
		loadout: loadout,
	}, nil
}

// StartingSnake returns the three-cell snake a run begins with, head first, facing right
func StartingSnake(board Board) []Point {
	head := Point{X: board.Width/2 - 1, Y: board.Height/2 - 1}
	return []Point{head, {X: head.X - 1, Y: head.Y}, {X: head.X - 2, Y: head.Y}}
}

// HandleCollision resolves a collision according to the run's mode
func (e *GameEngine) HandleCollision(run *GameRun, candidate Point) error {
	if run.Ended {
		return ErrAlreadyEnded
	}

	policy := PolicyFor(run.Mode)
	switch policy.CollisionOutcome() {
	case Die:
		end := policy.RunEndState(e.profile.ReplayOnDeath)
		run.Ended = true
		run.ShowReplay = end.ShowReplay
	case Reposition:
		respawn, err := FindSafeRespawn(run, candidate)
		if err != nil {
			return err
		}
		run.Snake[0] = respawn
		run.GraceTicksRemaining = 1
	}
	return nil
}

// FindSafeRespawn accepts the candidate when it is free, otherwise scans row-major
func FindSafeRespawn(run *GameRun, candidate Point) (Point, error) {
	if run.Board.Contains(candidate) && !run.Occupies(candidate) {
		return candidate, nil
	}
	for i := 0; i < run.Board.Area(); i++ {
		cell := run.Board.CellAt(i)
		if !run.Occupies(cell) {
			return cell, nil
		}
	}
	return Point{}, fmt.Errorf("%w on %dx%d board", ErrNoSafeRespawn, run.Board.Width, run.Board.Height)
}

// Score returns the run's current score under its mode
func (e *GameEngine) Score(run *GameRun) uint64 {
	return PolicyFor(run.Mode).Score(run.Metrics, run.Effects)
}

// FinishRun scores the run, applies progression and submits it to the leaderboard
func (e *GameEngine) FinishRun(run *GameRun) LeaderboardEntry {
	entry := LeaderboardEntry{
		Mode:           run.Mode,
		Score:          e.Score(run),
		SurvivalTicks:  run.Metrics.SurvivalTicks,
		LoadoutSummary: run.LoadoutSummary(),
	}

	if run.Mode == Invincible {
		e.profile.InvincibleCumulativeLength = satAdd(e.profile.InvincibleCumulativeLength, run.Metrics.GrowthUnits)
		e.profile.ApplyThresholdUnlocks(e.registry, e.thresholds)
	}

	e.leaderboards.Submit(entry)
	return entry
}

// RestoreLeaderboard re-submits previously ranked entries
func (e *GameEngine) RestoreLeaderboard(entries []LeaderboardEntry) {
	for _, entry := range entries {
		e.leaderboards.Submit(entry)
	}
}
