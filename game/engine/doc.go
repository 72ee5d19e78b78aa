// Package engine provides the core rules of the snake grid game.
//
// The engine package implements:
//   - The tool registry and loadout validation for Experimental runs
//   - Player profiles, legacy migration and threshold unlocks
//   - The four mode policies (collision outcome, scoring, replay, ranking)
//   - Run lifecycle: start, collision handling, safe respawn and finish
//   - Per-mode leaderboards
//   - Game configuration loading and validation
//
// Core Types:
//
// GameEngine owns one player's Profile, Leaderboards and ToolRegistry.
// GameRun is the mutable state of a single run. ModePolicy is a closed set
// of four implementations selected by GameMode through PolicyFor.
//
// Usage:
//
//	config := engine.DefaultGameConfig()
//	eng, err := engine.NewEngine(engine.DefaultProfile(), config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	run, err := eng.StartRun(engine.Practice, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// collision at the board edge
//	_ = eng.HandleCollision(run, engine.Point{X: -1, Y: 0})
//	entry := eng.FinishRun(run)
//
// Game Rules:
//
// Practice, Challenge and Experimental runs end on the first collision.
// Invincible runs reposition the head to a free cell and grant one tick of
// immunity instead. Growth collected in Invincible runs is the only way to
// unlock tools, which can then be combined into an Experimental loadout.
package engine
