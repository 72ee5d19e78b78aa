// Package service provides the business logic layer for the snake grid game.
//
// The service package implements:
//   - Multi-session game management
//   - Frame processing (commands, pointer sample, elapsed time)
//   - Per-session leaderboards, profile and settings
//   - Cross-session run archiving
//   - Configuration management and loading
//
// Core Interfaces:
//
// GameService is the main service interface used by every transport.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
// RunArchive stores finished runs from all sessions.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP,
// terminal) and the intent state machine. Each Session owns one intent.App,
// which is not safe for concurrent use, so every access goes through the
// session lock. Sessions are independent and may use different configs.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Frame(ctx, info.ID, service.FrameRequest{
//		Commands: []string{"confirm", "confirm"},
//		DtMs:     180,
//	})
//
// Persistence:
//
// A session is saved whenever a run finishes or a setting changes, never
// on plain frames. Only the profile and leaderboards are persisted; a run
// in progress is lost on restart.
package service
