// Package session provides session management for the snake grid game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Profile and leaderboard persistence as JSON documents
//   - Recognition and migration of legacy profiles
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the session registry used by the service layer. Each session
// wraps one intent.App built on its own engine, so sessions never share a
// profile, a leaderboard or a run.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs unless the caller picks one. IDs are
// case-insensitive and limited to lowercase letters, digits, '-' and '_'
// because they double as file names.
//
// Persistence:
//
// FilePersistence stores one document per session holding the config id,
// timestamps, the profile and every leaderboard row. A profile document
// that carries best_score predates schema versioning and is converted with
// engine.FromLegacy. A profile written by a newer build is replaced with
// defaults and a warning is logged. Runs in progress are not persisted.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", configManager)
//	manager := session.NewManagerWithPersistence(persistence)
//
//	sess, err := manager.Create("", "classic", configManager.GetDefault())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Cleanup:
//
// RunCleanup drops idle sessions from memory on a timer. Persisted sessions
// remain on disk and are loaded again on the next Get.
package session
