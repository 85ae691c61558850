// Package session provides in-memory session management for the Dafuweng board game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the session store used by the game service. Each stored
// service.Session owns its own rules engine, created from the session's setup
// preset plus any engine options (such as a fixed seed).
//
// Session Identifiers:
//
// Sessions use 4-character hexadecimal IDs for easy reference. IDs come from
// crypto/rand; a colliding ID is regenerated. Lookups are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", preset, engine.WithSeed(42))
//	if err != nil {
//		return err
//	}
//
//	sess, err = manager.Get(sessionID)
//
//	go manager.RunCleanup(ctx, 24*time.Hour, time.Hour)
//
// Sessions live only in memory; a restart starts from an empty store.
package session
