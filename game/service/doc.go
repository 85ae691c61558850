// Package service provides the business logic layer for the Dafuweng board game.
//
// The service package implements:
//   - Multi-session game management
//   - Setup preset loading with per-session player and seed overrides
//   - Turn operations shaped into ActionResult values
//   - Paginated access to the game log
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages setup preset loading and validation.
//
// Architecture:
//
// The service layer sits between the presentation adapters (HTTP/WebSocket/MCP)
// and the rules engine. Every mutating call runs under the service lock, so the
// single-writer engine never sees concurrent access. Each session owns its own
// engine instance with independent state and random source.
//
// Refused moves are not errors: Roll, Buy, Upgrade, ChooseCard and EndTurn
// return an ActionResult with Success=false and a machine-readable Reason.
// Errors are reserved for unknown sessions, bad presets and engine faults.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, service.CreateSessionRequest{ConfigID: "classic"})
//	if err != nil {
//		log.Fatal().Err(err).Msg("create session")
//	}
//
//	res, err := gameService.Roll(ctx, info.ID)
//	if res.GameState.Legal.ChooseCard {
//		res, err = gameService.ChooseCard(ctx, info.ID, 0)
//	}
package service
