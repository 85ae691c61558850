// Package mcp exposes the Dafuweng REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one or two REST
// requests against a running API server, and the JSON answer is rendered as
// plain text an agent can read. No game state lives here.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: board, players, pending draw and legal actions
//   - roll_dice, choose_card, buy_property, upgrade_property, end_turn: turn operations
//   - reset_game: start over, keeping the log
//   - game_log: paginated log, newest first
//   - list_configs: setup presets
//   - game_instructions: rules, board layout and both card decks
//   - describe_space: one space with rent table, owner and occupants
//
// A move the rules refuse is not a tool error. The tool answers with the
// refusal reason and the legal actions so the agent can correct itself.
// Tool errors are reserved for bad arguments, unknown sessions and an
// unreachable API.
//
// Transport Modes:
//
//	// Stdio, for local MCP clients
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP, mounted next to the REST API
//	response := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
