// Package api provides the REST API for the Dafuweng board game.
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions              Create a session {"config_id", "players", "seed"}
//   - GET    /api/sessions              List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}         Session details with the current state
//   - DELETE /api/sessions/{id}         Delete a session
//
// Turn Operations:
//   - GET  /api/sessions/{id}/state     Current game state with legal actions
//   - POST /api/sessions/{id}/roll      Roll the die, move and resolve the landing
//   - POST /api/sessions/{id}/buy       Buy the vacant property under the current player
//   - POST /api/sessions/{id}/upgrade   Upgrade the current player's property
//   - POST /api/sessions/{id}/choose    Pick one card of a pending draw {"slot": 0}
//   - POST /api/sessions/{id}/end-turn  Hand the turn to the other player
//   - POST /api/sessions/{id}/reset     Start the game over; the log is kept
//   - GET  /api/sessions/{id}/history   Paginated game log (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET  /api/configs                 List setup presets
//   - GET  /api/configs/{name}          Get a preset
//   - POST /api/configs                 Save a preset (?id= overrides the file name)
//   - POST /api/configs/reload          Drop cached presets and re-read them from disk
//
// Other:
//   - GET /api/health                   Liveness check
//   - GET /ws?session={id}              WebSocket live updates
//
// Status Codes:
//
// Turn operations answer 200 with a service.ActionResult. A move the rules do
// not allow answers 409 with the same body, Success=false and a machine
// readable reason such as "not_rolled" or "insufficient_funds". Unknown
// sessions and presets answer 404; malformed bodies and invalid presets 400.
//
// Live Updates:
//
// After every accepted move the server pushes each outcome (roll, landing,
// card, buy, upgrade, end_turn, reset) to the session's WebSocket clients,
// followed by a state_update carrying the full snapshot.
//
// Example:
//
//	curl -X POST localhost:8080/api/sessions -d '{"config_id": "duel"}'
//	curl -X POST localhost:8080/api/sessions/a1b2/roll
//	curl -X POST localhost:8080/api/sessions/a1b2/choose -d '{"slot": 1}'
//	curl -X POST localhost:8080/api/sessions/a1b2/end-turn
package api
