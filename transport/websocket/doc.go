// Package websocket pushes live game updates to spectators and players.
//
// A Hub tracks WebSocket clients per session. Clients only listen: every
// state change in a session is pushed to all of its clients, one JSON
// Message per frame. Anything a client sends is read and discarded so the
// connection's ping/pong handling keeps working.
//
// Message Protocol:
//
//	{"session_id": "a1b2", "event": "roll", "data": {...}}
//	{"session_id": "a1b2", "event": "state_update", "game_state": {...}}
//
// Outcome events (roll, landing, card, buy, upgrade, end_turn, reset) carry
// the engine outcome in data. A state_update follows each action with the
// full snapshot.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
//	hub.BroadcastEvent(sessionID, websocket.EventRoll, outcome)
//	hub.BroadcastToSession(sessionID, state)
//
// Cancelling the context passed to Run closes every client. Broadcasts made
// after that return immediately.
package websocket
