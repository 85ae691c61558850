package service

import (
	"time"

	"github.com/wricardo/dafuweng/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// CreateSessionRequest selects a setup preset and optionally overrides its
// players and seed
type CreateSessionRequest struct {
	ConfigID string               `json:"config_id,omitempty"`
	Players  []engine.PlayerSetup `json:"players,omitempty"`
	Seed     int64                `json:"seed,omitempty"`
}

// ListOptions orders and limits ListSessions
type ListOptions struct {
	SortBy string `json:"sort"`  // "created" or "accessed"
	Order  string `json:"order"` // "asc" or "desc"
	Limit  int    `json:"limit"`
}

// ActionResult is returned by every turn operation. A refused move sets
// Success=false and Reason; it is not reported as an error.
type ActionResult struct {
	Success   bool              `json:"success"`
	Reason    engine.Reason     `json:"reason,omitempty"`
	Message   string            `json:"message"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events"`

	Roll    *engine.RollOutcome    `json:"roll,omitempty"`
	Landing *engine.LandingOutcome `json:"landing,omitempty"`
	Event   *engine.EventOutcome   `json:"event,omitempty"`
	Buy     *engine.BuyOutcome     `json:"buy,omitempty"`
	Upgrade *engine.UpgradeOutcome `json:"upgrade,omitempty"`
	EndTurn *engine.EndTurnOutcome `json:"end_turn,omitempty"`
}

// GameEvent represents a log entry produced by a single operation
type GameEvent struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"` // "roll", "pass_start", "rent", "rent_waived", "draw", "card", "buy", "upgrade", "end_turn", "reset"
	PlayerID  engine.PlayerID `json:"player_id,omitempty"`
	Amount    int             `json:"amount,omitempty"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
}

// HistoryOptions configures log retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains a page of the game log
type HistoryResponse struct {
	Entries      []engine.LogEntry `json:"entries"`
	TotalEntries int               `json:"total_entries"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
	TotalPages   int               `json:"total_pages"`
	HasNext      bool              `json:"has_next"`
	HasPrevious  bool              `json:"has_previous"`
}

// ConfigInfo provides information about a setup preset
type ConfigInfo struct {
	Filename    string   `json:"filename"`
	ConfigID    string   `json:"config_id"` // The identifier to use for session creation
	Name        string   `json:"name"`      // Display name
	Description string   `json:"description"`
	Players     []string `json:"players"`
	Seeded      bool     `json:"seeded"`
}
